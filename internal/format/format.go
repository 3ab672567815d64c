package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NotAvailable is shown for values that are unknown.
const NotAvailable = "---"

// Price formats a USD price. Sub-dollar prices keep four decimals so token
// prices like $0.0712 stay readable; larger prices use two and commas.
func Price(d decimal.Decimal) string {
	var s string
	if d.Abs().LessThan(decimal.NewFromInt(1)) {
		s = d.StringFixed(4)
	} else {
		s = d.StringFixed(2)
	}
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + "$" + insertCommas(intPart) + "." + frac
}

// PricePtr is Price for optional prices.
func PricePtr(d *decimal.Decimal) string {
	if d == nil {
		return NotAvailable
	}
	return Price(*d)
}

// Compact abbreviates large magnitudes: 2_500_000_000 → "2.50B".
func Compact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// USD is Compact with a dollar sign: 12_500_000 → "$12.50M".
func USD(v float64) string {
	if v < 0 {
		return "-$" + Compact(-v)
	}
	return "$" + Compact(v)
}

// USDPtr is USD for optional values.
func USDPtr(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return USD(*v)
}

// Percent formats a signed change with two decimals: 3.421 → "+3.42%".
func Percent(p float64) string {
	if p > 0 {
		return fmt.Sprintf("+%.2f%%", p)
	}
	return fmt.Sprintf("%.2f%%", p)
}

// PercentPtr is Percent for optional values.
func PercentPtr(p *float64) string {
	if p == nil {
		return NotAvailable
	}
	return Percent(*p)
}

// Number formats an integer with comma separators: 12345678 → "12,345,678".
func Number(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return "-" + insertCommas(s[1:])
	}
	return insertCommas(s)
}

// IntPtr is Number for optional counts.
func IntPtr(n *int) string {
	if n == nil {
		return NotAvailable
	}
	return Number(int64(*n))
}

// TPS formats transactions per second with one decimal.
func TPS(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f tx/s", *v)
}

// Ago renders how long before now t happened, at the coarsest useful unit.
func Ago(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < 0:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func insertCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
