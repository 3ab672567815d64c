package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsUsesNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test_ns", reg)

	m.ClientFallbacks.WithLabelValues("current_hbar").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "test_ns_client_fallbacks_total" {
			found = true
		}
	}
	assert.True(t, found, "expected namespaced fallback counter")
}

func TestRecordHelpersUpdateDefaultMetrics(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.ClientFallbacks.WithLabelValues("top_tokens"))
	RecordClientFallback("top_tokens")
	after := testutil.ToFloat64(DefaultMetrics.ClientFallbacks.WithLabelValues("top_tokens"))
	assert.Equal(t, before+1, after)

	RecordJobRun("hbar_data_fetch", 0.2, nil)
	assert.GreaterOrEqual(t, testutil.ToFloat64(DefaultMetrics.JobRuns.WithLabelValues("hbar_data_fetch", "success")), float64(1))
}

func TestHandlerServesMetrics(t *testing.T) {
	RecordPollFetch("hbar-current", "interval")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "chainmetrics_poll_fetches_total"))
}
