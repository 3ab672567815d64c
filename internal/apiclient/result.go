package apiclient

// Outcome tells whether a Result carries fetched data or a fallback.
type Outcome int

const (
	Fetched Outcome = iota
	Fallback
)

func (o Outcome) String() string {
	if o == Fallback {
		return "fallback"
	}
	return "fetched"
}

// Result is the value of a masked domain operation. On Fallback, Value is
// the operation's default and Err holds the failure it replaced.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

func (r Result[T]) UsedFallback() bool {
	return r.Outcome == Fallback
}

func fetched[T any](v T) Result[T] {
	return Result[T]{Value: v, Outcome: Fetched}
}
