package scan

// FetchStatus classifies the outcome of one best-effort read.
type FetchStatus int

const (
	StatusOK FetchStatus = iota
	StatusAbsent
	StatusError
)

func (s FetchStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusAbsent:
		return "absent"
	default:
		return "error"
	}
}

// UnknownRemaining marks a read whose provider reported no rate budget.
const UnknownRemaining = -1

// Fetch is the result of one read against a Source. Absent means the thing
// does not exist; Error carries the failure. Signal extraction treats both
// as "no signal".
type Fetch[T any] struct {
	Status FetchStatus
	Value  T
	Err    error
	// RateRemaining is the provider's remaining request budget after the
	// call, or UnknownRemaining.
	RateRemaining int
}

func OK[T any](v T, remaining int) Fetch[T] {
	return Fetch[T]{Status: StatusOK, Value: v, RateRemaining: remaining}
}

func Absent[T any](remaining int) Fetch[T] {
	return Fetch[T]{Status: StatusAbsent, RateRemaining: remaining}
}

func Failed[T any](err error, remaining int) Fetch[T] {
	return Fetch[T]{Status: StatusError, Err: err, RateRemaining: remaining}
}

// Get returns the value when the read succeeded.
func (f Fetch[T]) Get() (T, bool) {
	if f.Status != StatusOK {
		var zero T
		return zero, false
	}
	return f.Value, true
}
