package report

import "time"

// Phase is the load phase of a report view.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseError   Phase = "error"
	PhaseClosed  Phase = "closed"
)

// ViewState is the value owned by one report view. It only changes through
// Reduce.
type ViewState struct {
	Phase    Phase
	Attempt  string
	Headers  []string
	Rows     []NormalizedRow
	Err      error
	LoadedAt time.Time
	// Loaded is true once any fetch has succeeded.
	Loaded bool
}

// Event drives a ViewState transition.
type Event interface {
	isEvent()
}

// FetchStarted begins a new attempt; results of older attempts are ignored.
type FetchStarted struct {
	Attempt string
}

// FetchSucceeded carries the rows of a completed attempt.
type FetchSucceeded struct {
	Attempt string
	Headers []string
	Rows    []NormalizedRow
	At      time.Time
}

// FetchFailed carries the error of a failed attempt.
type FetchFailed struct {
	Attempt string
	Err     error
}

// Closed tears the view down. Every later event is dropped.
type Closed struct{}

func (FetchStarted) isEvent()   {}
func (FetchSucceeded) isEvent() {}
func (FetchFailed) isEvent()    {}
func (Closed) isEvent()         {}

// Reduce returns the state that follows s after e.
//
// A failed attempt keeps the rows of the last successful one; a view that
// never loaded stays empty.
func Reduce(s ViewState, e Event) ViewState {
	if s.Phase == PhaseClosed {
		return s
	}

	switch ev := e.(type) {
	case FetchStarted:
		s.Phase = PhaseLoading
		s.Attempt = ev.Attempt
		s.Err = nil
	case FetchSucceeded:
		if ev.Attempt != s.Attempt || s.Phase != PhaseLoading {
			return s
		}
		s.Phase = PhaseReady
		s.Headers = ev.Headers
		s.Rows = ev.Rows
		if s.Rows == nil {
			s.Rows = []NormalizedRow{}
		}
		s.Err = nil
		s.LoadedAt = ev.At
		s.Loaded = true
	case FetchFailed:
		if ev.Attempt != s.Attempt || s.Phase != PhaseLoading {
			return s
		}
		s.Phase = PhaseError
		s.Err = ev.Err
		if !s.Loaded {
			s.Headers = nil
			s.Rows = []NormalizedRow{}
		}
	case Closed:
		s.Phase = PhaseClosed
	}
	return s
}

// Busy reports whether an attempt is in flight.
func (s ViewState) Busy() bool {
	return s.Phase == PhaseLoading
}

// Fresh reports whether the rows were loaded less than ttl ago. A zero ttl
// means rows never expire.
func (s ViewState) Fresh(now time.Time, ttl time.Duration) bool {
	if !s.Loaded {
		return false
	}
	if ttl <= 0 {
		return true
	}
	return now.Sub(s.LoadedAt) < ttl
}
