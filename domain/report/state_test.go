package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReduceHappyPath(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rows := []NormalizedRow{{"a": "1"}}

	s := ViewState{Phase: PhaseIdle}
	s = Reduce(s, FetchStarted{Attempt: "a1"})
	assert.Equal(t, PhaseLoading, s.Phase)
	assert.True(t, s.Busy())

	s = Reduce(s, FetchSucceeded{Attempt: "a1", Headers: []string{"A"}, Rows: rows, At: now})
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Equal(t, rows, s.Rows)
	assert.Equal(t, []string{"A"}, s.Headers)
	assert.True(t, s.Loaded)
	assert.Equal(t, now, s.LoadedAt)
	assert.NoError(t, s.Err)
}

func TestReduceFailureBeforeAnySuccessEmptiesRows(t *testing.T) {
	s := Reduce(ViewState{}, FetchStarted{Attempt: "a1"})
	s = Reduce(s, FetchFailed{Attempt: "a1", Err: fmt.Errorf("Error HTTP 500")})

	assert.Equal(t, PhaseError, s.Phase)
	assert.EqualError(t, s.Err, "Error HTTP 500")
	assert.Empty(t, s.Rows)
	assert.NotNil(t, s.Rows)
	assert.False(t, s.Loaded)
}

func TestReduceFailureKeepsPreviousRows(t *testing.T) {
	rows := []NormalizedRow{{"a": "1"}}
	s := Reduce(ViewState{}, FetchStarted{Attempt: "a1"})
	s = Reduce(s, FetchSucceeded{Attempt: "a1", Rows: rows, At: time.Now()})
	s = Reduce(s, FetchStarted{Attempt: "a2"})
	s = Reduce(s, FetchFailed{Attempt: "a2", Err: fmt.Errorf("boom")})

	assert.Equal(t, PhaseError, s.Phase)
	assert.Equal(t, rows, s.Rows)
	assert.True(t, s.Loaded)
}

func TestReduceIgnoresStaleAttempts(t *testing.T) {
	s := Reduce(ViewState{}, FetchStarted{Attempt: "old"})
	s = Reduce(s, FetchStarted{Attempt: "new"})

	stale := Reduce(s, FetchSucceeded{Attempt: "old", Rows: []NormalizedRow{{"x": "y"}}})
	assert.Equal(t, s, stale)

	stale = Reduce(s, FetchFailed{Attempt: "old", Err: fmt.Errorf("late")})
	assert.Equal(t, s, stale)
}

func TestReduceIgnoresDuplicateCompletion(t *testing.T) {
	s := Reduce(ViewState{}, FetchStarted{Attempt: "a1"})
	s = Reduce(s, FetchSucceeded{Attempt: "a1", Rows: []NormalizedRow{}})
	again := Reduce(s, FetchFailed{Attempt: "a1", Err: fmt.Errorf("late")})
	assert.Equal(t, PhaseReady, again.Phase)
}

func TestReduceClosedDropsEverything(t *testing.T) {
	s := Reduce(ViewState{}, FetchStarted{Attempt: "a1"})
	s = Reduce(s, Closed{})
	assert.Equal(t, PhaseClosed, s.Phase)

	after := Reduce(s, FetchSucceeded{Attempt: "a1", Rows: []NormalizedRow{{"a": "1"}}})
	assert.Equal(t, PhaseClosed, after.Phase)
	assert.Empty(t, after.Rows)

	after = Reduce(after, FetchStarted{Attempt: "a2"})
	assert.Equal(t, PhaseClosed, after.Phase)
}

func TestViewStateFresh(t *testing.T) {
	loadedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := ViewState{Loaded: true, LoadedAt: loadedAt}

	assert.True(t, s.Fresh(loadedAt.Add(time.Minute), 5*time.Minute))
	assert.False(t, s.Fresh(loadedAt.Add(10*time.Minute), 5*time.Minute))
	assert.True(t, s.Fresh(loadedAt.Add(24*time.Hour), 0))
	assert.False(t, ViewState{}.Fresh(loadedAt, 0))
}
