package app

import (
	"context"
	"sync"
	"time"

	"coordash/domain/report"
	"coordash/internal"
	"coordash/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// LoaderOptions tunes how often a view goes back to its source
type LoaderOptions struct {
	// TTL after which ready rows are fetched again on the next activation.
	// Zero keeps rows until an explicit refresh.
	TTL time.Duration
	// Timeout bounds one fetch attempt. Zero means no timeout.
	Timeout time.Duration
}

// Loader owns the ViewState of one report view. The first activation
// triggers the fetch, later activations reuse the rows. Concurrent
// activations share a single attempt.
type Loader struct {
	def    ViewDefinition
	source ports.SheetSource
	opts   LoaderOptions
	logger *internal.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group
	wg     sync.WaitGroup

	mu    sync.Mutex
	state report.ViewState
}

// NewLoader creates an idle loader for def
func NewLoader(def ViewDefinition, source ports.SheetSource, opts LoaderOptions, logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		def:    def,
		source: source,
		opts:   opts,
		logger: logger.With("view", def.Name),
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
		state:  report.ViewState{Phase: report.PhaseIdle},
	}
}

// Definition returns the view this loader serves
func (l *Loader) Definition() ViewDefinition {
	return l.def
}

// State returns a snapshot of the current view state
func (l *Loader) State() report.ViewState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load activates the view. It fetches when the view is idle or its rows
// expired and otherwise returns the current state. A failed view stays
// failed until Refresh. If ctx ends first the caller gets the state as it
// is while the attempt keeps running for the other waiters.
func (l *Loader) Load(ctx context.Context) report.ViewState {
	if !l.needsFetch(l.State()) {
		return l.State()
	}
	return l.do(ctx, false)
}

// Refresh starts a new attempt unless one is already in flight
func (l *Loader) Refresh(ctx context.Context) report.ViewState {
	return l.do(ctx, true)
}

// Close cancels any in-flight attempt and discards its result
func (l *Loader) Close() {
	l.mu.Lock()
	l.state = report.Reduce(l.state, report.Closed{})
	l.mu.Unlock()

	l.cancel()
	l.wg.Wait()
}

func (l *Loader) needsFetch(s report.ViewState) bool {
	switch s.Phase {
	case report.PhaseIdle, report.PhaseLoading:
		return true
	case report.PhaseReady:
		return !s.Fresh(l.now(), l.opts.TTL)
	default:
		return false
	}
}

func (l *Loader) do(ctx context.Context, force bool) report.ViewState {
	ch := l.group.DoChan(l.def.Name, func() (interface{}, error) {
		l.run(force)
		return nil, nil
	})
	select {
	case <-ch:
	case <-ctx.Done():
	}
	return l.State()
}

func (l *Loader) run(force bool) {
	attempt := uuid.NewString()

	l.mu.Lock()
	if l.state.Phase == report.PhaseClosed || (!force && !l.needsFetch(l.state)) {
		l.mu.Unlock()
		return
	}
	l.wg.Add(1)
	defer l.wg.Done()
	l.state = report.Reduce(l.state, report.FetchStarted{Attempt: attempt})
	l.mu.Unlock()

	ctx, cancel := l.attemptContext()
	defer cancel()

	start := l.now()
	l.logger.Debug("[Loader] attempt %s fetching %s", attempt, l.def.SourceURL)
	table, err := l.source.Fetch(ctx, l.def.SourceURL)

	var event report.Event
	if err != nil {
		l.logger.Error("[Loader] attempt %s failed: %v", attempt, err)
		event = report.FetchFailed{Attempt: attempt, Err: err}
	} else {
		rows, collisions := table.Normalize()
		for _, c := range collisions {
			l.logger.Warn("[Loader] headers %q and %q both normalize to %q; keeping %q", c.Replaced, c.Kept, c.Key, c.Kept)
		}
		if missing := l.def.Fields.Missing(table.Headers); len(missing) > 0 && len(table.Headers) > 0 {
			l.logger.Warn("[Loader] source has no column for fields %v", missing)
		}
		l.logger.Info("[Loader] attempt %s loaded %d rows in %s", attempt, len(rows), l.now().Sub(start))
		event = report.FetchSucceeded{Attempt: attempt, Headers: table.Headers, Rows: rows, At: l.now()}
	}

	l.mu.Lock()
	l.state = report.Reduce(l.state, event)
	l.mu.Unlock()
}

func (l *Loader) attemptContext() (context.Context, context.CancelFunc) {
	if l.opts.Timeout > 0 {
		return context.WithTimeout(l.ctx, l.opts.Timeout)
	}
	return context.WithCancel(l.ctx)
}
