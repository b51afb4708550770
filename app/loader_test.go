package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"coordash/domain/report"
	"coordash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// MockSheetSource is a testify mock of ports.SheetSource
type MockSheetSource struct {
	mock.Mock
}

func (m *MockSheetSource) Fetch(ctx context.Context, sourceURL string) (*report.Table, error) {
	args := m.Called(ctx, sourceURL)
	table, _ := args.Get(0).(*report.Table)
	return table, args.Error(1)
}

// blockingSource counts calls and blocks each one until released or cancelled
type blockingSource struct {
	calls   atomic.Int32
	release chan struct{}
	table   *report.Table
}

func (b *blockingSource) Fetch(ctx context.Context, sourceURL string) (*report.Table, error) {
	b.calls.Add(1)
	select {
	case <-b.release:
		return b.table, nil
	case <-ctx.Done():
		return nil, errors.TransportError("No se pudo conectar con la hoja de cálculo", ctx.Err())
	}
}

func solicitudesTable(rows ...[2]string) *report.Table {
	table := &report.Table{Headers: []string{"Correo del instructor", "Marca temporal"}}
	for _, r := range rows {
		table.Rows = append(table.Rows, report.RawRow{
			{Header: "Correo del instructor", Value: r[0]},
			{Header: "Marca temporal", Value: r[1]},
		})
	}
	return table
}

func TestLoaderFetchesOnceAndReuses(t *testing.T) {
	source := new(MockSheetSource)
	source.On("Fetch", mock.Anything, "http://sheet/solicitudes").
		Return(solicitudesTable([2]string{"a@x.com", "2024-05-01 10:00"}), nil).Once()

	l := NewLoader(SolicitudesView("http://sheet/solicitudes"), source, LoaderOptions{}, nil)
	defer l.Close()

	first := l.Load(context.Background())
	require.Equal(t, report.PhaseReady, first.Phase)
	assert.Len(t, first.Rows, 1)
	assert.Equal(t, "a@x.com", first.Rows[0]["correo del instructor"])

	second := l.Load(context.Background())
	assert.Equal(t, first.Attempt, second.Attempt)
	source.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestLoaderReloadsAfterTTL(t *testing.T) {
	source := new(MockSheetSource)
	source.On("Fetch", mock.Anything, "u").Return(solicitudesTable(), nil)

	l := NewLoader(SolicitudesView("u"), source, LoaderOptions{TTL: time.Minute}, nil)
	defer l.Close()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Load(context.Background())
	l.Load(context.Background())
	source.AssertNumberOfCalls(t, "Fetch", 1)

	now = now.Add(2 * time.Minute)
	l.Load(context.Background())
	source.AssertNumberOfCalls(t, "Fetch", 2)
}

func TestLoaderErrorIsTerminalUntilRefresh(t *testing.T) {
	source := new(MockSheetSource)
	source.On("Fetch", mock.Anything, "u").Return(nil, errors.HTTPStatus(500)).Once()
	source.On("Fetch", mock.Anything, "u").Return(solicitudesTable([2]string{"a@x.com", "x"}), nil).Once()

	l := NewLoader(SolicitudesView("u"), source, LoaderOptions{}, nil)
	defer l.Close()

	state := l.Load(context.Background())
	assert.Equal(t, report.PhaseError, state.Phase)
	assert.Equal(t, "Error HTTP 500", errors.UserMessage(state.Err))
	assert.Empty(t, state.Rows)

	state = l.Load(context.Background())
	assert.Equal(t, report.PhaseError, state.Phase)
	source.AssertNumberOfCalls(t, "Fetch", 1)

	state = l.Refresh(context.Background())
	assert.Equal(t, report.PhaseReady, state.Phase)
	assert.Len(t, state.Rows, 1)
}

func TestLoaderKeepsRowsWhenRefreshFails(t *testing.T) {
	source := new(MockSheetSource)
	source.On("Fetch", mock.Anything, "u").Return(solicitudesTable([2]string{"a@x.com", "x"}), nil).Once()
	source.On("Fetch", mock.Anything, "u").Return(nil, errors.ParseError("El CSV recibido no tiene un formato válido", nil)).Once()

	l := NewLoader(SolicitudesView("u"), source, LoaderOptions{}, nil)
	defer l.Close()

	l.Load(context.Background())
	state := l.Refresh(context.Background())
	assert.Equal(t, report.PhaseError, state.Phase)
	assert.Len(t, state.Rows, 1)
}

func TestLoaderSharesConcurrentActivations(t *testing.T) {
	source := &blockingSource{release: make(chan struct{}), table: solicitudesTable([2]string{"a@x.com", "x"})}
	l := NewLoader(SolicitudesView("u"), source, LoaderOptions{}, nil)
	defer l.Close()

	var wg sync.WaitGroup
	states := make([]report.ViewState, 5)
	for i := range states {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i] = l.Load(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return l.State().Busy() }, time.Second, time.Millisecond)
	close(source.release)
	wg.Wait()

	assert.Equal(t, int32(1), source.calls.Load())
	for _, s := range states {
		assert.Equal(t, report.PhaseReady, s.Phase)
	}
}

func TestLoaderCallerContextDoesNotCancelAttempt(t *testing.T) {
	source := &blockingSource{release: make(chan struct{}), table: solicitudesTable()}
	l := NewLoader(SolicitudesView("u"), source, LoaderOptions{}, nil)
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state := l.Load(ctx)
	assert.Contains(t, []report.Phase{report.PhaseIdle, report.PhaseLoading}, state.Phase)

	require.Eventually(t, func() bool { return l.State().Busy() }, time.Second, time.Millisecond)
	close(source.release)
	require.Eventually(t, func() bool { return l.State().Phase == report.PhaseReady }, time.Second, time.Millisecond)
}

func TestLoaderCloseCancelsInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &blockingSource{release: make(chan struct{}), table: solicitudesTable()}
	l := NewLoader(SolicitudesView("u"), source, LoaderOptions{}, nil)

	done := make(chan report.ViewState)
	go func() { done <- l.Load(context.Background()) }()
	require.Eventually(t, func() bool { return l.State().Busy() }, time.Second, time.Millisecond)

	l.Close()
	state := <-done
	assert.Equal(t, report.PhaseClosed, state.Phase)
	assert.Empty(t, state.Rows)

	assert.Equal(t, report.PhaseClosed, l.Load(context.Background()).Phase)
}

func TestLoaderTimeout(t *testing.T) {
	source := &blockingSource{release: make(chan struct{}), table: solicitudesTable()}
	l := NewLoader(SolicitudesView("u"), source, LoaderOptions{Timeout: 20 * time.Millisecond}, nil)
	defer l.Close()

	state := l.Load(context.Background())
	assert.Equal(t, report.PhaseError, state.Phase)
	assert.Equal(t, errors.CodeTransportError, errors.GetCode(state.Err))
}
