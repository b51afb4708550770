package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coordash/domain/report"
	"coordash/internal"
	"coordash/internal/errors"
	"coordash/ports"

	"golang.org/x/sync/errgroup"
)

// ViewResult is what a presentation layer needs to draw one report view
type ViewResult struct {
	View        string          `json:"view"`
	Title       string          `json:"title"`
	Phase       report.Phase    `json:"phase"`
	Loading     bool            `json:"loading"`
	Error       string          `json:"error,omitempty"`
	ErrorCode   string          `json:"error_code,omitempty"`
	Mode        SelectorMode    `json:"mode"`
	Selector    string          `json:"selector"`
	HasSelector bool            `json:"has_selector"`
	Options     []string        `json:"options"`
	Columns     []Column        `json:"columns"`
	Rows        [][]DisplayCell `json:"rows"`
	Count       int             `json:"count"`
	TotalRows   int             `json:"total_rows"`
	LoadedAt    *time.Time      `json:"loaded_at,omitempty"`

	// Matches holds the selected rows before projection
	Matches []report.NormalizedRow `json:"-"`
}

// ReportService keeps one Loader per report view
type ReportService struct {
	loaders map[string]*Loader
	order   []string
	logger  *internal.Logger
}

// NewReportService validates defs and creates their loaders
func NewReportService(defs []ViewDefinition, source ports.SheetSource, opts LoaderOptions, logger *internal.Logger) (*ReportService, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	s := &ReportService{
		loaders: make(map[string]*Loader, len(defs)),
		logger:  logger,
	}
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.loaders[def.Name]; dup {
			return nil, errors.ConfigInvalid(fmt.Sprintf("view %q defined twice", def.Name))
		}
		if def.SourceURL == "" {
			logger.Warn("[ReportService] view %s has no source URL configured", def.Name)
		}
		s.loaders[def.Name] = NewLoader(def, source, opts, logger)
		s.order = append(s.order, def.Name)
	}
	return s, nil
}

// Views lists the view definitions in registration order
func (s *ReportService) Views() []ViewDefinition {
	defs := make([]ViewDefinition, 0, len(s.order))
	for _, name := range s.order {
		defs = append(defs, s.loaders[name].Definition())
	}
	return defs
}

// View returns the definition of one view
func (s *ReportService) View(name string) (ViewDefinition, bool) {
	l, ok := s.loaders[name]
	if !ok {
		return ViewDefinition{}, false
	}
	return l.Definition(), true
}

// Query activates a view and applies selector to its rows
func (s *ReportService) Query(ctx context.Context, name, selector string) (*ViewResult, error) {
	l, ok := s.loaders[name]
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("view %q", name))
	}
	return buildResult(l.Definition(), l.Load(ctx), selector), nil
}

// Refresh forces a new fetch for a view and applies selector to the result
func (s *ReportService) Refresh(ctx context.Context, name, selector string) (*ViewResult, error) {
	l, ok := s.loaders[name]
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("view %q", name))
	}
	return buildResult(l.Definition(), l.Refresh(ctx), selector), nil
}

// RefreshAll reloads every view concurrently and returns the first failure.
// A failing view does not stop the others.
func (s *ReportService) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	for _, name := range s.order {
		l := s.loaders[name]
		g.Go(func() error {
			state := l.Refresh(ctx)
			if state.Phase == report.PhaseError {
				return errors.Wrapf(state.Err, "view %s", l.Definition().Name)
			}
			return nil
		})
	}
	return g.Wait()
}

// Status reports the phase of every view without activating any
func (s *ReportService) Status() map[string]report.Phase {
	status := make(map[string]report.Phase, len(s.order))
	for _, name := range s.order {
		status[name] = s.loaders[name].State().Phase
	}
	return status
}

// Close cancels in-flight fetches of every view
func (s *ReportService) Close() {
	for _, name := range s.order {
		s.loaders[name].Close()
	}
}

func buildResult(def ViewDefinition, state report.ViewState, selector string) *ViewResult {
	result := &ViewResult{
		View:        def.Name,
		Title:       def.Title,
		Phase:       state.Phase,
		Loading:     state.Busy(),
		Mode:        def.Mode,
		Selector:    selector,
		HasSelector: hasSelector(def.Mode, selector),
		Columns:     def.Columns,
		Options:     def.Options(state.Rows),
		Matches:     def.Filter(state.Rows, selector),
		TotalRows:   len(state.Rows),
	}
	if state.Err != nil {
		result.Error = errors.UserMessage(state.Err)
		result.ErrorCode = errors.GetCode(state.Err)
	}
	if state.Loaded {
		loadedAt := state.LoadedAt
		result.LoadedAt = &loadedAt
	}

	result.Rows = make([][]DisplayCell, 0, len(result.Matches))
	for _, row := range result.Matches {
		result.Rows = append(result.Rows, def.Project(def.Fields, row))
	}
	result.Count = len(result.Rows)
	return result
}

func hasSelector(mode SelectorMode, selector string) bool {
	if mode == SelectorSubstring {
		return strings.TrimSpace(selector) != ""
	}
	return selector != ""
}
