package container

import (
	"context"
	"time"

	"coordash/adapters/sheets"
	"coordash/app"
	"coordash/internal"
	"coordash/internal/config"
	"coordash/internal/errors"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config    *config.Config
	Dashboard *config.Dashboard
	Logger    *internal.Logger

	Reader  *sheets.Reader
	Service *app.ReportService
}

// New wires the sheet reader and the report service from cfg
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level), cfg.Logging.Format)
	}

	dashboard, err := config.LoadDashboard(cfg.DashboardFile, cfg.Forms)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dashboard file")
	}

	readerConfig := sheets.DefaultReaderConfig()
	readerConfig.Timeout = cfg.Fetch.Timeout
	reader := sheets.NewReader(readerConfig, logger)

	service, err := app.NewReportService(
		app.BuiltinViews(cfg.Sheets, dashboard.Views),
		reader,
		app.LoaderOptions{TTL: cfg.Fetch.CacheTTL, Timeout: cfg.Fetch.Timeout},
		logger,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create report service")
	}

	return &Container{
		Config:    cfg,
		Dashboard: dashboard,
		Logger:    logger,
		Reader:    reader,
		Service:   service,
	}, nil
}

// Warmup loads every view once. Failures are logged, not returned, so a
// broken sheet never blocks startup.
func (c *Container) Warmup(ctx context.Context) {
	start := time.Now()
	if err := c.Service.RefreshAll(ctx); err != nil {
		c.Logger.Warn("[Container] warm-up finished with errors: %v", err)
		return
	}
	c.Logger.Info("[Container] warm-up loaded %d views in %s", len(c.Service.Views()), time.Since(start))
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.Service.Close()
		close(done)
	}()

	select {
	case <-done:
		c.Logger.Sync()
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "shutdown timed out waiting for in-flight fetches")
	}
}
