package ui

import (
	"context"
	"encoding/json"
	"net/http"

	"coordash/app"
	"coordash/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// App serves the JSON API alone, without pages or static files
type App struct {
	router  *chi.Mux
	service *app.ReportService
	logger  *internal.Logger
}

// NewApp creates the JSON API router
func NewApp(service *app.ReportService, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		logger:  logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Get("/api/views", a.handleListViews)
	a.router.Get("/api/views/{name}", a.handleGetView)
	a.router.Post("/api/views/{name}/refresh", a.handleRefreshView)
}

// Handler exposes the router, mainly for tests
func (a *App) Handler() http.Handler {
	return a.router
}

// Start serves on addr until ctx is cancelled
func (a *App) Start(ctx context.Context, addr string) error {
	return serve(ctx, addr, a.router, a.logger.With("component", "api"))
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "views": a.service.Status()})
}

func (a *App) handleListViews(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"views": viewSummaries(a.service)})
}

func (a *App) handleGetView(w http.ResponseWriter, r *http.Request) {
	result, err := a.service.Query(r.Context(), chi.URLParam(r, "name"), r.URL.Query().Get("selector"))
	if err != nil {
		a.writeJSON(w, httpStatus(err), newErrorBody(err))
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

func (a *App) handleRefreshView(w http.ResponseWriter, r *http.Request) {
	result, err := a.service.Refresh(r.Context(), chi.URLParam(r, "name"), r.URL.Query().Get("selector"))
	if err != nil {
		a.writeJSON(w, httpStatus(err), newErrorBody(err))
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("[API] encoding response failed: %v", err)
	}
}
