package ui

import (
	"context"
	"embed"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"coordash/app"
	"coordash/internal"
	"coordash/internal/config"
	"coordash/internal/errors"
	"coordash/ui/middleware"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static/css/*
var embeddedFiles embed.FS

// Navigation groups of the sidebar
const (
	GroupConsultas = "consultas"
	GroupRegistro  = "registro"
)

// Server is the dashboard web server
type Server struct {
	router    *gin.Engine
	service   *app.ReportService
	dashboard *config.Dashboard
	templates *template.Template
	logger    *internal.Logger

	welcome  template.HTML
	redirect template.HTML
}

// NewServer parses the embedded templates and registers every route
func NewServer(service *app.ReportService, dashboard *config.Dashboard, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	funcMap := template.FuncMap{
		"column": func(columns []app.Column, i int) app.Column {
			if i < 0 || i >= len(columns) {
				return app.Column{}
			}
			return columns[i]
		},
		"formatTime": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Local().Format("2006-01-02 15:04")
		},
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}

	s := &Server{
		router:    gin.New(),
		service:   service,
		dashboard: dashboard,
		templates: templates,
		logger:    logger,
		welcome:   renderMarkdown(dashboard.Welcome.Markdown),
		redirect:  renderMarkdown(dashboard.Redirect),
	}

	if err := s.checkFormRoutes(); err != nil {
		return nil, err
	}
	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware and the static file tree
func (s *Server) setupMiddleware() error {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger(s.logger))

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return errors.Wrap(err, "failed to create static filesystem")
	}
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	for _, def := range s.service.Views() {
		s.router.GET(def.Path, s.handleView(def.Name))
	}
	for _, form := range s.dashboard.Forms {
		s.router.GET("/"+form.Name, s.handleForm(form.Name))
	}
	s.router.GET("/formularios/:name/embed", s.handleFormEmbed)

	api := s.router.Group("/api")
	{
		api.GET("/views", s.handleListViews)
		api.GET("/views/:name", s.handleGetView)
		api.POST("/views/:name/refresh", s.handleRefreshView)
	}

	s.router.NoRoute(s.handleNotFound)
}

// checkFormRoutes rejects form names whose page would shadow another route
func (s *Server) checkFormRoutes() error {
	taken := map[string]bool{"/": true, "/healthz": true, "/static": true, "/api": true, "/formularios": true}
	for _, def := range s.service.Views() {
		taken[def.Path] = true
	}
	for _, form := range s.dashboard.Forms {
		if taken["/"+form.Name] {
			return errors.ConfigInvalid(fmt.Sprintf("form %q collides with an existing route", form.Name))
		}
		taken["/"+form.Name] = true
	}
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	return serve(ctx, addr, s.router, s.logger.With("component", "server"))
}

func serve(ctx context.Context, addr string, handler http.Handler, logger *internal.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[Server] listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("[Server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
