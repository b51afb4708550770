package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os/signal"
	"syscall"
	"time"

	"coordash/internal"
	"coordash/internal/config"
	"coordash/internal/container"
	"coordash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Logging.Level), appConfig.Logging.Format)
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if appConfig.Sheets.SolicitudesURL == "" {
		logger.Warn("[Main] SHEET_SOLICITUDES_URL is not set; the consultas view will report a configuration error")
	}
	if appConfig.Sheets.JuiciosURL == "" {
		logger.Warn("[Main] SHEET_JUICIOS_URL is not set; the juicios view will report a configuration error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if appConfig.Fetch.Warmup {
		go appContainer.Warmup(ctx)
	}

	server, err := ui.NewServer(appContainer.Service, appContainer.Dashboard, logger)
	if err != nil {
		log.Fatalf("Failed to initialize web server: %v", err)
	}

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			logger.Info("[Main] pprof listening on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				logger.Error("[Main] pprof server failed: %v", err)
			}
		}()
	}

	serveErr := server.Start(ctx, ":"+appConfig.Server.Port)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := appContainer.Shutdown(shutdownCtx); err != nil {
		logger.Error("[Main] shutdown: %v", err)
	}
	if serveErr != nil {
		log.Fatalf("Server failed: %v", serveErr)
	}
}
