package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"coordash/internal"
	"coordash/internal/config"
	"coordash/internal/container"
	"coordash/ui"

	"github.com/joho/godotenv"
)

// JSON-only server: the report API without pages, for other tools to poll
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Logging.Level), appConfig.Logging.Format)

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if appConfig.Fetch.Warmup {
		go appContainer.Warmup(ctx)
	}

	serveErr := ui.NewApp(appContainer.Service, logger).Start(ctx, ":"+appConfig.Server.Port)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := appContainer.Shutdown(shutdownCtx); err != nil {
		logger.Error("[API] shutdown: %v", err)
	}
	if serveErr != nil {
		log.Fatalf("API server failed: %v", serveErr)
	}
}
