package config

import (
	"os"
	"strconv"
	"time"

	"coordash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Sheets    SheetsConfig
	Server    ServerConfig
	Fetch     FetchConfig
	Forms     FormsConfig
	Logging   LoggingConfig
	Profiling ProfilingConfig

	// DashboardFile is an optional YAML file with page copy and form links
	DashboardFile string
}

// SheetsConfig holds the published CSV export of each report view.
// An empty URL is not a startup error; the view reports it when opened.
type SheetsConfig struct {
	SolicitudesURL string
	JuiciosURL     string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// FetchConfig controls how often and how long sheets are fetched
type FetchConfig struct {
	Timeout  time.Duration
	CacheTTL time.Duration
	Warmup   bool
}

// FormsConfig holds the external registration forms
type FormsConfig struct {
	FichasURL string
	EnvioURL  string
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Default form links
const (
	DefaultFichasURL = "https://n9.cl/00qec"
	DefaultEnvioURL  = "https://forms.gle/N8ykdmyA7YUWTzJr8"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Sheets:        loadSheetsConfig(),
		Server:        loadServerConfig(),
		Fetch:         loadFetchConfig(),
		Forms:         loadFormsConfig(),
		Logging:       loadLoggingConfig(),
		Profiling:     loadProfilingConfig(),
		DashboardFile: getEnvOrDefault("DASHBOARD_FILE", ""),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadSheetsConfig() SheetsConfig {
	// SHEET_CSV_URL is the name used before the juicios sheet existed
	return SheetsConfig{
		SolicitudesURL: getEnvOrDefault("SHEET_SOLICITUDES_URL", os.Getenv("SHEET_CSV_URL")),
		JuiciosURL:     getEnvOrDefault("SHEET_JUICIOS_URL", ""),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadFetchConfig() FetchConfig {
	return FetchConfig{
		Timeout:  getEnvDurationOrDefault("FETCH_TIMEOUT", 30*time.Second),
		CacheTTL: getEnvDurationOrDefault("CACHE_TTL", 0),
		Warmup:   getEnvBoolOrDefault("WARMUP", false),
	}
}

func loadFormsConfig() FormsConfig {
	return FormsConfig{
		FichasURL: getEnvOrDefault("FORM_FICHAS_URL", DefaultFichasURL),
		EnvioURL:  getEnvOrDefault("FORM_ENVIO_URL", DefaultEnvioURL),
	}
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

func loadProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Fetch.Timeout < 0 {
		return errors.ConfigInvalid("FETCH_TIMEOUT must not be negative")
	}
	if config.Fetch.CacheTTL < 0 {
		return errors.ConfigInvalid("CACHE_TTL must not be negative")
	}
	if config.Profiling.Enabled && config.Profiling.Port == config.Server.Port {
		return errors.ConfigInvalid("PPROF_PORT must differ from PORT")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
