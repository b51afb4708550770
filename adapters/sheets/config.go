package sheets

import "time"

// ReaderConfig holds configuration for fetching published spreadsheets
type ReaderConfig struct {
	Timeout   time.Duration `json:"timeout"`
	MaxBytes  int64         `json:"max_bytes"`
	UserAgent string        `json:"user_agent"`
}

// DefaultReaderConfig returns sensible defaults for sheet exports
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Timeout:   30 * time.Second,
		MaxBytes:  32 << 20,
		UserAgent: "coordash/1.0",
	}
}
