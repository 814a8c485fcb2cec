// Package logging builds the zap loggers used by the batch runner and the
// command line.
package logging

import (
	"go.uber.org/zap"
)

// Config holds logging configuration.
type Config struct {
	Level       string `json:"level"`
	Format      string `json:"format"` // "json" or "console"
	OutputPath  string `json:"output_path"`
	Development bool   `json:"development"`
}

// DefaultConfig logs info and above as console text on stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console"}
}

// New creates a logger for cfg. An unknown level falls back to info.
func New(cfg Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zc.Level = level

	if cfg.Format == "json" {
		zc.Encoding = "json"
	} else {
		zc.Encoding = "console"
	}

	if cfg.OutputPath != "" {
		zc.OutputPaths = []string{cfg.OutputPath}
	} else {
		zc.OutputPaths = []string{"stderr"}
	}

	return zc.Build()
}
