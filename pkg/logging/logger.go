// Package logging builds the zap logger and redacts secrets before they reach it.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds a zap logger. The "local" environment gets the human-readable
// development encoder; every other environment logs JSON. Output always goes
// to stderr because stdout carries the MCP stdio stream.
func New(level, env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if level == "" {
		level = "info"
	}
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.Level = atomicLevel
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
