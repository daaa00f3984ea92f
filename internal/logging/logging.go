// Package logging builds the zap logger shared by the bfhl commands.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-bfhl/internal/config"
)

// New builds a logger from cfg. verbose forces debug level.
func New(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zcfg, err := Config(cfg, verbose)
	if err != nil {
		return nil, err
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}

// Config translates cfg into a zap configuration without building it.
func Config(cfg config.LoggingConfig, verbose bool) (zap.Config, error) {
	var zcfg zap.Config
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		zcfg = zap.NewProductionConfig()
	case "console":
		zcfg = zap.NewDevelopmentConfig()
	default:
		return zap.Config{}, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}

	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(cfg.Level); raw != "" {
		parsed, err := zapcore.ParseLevel(raw)
		if err != nil {
			return zap.Config{}, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg, nil
}
