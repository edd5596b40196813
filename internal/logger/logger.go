// Package logger builds the zap logger the dashboard components share.
// Subsystems derive their own loggers from it with Named.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"crypto-dashboard-go/internal/config"
)

// NewLogger creates a zap.Logger from the logger section of the config.
// Format "json" selects the production encoder; anything else gets the
// development console encoder.
func NewLogger(cfg config.Logger) (*zap.Logger, error) {
	logLevel, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	zapCfg.Level = zap.NewAtomicLevelAt(logLevel)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}
