// Package logger builds the zap SugaredLogger the whole service logs through.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appConfig "github.com/promptstash/promptstash/internal/config"
)

// New builds a logger from environment settings.
func New() (*zap.SugaredLogger, error) {
	return NewWithConfig(appConfig.LoadLoggerConfigFromEnv())
}

// NewWithConfig builds a logger for the given settings. Production settings
// use zap's production profile, everything else the development profile.
func NewWithConfig(cfg appConfig.LoggerConfig) (*zap.SugaredLogger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.DisableCaller = !cfg.Caller

	if cfg.Format == "console" {
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapCfg.Encoding = "json"
	}

	// Only the standard streams are supported as sinks.
	switch cfg.Output {
	case "stdout", "stderr":
		zapCfg.OutputPaths = []string{cfg.Output}
	default:
		zapCfg.OutputPaths = []string{"stdout"}
	}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	built, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return built.Sugar(), nil
}
