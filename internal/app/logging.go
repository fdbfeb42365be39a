package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"versa/internal/infra/telemetry"
)

// LoggingConfig configures logging wiring.
type LoggingConfig struct {
	Logger      *zap.Logger
	Broadcaster *telemetry.LogBroadcaster
}

// Logging bundles the logger and the live log broadcaster.
type Logging struct {
	Logger      *zap.Logger
	Broadcaster *telemetry.LogBroadcaster
}

// NewLogging tees the base logger into a broadcaster unless one is given.
func NewLogging(cfg LoggingConfig) Logging {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String(telemetry.FieldLogSource, telemetry.LogSourceCore))

	if cfg.Broadcaster != nil {
		return Logging{Logger: logger, Broadcaster: cfg.Broadcaster}
	}

	logs := telemetry.NewLogBroadcaster(zapcore.InfoLevel)
	logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, logs.Core())
	}))
	return Logging{Logger: logger, Broadcaster: logs}
}

func NewLogger(logging Logging) *zap.Logger {
	return logging.Logger
}

func NewLogBroadcaster(logging Logging) *telemetry.LogBroadcaster {
	return logging.Broadcaster
}

// BuildLogger creates the process logger for the binaries. Format is
// "console" or "json".
func BuildLogger(level, format string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
