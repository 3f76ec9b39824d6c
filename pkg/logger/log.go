package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"family-registry/pkg/config"
)

// Loggers - именованные логгеры подсистем.
type Loggers struct {
	Main    *zap.Logger
	Auth    *zap.Logger
	Family  *zap.Logger
	History *zap.Logger
	User    *zap.Logger
}

func NewLogger(cfg config.LogConfig) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	outputs := []string{"stdout"}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err == nil {
			outputs = append(outputs, cfg.File)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	dualConfig := zap.Config{
		Encoding:         "console",
		Level:            level,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderConfig,
	}

	dualLogger, err := dualConfig.Build()
	if err != nil {
		panic(err)
	}

	return dualLogger
}

func NewLoggers(base *zap.Logger) *Loggers {
	return &Loggers{
		Main:    base.Named("main"),
		Auth:    base.Named("auth"),
		Family:  base.Named("family"),
		History: base.Named("history"),
		User:    base.Named("user"),
	}
}

func NewNopLoggers() *Loggers {
	return NewLoggers(zap.NewNop())
}
