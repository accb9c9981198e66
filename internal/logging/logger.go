// Package logging builds the zap loggers used across brandscan.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// L is the process-wide logger. It is a no-op until InitLogger runs.
	L = zap.NewNop()

	initOnce sync.Once
)

// New builds a logger. Development mode logs at debug level with a colored
// console encoder; otherwise JSON at info level.
func New(development bool) (*zap.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.EncoderConfig.TimeKey = "ts"
	// Records go to stdout; keep logs off it.
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger (development=%t): %w", development, err)
	}
	return logger, nil
}

// InitLogger sets L once. Later calls are no-ops.
func InitLogger(development bool) error {
	var err error
	initOnce.Do(func() {
		var logger *zap.Logger
		logger, err = New(development)
		if err != nil {
			return
		}
		L = logger
		zap.ReplaceGlobals(logger)
	})
	return err
}
