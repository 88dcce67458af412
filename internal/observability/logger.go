// Package observability holds the process-wide structured logger.
package observability

import (
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// Init builds the logger: production JSON encoding unless APP_ENV is
// "development", which switches to the human-readable console encoder.
func Init() {
	once.Do(func() {
		var cfg zap.Config
		if os.Getenv("APP_ENV") == "development" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			cfg = zap.NewProductionConfig()
			cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		}

		built, err := cfg.Build()
		if err != nil {
			log.Fatalf("failed to initialize logger: %v", err)
		}
		logger = built
	})
}

// GetLogger returns the shared logger, initializing it on first use.
func GetLogger() *zap.Logger {
	if logger == nil {
		Init()
	}
	return logger
}
