package utils

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the application logger. It is a no-op until InitLogger runs.
var Logger = zap.NewNop()

// InitLogger builds a console logger at the given level (debug, info, warn, error)
func InitLogger(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		log.Printf("Invalid LOG_LEVEL %q, using info", level)
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	l, err := cfg.Build()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	Logger = l
}

// SyncLogger flushes buffered entries
func SyncLogger() {
	_ = Logger.Sync()
}
