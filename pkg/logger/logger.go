package logger

import (
	"os"
	"strings"
	"sync"

	"receipt-analyzer/pkg/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "receipt-analyzer"

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// Init builds the process-wide logger once; later calls are no-ops.
func Init(cfg *config.LoggerConfig) error {
	var err error
	once.Do(func() {
		globalLogger, err = newLogger(cfg)
	})
	return err
}

// Get returns the global logger, initializing it from LOG_LEVEL if Init was never called.
func Get() *zap.Logger {
	if globalLogger == nil {
		_ = Init(&config.LoggerConfig{Level: os.Getenv("LOG_LEVEL")})
	}
	return globalLogger
}

func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

// Named returns a child of the global logger for one component.
func Named(component string) *zap.Logger {
	return Get().Named(component).With(zap.String("component", component))
}

func newLogger(cfg *config.LoggerConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if strings.EqualFold(cfg.Format, config.LogFormatConsole) {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zcfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.MessageKey = "message"
	zcfg.InitialFields = map[string]interface{}{"service": serviceName}

	return zcfg.Build()
}

// parseLevel falls back to info for empty or unknown level names
func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return zapLevel
}
