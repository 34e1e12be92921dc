package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines the configuration for the logger.
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json, console
	EnableColor bool   // only honoured by the console format
}

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// DefaultConfig returns the configuration used when nothing was initialized.
func DefaultConfig() Config {
	return Config{
		Level:       getEnv("LOG_LEVEL", "warn"),
		Format:      getEnv("LOG_FORMAT", "console"),
		EnableColor: ShouldEnableColor(),
	}
}

// Initialize sets up the global logger. Only the first call has an effect.
// Logs go to stderr; stdout is reserved for completions.
func Initialize(cfg Config) {
	once.Do(func() {
		var err error
		globalLogger, err = New(cfg)
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
	})
}

// New builds a standalone logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.Format == "console" && cfg.EnableColor {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	if cfg.Format == "console" {
		encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(ParseLevel(cfg.Level)),
		Development:       false,
		Encoding:          cfg.Format,
		EncoderConfig:     encoderConfig,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: cfg.Level != "debug",
	}

	return zapConfig.Build()
}

// Get returns the global logger, initializing it with defaults if needed.
func Get() *zap.Logger {
	Initialize(DefaultConfig())
	return globalLogger
}

func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return strings.ToLower(value)
	}
	return fallback
}

// ParseLevel maps a level name to a zap level, defaulting to warn.
func ParseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// ShouldEnableColor checks NO_COLOR (https://no-color.org/) and LOG_COLOR.
func ShouldEnableColor() bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	if val := os.Getenv("LOG_COLOR"); val != "" {
		return val == "true" || val == "1"
	}
	return true
}
