package shared

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	ServiceName string // e.g. "record_layer"
	Development bool   // true for development mode
	Silent      bool   // true to discard all output (library default)
}

// Logger wraps zap.Logger with additional context
type Logger struct {
	*zap.Logger
	serviceName string
}

// NewLogger creates a new logger instance based on the configuration
func NewLogger(config LoggerConfig) (*Logger, error) {
	var zapLogger *zap.Logger
	var err error

	if config.Silent {
		zapLogger = zap.NewNop()
	} else if config.Development {
		// Development mode: console logging with debug level
		zapConfig := zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		zapLogger, err = zapConfig.Build()
	} else {
		// Production mode: structured JSON logging
		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		zapLogger, err = zapConfig.Build()
	}

	if err != nil {
		return nil, err
	}

	if config.ServiceName != "" {
		zapLogger = zapLogger.With(zap.String("service", config.ServiceName))
	}

	return &Logger{
		Logger:      zapLogger,
		serviceName: config.ServiceName,
	}, nil
}

// NewLoggerFromEnv creates a logger using environment variables
func NewLoggerFromEnv(serviceName string) (*Logger, error) {
	config := LoggerConfig{
		ServiceName: serviceName,
		Development: GetEnvOrDefault("DEVELOPMENT", "false") == "true",
		Silent:      GetEnvOrDefault("LOG_SILENT", "false") == "true",
	}
	return NewLogger(config)
}

// NewNopLogger returns a logger that discards everything. Used as the
// library default so that callers opt in to logging explicitly.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// WithSession returns a child logger tagged with a fresh session ID.
// The ID is returned alongside so it can be correlated across components.
func (l *Logger) WithSession() (*zap.Logger, string) {
	sessionID := uuid.NewString()
	return l.Logger.With(zap.String("session_id", sessionID)), sessionID
}

// WithConnection returns a child logger tagged with a connection address
func (l *Logger) WithConnection(remoteAddr string) *zap.Logger {
	if remoteAddr == "" {
		return l.Logger
	}
	return l.Logger.With(zap.String("remote_addr", remoteAddr))
}

// WithCryptoOp returns a child logger tagged with a crypto operation name
func (l *Logger) WithCryptoOp(operation string) *zap.Logger {
	return l.Logger.With(zap.String("crypto_operation", operation))
}

// Security logs security-relevant events at warning level
func (l *Logger) Security(msg string, fields ...zap.Field) {
	l.Logger.Warn(msg, append(fields, zap.Bool("security_event", true))...)
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.Logger.Sync()
}

// LogLevel constants for consistency
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)
