package logging

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/niels/httplite/pkg/config"
	"github.com/rs/zerolog"
)

var (
	// Global logger instance, silent until InitGlobalLogger is called
	globalLogger = zerolog.Nop()
)

// InitGlobalLogger configures the global logger from cfg. debug forces the
// debug level regardless of the configured one.
func InitGlobalLogger(debug bool, cfg *config.LogConfig) {
	if cfg == nil {
		defaults := config.LoadDefault().Logging
		cfg = &defaults
	}

	level := ParseLevel(cfg.Level)
	if debug {
		level = zerolog.DebugLevel
	}

	var output io.Writer = os.Stderr
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	if cfg.LogToFile {
		fileLogger := &lumberjack.Logger{
			Filename:   cfg.LogFilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}

		if debug {
			// In debug mode, send logs to both file and stderr
			output = io.MultiWriter(fileLogger, output)
		} else {
			output = fileLogger
		}
	}

	globalLogger = NewLogger(level, output)
	if cfg.LogToFile {
		globalLogger.Debug().Str("path", cfg.LogFilePath).Msg("Logging to file")
	}
}

// NewLogger creates a zerolog logger writing to output at the given level
func NewLogger(level zerolog.Level, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stderr
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name into a zerolog level. Unknown or empty
// names fall back to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// GetLogger returns the global logger instance
func GetLogger() zerolog.Logger {
	return globalLogger
}

// WithComponent returns a logger with the component field set
func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}

// Info logs a message at info level
func Info(msg string) {
	globalLogger.Info().Msg(msg)
}

// Debug logs a message at debug level
func Debug(msg string) {
	globalLogger.Debug().Msg(msg)
}

// InfoWith logs a message at info level with additional context
func InfoWith(msg string, fields map[string]interface{}) {
	globalLogger.Info().Fields(fields).Msg(msg)
}

// ErrorWith logs a message at error level with additional context
func ErrorWith(msg string, fields map[string]interface{}) {
	globalLogger.Error().Fields(fields).Msg(msg)
}
