// Package logging wraps the process-wide logrus logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the global logger instance
var Logger = logrus.New()

func init() {
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(logrus.WarnLevel)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// SetVerbosity maps the CLI verbosity level onto a log level:
// 1 and 3 enable debug logs, anything else stays at info.
// Raw device output (2 and 3) is gated by the transports, not by the level.
func SetVerbosity(level int) {
	switch level {
	case 1, 3:
		Logger.SetLevel(logrus.DebugLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}
}

// SetLogLevel sets the logging level by name
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// SetLogOutput sets the log output destination
func SetLogOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// SetJSONFormat enables JSON log format
func SetJSONFormat() {
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
}

// WithTarget returns a logger with device context
func WithTarget(target string) *logrus.Entry {
	return Logger.WithField("target", target)
}

// WithOperation returns a logger with operation context
func WithOperation(operation string) *logrus.Entry {
	return Logger.WithField("operation", operation)
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
}
