package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Fields represents structured logging fields
type Fields = logrus.Fields

// NewLogger creates a logger writing to stdout. format is "json" or "text";
// unknown levels fall back to info.
func NewLogger(level, format string) *logrus.Logger {
	return newLogger(os.Stdout, level, format)
}

// NewLoggerWithService creates a logger whose entries all carry a service field
func NewLoggerWithService(serviceName, level, format string) *logrus.Entry {
	return NewLogger(level, format).WithField("service", serviceName)
}

// Discard returns a logger that drops everything. Used by tests and by callers
// that pass no logger.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newLogger(out io.Writer, level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if strings.EqualFold(format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
