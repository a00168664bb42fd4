// Package logger provides the process-wide structured logger for qclog.
// Reports go to stdout, so log output defaults to stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log *logrus.Logger
	mu  sync.RWMutex
)

func init() {
	log = newLogger(os.Stderr)
}

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	l.SetOutput(w)
	return l
}

// Initialize replaces the global logger.
//   - level: debug, info, warn, error
//   - format: text or json
func Initialize(level, format string, w io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var formatter logrus.Formatter
	switch format {
	case "", "text":
		formatter = &logrus.TextFormatter{DisableTimestamp: true}
	case "json":
		formatter = &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		}
	default:
		return fmt.Errorf("invalid log format %q: must be json or text", format)
	}

	if w == nil {
		w = os.Stderr
	}

	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(formatter)
	l.SetOutput(w)

	mu.Lock()
	log = l
	mu.Unlock()
	return nil
}

func current() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// WithFields returns an entry carrying the given structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return current().WithFields(fields)
}

// WithField returns an entry carrying a single structured field.
func WithField(key string, value interface{}) *logrus.Entry {
	return current().WithField(key, value)
}

// ForModule returns an entry tagged with a module anchor.
func ForModule(anchor string) *logrus.Entry {
	return WithField("module", anchor)
}
