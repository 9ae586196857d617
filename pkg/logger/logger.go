// Package logger provides the structured logger shared by every component of
// the catalogue service. It is a thin layer over logrus.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LoggingConfig selects level, encoding and destination of log output.
type LoggingConfig struct {
	Level      string
	Format     string
	Output     string
	FilePrefix string
}

// Logger wraps logrus so callers get WithField/WithError/Infof and friends.
type Logger struct {
	*logrus.Logger
	component string
}

// New builds a logger from configuration. Unknown levels fall back to info,
// unknown formats to text and unknown outputs to stdout.
func New(cfg LoggingConfig) *Logger {
	base := logrus.New()

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{})
	default:
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	base.SetOutput(openOutput(cfg))
	return &Logger{Logger: base}
}

// NewDefault returns an info-level text logger writing to stdout whose
// entries carry the given component name.
func NewDefault(component string) *Logger {
	l := New(LoggingConfig{Level: "info", Format: "text", Output: "stdout"})
	l.component = component
	if component != "" {
		l.AddHook(componentHook{component: component})
	}
	return l
}

// Component reports the component name attached by NewDefault.
func (l *Logger) Component() string {
	return l.component
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	l := New(LoggingConfig{Level: "panic"})
	l.SetOutput(io.Discard)
	return l
}

func openOutput(cfg LoggingConfig) io.Writer {
	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "stderr":
		return os.Stderr
	case "file":
		prefix := strings.TrimSpace(cfg.FilePrefix)
		if prefix == "" {
			prefix = "catalog"
		}
		f, err := os.OpenFile(prefix+".log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return os.Stderr
		}
		return f
	default:
		return os.Stdout
	}
}

type componentHook struct {
	component string
}

func (h componentHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h componentHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["component"]; !ok {
		entry.Data["component"] = h.component
	}
	return nil
}
