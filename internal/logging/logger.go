package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type appNameHook struct {
	appName string
}

func (hook *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + hook.appName + "] " + entry.Message
	return nil
}

// New builds a text logger that prefixes every message with the app name.
// An empty or unknown level falls back to info.
func New(appName string, level string) *logrus.Logger {
	return NewWithOutput(appName, level, os.Stdout)
}

func NewWithOutput(appName string, level string, output io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(output)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	normalized := strings.ToLower(strings.TrimSpace(level))
	if normalized == "" {
		normalized = "info"
	}
	parsed, err := logrus.ParseLevel(normalized)
	if err != nil {
		logger.Warnf("invalid LOG_LEVEL %q, defaulting to info", level)
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if strings.TrimSpace(appName) != "" {
		logger.AddHook(&appNameHook{appName: appName})
	}
	return logger
}

// Discard returns a logger that drops everything. Used by tests and one-shot
// commands that print their own output.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
