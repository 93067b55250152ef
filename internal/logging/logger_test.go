package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewPrefixesAppName(t *testing.T) {
	var output bytes.Buffer
	logger := NewWithOutput("syndic", "debug", &output)

	logger.Info("storage ready")

	line := output.String()
	if !strings.Contains(line, "[syndic] storage ready") {
		t.Fatalf("expected app name prefix in %q", line)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}
}

func TestNewFallsBackToInfoOnInvalidLevel(t *testing.T) {
	var output bytes.Buffer
	logger := NewWithOutput("syndic", "chatty", &output)

	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", logger.GetLevel())
	}
	if !strings.Contains(output.String(), "invalid LOG_LEVEL") {
		t.Fatalf("expected warning about invalid level, got %q", output.String())
	}
}

func TestNewDefaultsEmptyLevelToInfo(t *testing.T) {
	logger := NewWithOutput("", "", &bytes.Buffer{})
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", logger.GetLevel())
	}
}
