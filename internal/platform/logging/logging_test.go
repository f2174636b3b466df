package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"cuplog/internal/platform/logging"
)

func TestNewRespectsLevel(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.New("info", buf)
	logger.Debug("hidden")
	logger.Info("shown", "coffee", "kenya")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "coffee=kenya") {
		t.Fatalf("expected info line with fields, got %s", out)
	}
}

func TestNewUnknownLevelFallsBackToWarn(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.New("chatty", buf)
	logger.Info("quiet")
	logger.Warn("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Fatalf("expected warn threshold, got %s", buf.String())
	}
}

func TestOrDiscard(t *testing.T) {
	t.Parallel()
	if logging.OrDiscard(nil) == nil {
		t.Fatalf("expected null logger")
	}
}
