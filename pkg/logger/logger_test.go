package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, "warn", false)

	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, "shown") {
		t.Errorf("expected warn message in output: %s", out)
	}
}

func TestNewUnknownLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, "chatty", false)

	l.Debug().Msg("debug")
	l.Info().Msg("info")

	out := buf.String()
	if strings.Contains(out, `"debug"`) {
		t.Errorf("expected info fallback level, got debug output: %s", out)
	}
	if !strings.Contains(out, `"info"`) {
		t.Errorf("expected info output: %s", out)
	}
}
