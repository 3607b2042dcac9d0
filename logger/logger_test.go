package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestConsoleHandlerFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Output: &buf})

	l.With("system", "physics").WithGroup("form").Info("landed", "y", 1.5)

	line := buf.String()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "INFO  landed")
	assert.Contains(t, line, "system=physics")
	assert.Contains(t, line, "form.y=1.5")
	assert.NotContains(t, line, "form.system")
}

func TestConsoleHandlerGroupsOnlyLaterAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})

	l.With("component", "game").WithGroup("req").With("id", 7).WithGroup("body").Info("spawned", "mass", 2)

	line := buf.String()
	assert.Contains(t, line, "  component=game")
	assert.Contains(t, line, "  req.id=7")
	assert.Contains(t, line, "  req.body.mass=2")
	assert.NotContains(t, line, "req.component")
}

func TestConsoleHandlerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})

	l.Info("quiet")
	l.Warn("terrain mesh missing")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "WARN  terrain mesh missing")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Format: "json", Output: &buf}).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
