package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := defaultLogger
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(func() { defaultLogger = prev })
	return &buf
}

func TestLog_Format(t *testing.T) {
	buf := captureLogs(t)

	Warn(CatWatcher, "watch error", "path", "/tmp/x", "count", 2)

	line := buf.String()
	require.True(t, strings.HasSuffix(line, "\n"))
	require.Contains(t, line, "[WARN] [watcher] watch error path=/tmp/x count=2")
}

func TestLog_OrphanField(t *testing.T) {
	buf := captureLogs(t)

	Info(CatApp, "started", "repo")

	require.Contains(t, buf.String(), "repo=<missing>")
}

func TestLog_ErrorErr(t *testing.T) {
	buf := captureLogs(t)

	ErrorErr(CatGit, "query failed", errors.New("boom"), "view", "staged")
	ErrorErr(CatGit, "query failed", nil)

	out := buf.String()
	require.Contains(t, out, "[ERROR] [git] query failed view=staged error=boom")
	require.Contains(t, out, "error=<nil>")
}

func TestLog_MinLevelAndDisable(t *testing.T) {
	buf := captureLogs(t)

	SetMinLevel(LevelWarn)
	Debug(CatPager, "hidden")
	Warn(CatPager, "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	buf.Reset()
	SetEnabled(false)
	Error(CatPager, "suppressed")
	require.Empty(t, buf.String())
}

func TestLog_NilLoggerIsNoop(t *testing.T) {
	prev := defaultLogger
	defaultLogger = nil
	t.Cleanup(func() { defaultLogger = prev })

	require.NotPanics(t, func() {
		Debug(CatUI, "nothing")
	})
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}
