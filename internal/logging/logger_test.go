package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, enabled map[string]bool) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core), enabled)
	t.Cleanup(CloseAll)
	return logs
}

func TestGet_NamesLoggerByCategory(t *testing.T) {
	logs := observe(t, nil)

	Agent("turn %d done", 3)
	LLMError("boom: %s", "timeout")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "agent", entries[0].LoggerName)
	assert.Equal(t, "turn 3 done", entries[0].Message)
	assert.Equal(t, "llm", entries[1].LoggerName)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestCategoryFilter(t *testing.T) {
	logs := observe(t, map[string]bool{"window": false, "agent": true})

	assert.False(t, IsCategoryEnabled(CategoryWindow))
	assert.True(t, IsCategoryEnabled(CategoryAgent))
	assert.True(t, IsCategoryEnabled(CategoryBrowser), "unlisted categories stay on")

	WindowDebug("hidden")
	Agent("shown")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
}

func TestWithRequestID(t *testing.T) {
	logs := observe(t, nil)

	WithRequestID(CategoryAgent, "req-42").Info("sending")

	entries := logs.FilterField(zap.String("req", "req-42")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "sending", entries[0].Message)
}

func TestTimer_StopWithThreshold(t *testing.T) {
	logs := observe(t, nil)

	timer := StartTimer(CategoryLLM, "upload")
	time.Sleep(2 * time.Millisecond)
	elapsed := timer.StopWithThreshold(time.Nanosecond)

	assert.Greater(t, elapsed, time.Duration(0))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestInitialize_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "athlon.log")
	require.NoError(t, Initialize(Config{Level: "debug", Format: "json", File: path}))

	Files("seed loaded")
	CloseAll()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"seed loaded"`))
	assert.True(t, strings.Contains(string(data), `"logger":"files"`))
}

func TestInitialize_NoFileIsSilent(t *testing.T) {
	require.NoError(t, Initialize(Config{}))
	t.Cleanup(CloseAll)

	// Nothing to assert beyond not panicking on a no-op core.
	Boot("nowhere")
	assert.NotNil(t, Get(CategoryBoot).Zap())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("chatty"))
}
