package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"", INFO, false},
		{" warn ", WARN, false},
		{"warning", WARN, false},
		{"error", ERROR, false},
		{"fatal", FATAL, false},
		{"verbose", INFO, true},
	}

	for _, tc := range testCases {
		level, err := ParseLevel(tc.input)
		if tc.wantErr {
			assert.Error(t, err, tc.input)
		} else {
			assert.NoError(t, err, tc.input)
		}
		assert.Equal(t, tc.expected, level, tc.input)
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: WARN, Output: &buf})
	require.NoError(t, err)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("visible warning", map[string]interface{}{"b": 2, "a": 1})
	logger.Error("visible error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "visible warning [a=1 b=2]")
	assert.Contains(t, out, "ERROR")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestLoggerPrefixAndColor(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: DEBUG, Prefix: "PwAnalyzer", Colored: true, Output: &buf})
	require.NoError(t, err)

	logger.Error("boom")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[PwAnalyzer] "+ColorRed))
	assert.Contains(t, out, ColorReset)
}

func TestLoggerWritesFileWithoutColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: INFO, Colored: true, LogToFile: true, LogFilePath: path, Output: &buf})
	require.NoError(t, err)

	logger.Info("to file")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.NotContains(t, string(data), ColorBlue)
	assert.Contains(t, buf.String(), ColorBlue)
}

func TestGlobalHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: DEBUG, Output: &buf})
	require.NoError(t, err)

	previous := SetDefaultLogger(logger)
	defer SetDefaultLogger(previous)

	LogHTTPRequest("POST", "/analyze", 200, 15*time.Millisecond, map[string]interface{}{"request_id": "abc"})
	LogAnalysisEvent("form", 4, "Moderate", nil)

	out := buf.String()
	assert.Contains(t, out, "HTTP Request")
	assert.Contains(t, out, "method=POST")
	assert.Contains(t, out, "request_id=abc")
	assert.Contains(t, out, "status_code=200")
	assert.Contains(t, out, "Analysis Event")
	assert.Contains(t, out, "label=Moderate")
	assert.Contains(t, out, "score=4")
	assert.Equal(t, logger, GetDefaultLogger())
}

func TestGlobalHelpersWithoutLogger(t *testing.T) {
	previous := SetDefaultLogger(nil)
	defer SetDefaultLogger(previous)

	assert.NotPanics(t, func() {
		Debug("nothing")
		Info("nothing")
		Warn("nothing")
		Error("nothing")
	})
}
