package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewVerboseForcesDebug(t *testing.T) {
	logger, err := New(Options{Level: "error", Verbose: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewRespectsLevel(t *testing.T) {
	logger, err := New(Options{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dashtools.log")

	logger, err := New(Options{Level: "info", File: path})
	require.NoError(t, err)
	logger.Info("file message", zap.String("k", "v"))
	logger.Sync() //nolint:errcheck

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file message")
	assert.Contains(t, string(data), "INFO")
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestWithRunAddsFields(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	logger := WithRun(zap.New(core), "managers")

	logger.Info("contextual log")

	records := observed.All()
	require.Len(t, records, 1)
	fields := records[0].ContextMap()
	assert.Equal(t, "managers", fields["command"])

	runID, ok := fields["run_id"].(string)
	require.True(t, ok)
	_, err := uuid.Parse(runID)
	assert.NoError(t, err)
}
