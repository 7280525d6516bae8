package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewZapLogger_ValidConfig_CreatesLoggerSuccessfully(t *testing.T) {
	tests := []struct {
		name          string
		isDevelopment bool
		expectedLevel zapcore.Level
	}{
		{name: "development mode", isDevelopment: true, expectedLevel: zapcore.DebugLevel},
		{name: "production mode", isDevelopment: false, expectedLevel: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewZapLogger(LoggerConfig{
				LogDir:        t.TempDir(),
				ProcessName:   TestProcess,
				IsDevelopment: tt.isDevelopment,
			})
			require.NoError(t, err)
			require.NotNil(t, logger.sugarLogger)
			defer func() { _ = logger.Close() }()

			assert.True(t, logger.logger.Core().Enabled(tt.expectedLevel))
			if !tt.isDevelopment {
				assert.False(t, logger.logger.Core().Enabled(zapcore.DebugLevel))
			}
		})
	}
}

func TestNewZapLogger_EmptyProcessName_ReturnsError(t *testing.T) {
	logger, err := NewZapLogger(LoggerConfig{LogDir: t.TempDir()})

	assert.Error(t, err)
	assert.Nil(t, logger)
}

func TestNewZapLogger_WritesToProcessLogDirectory(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewZapLogger(LoggerConfig{
		LogDir:      dir,
		ProcessName: PerformerProcess,
	})
	require.NoError(t, err)

	logger.Info("task submitted", "taskDefinitionId", 0)
	logger.With("component", "test").Warn("with fields")
	require.NoError(t, logger.Close())

	files, err := filepath.Glob(filepath.Join(dir, LogsDir, string(PerformerProcess), "*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	content, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "task submitted")
	assert.Contains(t, string(content), `"taskDefinitionId":0`)
	assert.Contains(t, string(content), `"component":"test"`)
}

func TestGetLogLevel_ReturnsCorrectLevels(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, getLogLevel(true))
	assert.Equal(t, zapcore.InfoLevel, getLogLevel(false))
}
