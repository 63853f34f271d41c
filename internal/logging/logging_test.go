package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "datastore.log")

	logger, closeWriter, err := NewFileLogger(path, "datastore", slog.LevelInfo)
	require.NoError(t, err)

	logger.Info("table migrated", "table", "voters_wa_extract_20260826")
	require.NoError(t, closeWriter())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "table migrated", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "datastore", entry["service"])
	assert.Equal(t, "voters_wa_extract_20260826", entry["table"])
}

func TestNewFileLoggerLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiet.log")

	logger, closeWriter, err := NewFileLogger(path, "pipeline", slog.LevelWarn)
	require.NoError(t, err)

	logger.Info("below threshold")
	logger.Warn("above threshold")
	require.NoError(t, closeWriter())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "above threshold")
	assert.NotContains(t, string(data), "below threshold")
}

func TestEnableFileLogging(t *testing.T) {
	Init()
	path := filepath.Join(t.TempDir(), "voterframe.log")

	closeWriter, err := EnableFileLogging(path)
	require.NoError(t, err)

	ForService("pipeline").Info("import run started", "state_code", "WA")
	require.NoError(t, closeWriter())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "import run started", entry["msg"])
	assert.Equal(t, "pipeline", entry["service"])
	assert.Equal(t, "WA", entry["state_code"])
}
