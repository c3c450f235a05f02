package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, Config{Level: slog.LevelInfo, Format: "json"}))

	log.Debug("hidden")
	log.Info("Record failed", "jobID", "J1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Record failed", entry["msg"])
	assert.Equal(t, "J1", entry["jobID"])
}

func TestNewHandler_Text(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, Config{Level: slog.LevelDebug, Format: "text"}))

	log.Debug("Record synced", "jobID", "J1")

	assert.Contains(t, buf.String(), "msg=\"Record synced\"")
	assert.Contains(t, buf.String(), "jobID=J1")
}

func TestNew_WritesToFile(t *testing.T) {
	// Setup
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "importer.log")
	cfg := DefaultConfig()
	cfg.File = path

	// Execute
	log := New(cfg)
	log.Info("Sync started", "runID", "r1")

	// Assert
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"runID":"r1"`)
	assert.Same(t, log, slog.Default())
}
