package logger

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-task-gateway/internal/core/config"
)

func TestFromConfig_WritesRotatingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "svc.log")
	l, cleanup := FromConfig(config.Log{
		Level: "info",
		JSON:  true,
		File:  config.FileLog{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("hello", zap.String("service", "task_service"))
	l.Debug("hidden")
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
	assert.Contains(t, string(b), `"service":"task_service"`)
	assert.NotContains(t, string(b), "hidden")
}

func TestToWriter(t *testing.T) {
	file := filepath.Join(t.TempDir(), "w.log")
	l, cleanup := FromConfig(config.Log{
		Level: "debug",
		JSON:  true,
		File:  config.FileLog{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	_, err := ToWriter(l, zapcore.WarnLevel).Write([]byte("from std\n"))
	require.NoError(t, err)
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"from std"`)
	assert.Contains(t, string(b), `"level":"warn"`)
}

func TestFromConfig_BadLevelFallsBackToInfo(t *testing.T) {
	file := filepath.Join(t.TempDir(), "lvl.log")
	l, cleanup := FromConfig(config.Log{
		Level: "loud",
		JSON:  true,
		File:  config.FileLog{Enable: true, Filename: file},
	})
	l.Debug("dropped")
	l.Info("kept")
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"kept"`)
	assert.NotContains(t, string(b), "dropped")
}

func TestRedirectStdLog(t *testing.T) {
	file := filepath.Join(t.TempDir(), "std.log")
	l, cleanup := FromConfig(config.Log{Level: "info", JSON: true, File: config.FileLog{Enable: true, Filename: file}})
	undo := RedirectStdLog(l, zapcore.WarnLevel)
	log.Print("legacy line")
	undo()
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"legacy line"`)
	assert.Contains(t, string(b), `"level":"warn"`)
}
