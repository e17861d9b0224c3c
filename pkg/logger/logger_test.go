package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileMode(t *testing.T) {
	var m FileMode
	require.NoError(t, m.Set("rotate"))
	assert.Equal(t, FileModeRotate, m)
	require.NoError(t, m.Set(""))
	assert.Equal(t, FileModeAppend, m)
	assert.Error(t, m.Set("bogus"))
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smry.log")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))
	logger, err := New(Config{Level: zap.InfoLevel, Mode: FileModeTruncate, Path: path})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("case loaded", zap.String("path", "a.SMSPEC"))
	require.NoError(t, logger.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "old")
	assert.NotContains(t, string(b), "hidden")
	assert.Contains(t, string(b), `"msg":"case loaded"`)
	assert.Contains(t, string(b), `"path":"a.SMSPEC"`)
}

func TestRotateMissingDir(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing", "x.log"), FileModeRotate)
	assert.Error(t, err)
}
