package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/danmaku/parameter"
)

func TestSetupLoggingDisabledByDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, closeLog, err := setupLogging(false, dir)
	require.NoError(t, err)
	defer closeLog()

	assert.False(t, logger.Core().Enabled(-1), "nop logger")
	assert.Equal(t, io.Discard, log.Writer())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "no log directory without debug")
}

func TestSetupLoggingWritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, closeLog, err := setupLogging(true, dir)
	require.NoError(t, err)

	logger.Info("test log message")
	log.Println("standard logger message")
	closeLog()

	data, err := os.ReadFile(filepath.Join(dir, parameter.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "test log message")
	assert.Contains(t, string(data), "standard logger message")
	assert.NotEqual(t, os.Stdout, log.Writer())
	assert.NotEqual(t, os.Stderr, log.Writer())
}

func TestSetupLoggingRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, parameter.LogFileName)
	require.NoError(t, os.WriteFile(path, make([]byte, parameter.MaxLogSize+1), 0o644))

	_, closeLog, err := setupLogging(true, dir)
	require.NoError(t, err)
	defer closeLog()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	rotated := 0
	for _, e := range entries {
		if e.Name() != parameter.LogFileName && filepath.Ext(e.Name()) == ".log" {
			rotated++
		}
	}
	assert.Equal(t, 1, rotated)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(parameter.MaxLogSize))
}
