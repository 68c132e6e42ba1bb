package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	logger, err := New("debug", "console")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = New("warn", "json")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))

	_, err = New("chatty", "console")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}

func TestNewWithOutput_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.log")
	logger, err := NewWithOutput("info", "console", path)
	require.NoError(t, err)

	logger.Info("combat over", zap.Int("rounds", 4))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.True(t, strings.Contains(line, "info"), line)
	assert.True(t, strings.Contains(line, "combat over"), line)
	assert.True(t, strings.Contains(line, `"rounds": 4`), line)
}
