package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func withConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "holiday-planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content+"storage:\n  path: "+filepath.Join(dir, "data.json")+"\n"), 0644))

	prev := configFilePath
	configFilePath = path
	t.Cleanup(func() { configFilePath = prev })
}

func TestBootstrapLogLevels(t *testing.T) {
	withConfig(t, "log:\n  level: info\n")

	env, err := bootstrap(false)
	require.NoError(t, err)
	assert.True(t, env.log.Desugar().Core().Enabled(zapcore.InfoLevel))
	env.Close()

	env, err = bootstrap(true)
	require.NoError(t, err)
	defer env.Close()
	assert.False(t, env.log.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, env.log.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestBootstrapConsoleLevelFromConfig(t *testing.T) {
	withConfig(t, "log:\n  console_level: error\n")

	env, err := bootstrap(true)
	require.NoError(t, err)
	defer env.Close()
	assert.False(t, env.log.Desugar().Core().Enabled(zapcore.WarnLevel))
}
