package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InAnYan/loop/internal/config"
)

func TestLoadDefaultsWithNoYamlOrEnv(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{""}, cfg.SearchPaths())
}

func TestLoadReadsYamlFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("packages_path: /opt/loop/pkgs\nverbose: true\n"), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "/opt/loop/pkgs"}, cfg.SearchPaths())
	assert.True(t, cfg.Verbose)
}

func TestEnvVarOverridesYaml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("packages_path: /from/yaml\n"), 0o644))

	t.Setenv("LOOP_PACKAGES_PATH", "/from/env")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "/from/env"}, cfg.SearchPaths())
}
