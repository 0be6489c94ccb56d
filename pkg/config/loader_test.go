package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Python)
	assert.Equal(t, "venv", cfg.VenvDir)
	assert.Equal(t, "requirements.txt", cfg.Requirements)
	assert.Equal(t, "bot.py", cfg.Entrypoint)
	assert.Equal(t, "zuliprc", cfg.ConfigFile)
	assert.Empty(t, cfg.PipArgs)
	assert.Empty(t, cfg.Env)
}

func TestEmbeddedDefaultsMatchBuiltins(t *testing.T) {
	// The documented defaults file and Default() are merged as separate
	// layers, so a drift between them would be invisible at load time
	var cfg Config
	require.NoError(t, toml.Unmarshal(defaultConfig, &cfg))

	d := Default()
	assert.Equal(t, d.Python, cfg.Python)
	assert.Equal(t, d.VenvDir, cfg.VenvDir)
	assert.Equal(t, d.Requirements, cfg.Requirements)
	assert.Equal(t, d.Entrypoint, cfg.Entrypoint)
	assert.Equal(t, d.ConfigFile, cfg.ConfigFile)
	assert.Empty(t, cfg.PipArgs)
	assert.Empty(t, cfg.Env)
}

func TestLoadInstanceConfig(t *testing.T) {
	t.Run("toml overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "botctl.toml", `
entrypoint = "tumcsbot.py"
venv_dir = ".venv"
pip_args = ["--no-cache-dir"]

[env]
PYTHONUNBUFFERED = "1"
`)

		cfg, err := Load(dir, "")
		require.NoError(t, err)

		assert.Equal(t, "tumcsbot.py", cfg.Entrypoint)
		assert.Equal(t, ".venv", cfg.VenvDir)
		assert.Equal(t, []string{"--no-cache-dir"}, cfg.PipArgs)
		assert.Equal(t, "1", cfg.Env["PYTHONUNBUFFERED"])
		// Untouched keys keep their defaults
		assert.Equal(t, "zuliprc", cfg.ConfigFile)
	})

	t.Run("yaml variant", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "botctl.yaml", "entrypoint: main.py\nconfig_file: botrc\n")

		cfg, err := Load(dir, "")
		require.NoError(t, err)

		assert.Equal(t, "main.py", cfg.Entrypoint)
		assert.Equal(t, "botrc", cfg.ConfigFile)
	})

	t.Run("toml wins over yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "botctl.toml", `entrypoint = "first.py"`)
		writeFile(t, dir, "botctl.yaml", "entrypoint: second.py\n")

		cfg, err := Load(dir, "")
		require.NoError(t, err)

		assert.Equal(t, "first.py", cfg.Entrypoint)
	})

	t.Run("invalid toml is a parse error", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "botctl.toml", "entrypoint = [broken")

		_, err := Load(dir, "")
		assert.Error(t, err)
	})
}

func TestLoadGlobalConfig(t *testing.T) {
	globalDir := t.TempDir()
	globalPath := writeFile(t, globalDir, "botctl.toml", `python = "/opt/python/bin/python3"`)

	instanceDir := t.TempDir()
	writeFile(t, instanceDir, "botctl.toml", `entrypoint = "tumcsbot.py"`)

	cfg, err := Load(instanceDir, globalPath)
	require.NoError(t, err)

	// Global and instance values both land
	assert.Equal(t, "/opt/python/bin/python3", cfg.Python)
	assert.Equal(t, "tumcsbot.py", cfg.Entrypoint)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "botctl.toml", `venv_dir = "file-venv"`)

	t.Setenv("BOTCTL_VENV_DIR", "env-venv")
	t.Setenv("BOTCTL_PIP_ARGS", "--quiet,--no-cache-dir")

	cfg, err := Load(dir, "")
	require.NoError(t, err)

	// Environment beats the instance file
	assert.Equal(t, "env-venv", cfg.VenvDir)
	assert.Equal(t, []string{"--quiet", "--no-cache-dir"}, cfg.PipArgs)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty venv_dir", `venv_dir = ""`},
		{"absolute venv_dir", `venv_dir = "/abs/venv"`},
		{"escaping venv_dir", `venv_dir = "../venv"`},
		{"empty entrypoint", `entrypoint = ""`},
		{"empty requirements", `requirements = ""`},
		{"empty config_file", `config_file = ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "botctl.toml", tt.content)

			_, err := Load(dir, "")
			assert.Error(t, err)
		})
	}
}

func TestFindInstanceConfig(t *testing.T) {
	t.Run("none present", func(t *testing.T) {
		_, ok := FindInstanceConfig(t.TempDir())
		assert.False(t, ok)
	})

	t.Run("dotted toml", func(t *testing.T) {
		dir := t.TempDir()
		expected := writeFile(t, dir, ".botctl.toml", "")

		path, ok := FindInstanceConfig(dir)
		require.True(t, ok)
		assert.Equal(t, expected, path)
	})
}
