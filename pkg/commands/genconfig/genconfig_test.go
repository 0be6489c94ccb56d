package genconfig_test

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botctl/botctl/pkg/commands/genconfig"
	"github.com/botctl/botctl/pkg/config"
	"github.com/botctl/botctl/pkg/testutil"
)

func TestGenConfig(t *testing.T) {
	t.Run("no dir emits the commented template", func(t *testing.T) {
		testutil.IsolateDirs(t)

		result, err := genconfig.GenConfig(genconfig.GenConfigOptions{})
		require.NoError(t, err)

		assert.False(t, result.Effective)
		assert.Equal(t, config.GenerateConfigContent(), result.ConfigContent)
		assert.Contains(t, result.ConfigContent, "# venv_dir")
	})

	t.Run("dir resolves the effective configuration", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := testutil.SetupInstance(t)
		testutil.CreateFile(t, dir, "botctl.toml", "venv_dir = \".venv\"\npip_args = [\"--quiet\"]\n")

		result, err := genconfig.GenConfig(genconfig.GenConfigOptions{Dir: dir})
		require.NoError(t, err)
		assert.True(t, result.Effective)

		var cfg config.Config
		require.NoError(t, toml.Unmarshal([]byte(result.ConfigContent), &cfg))
		assert.Equal(t, ".venv", cfg.VenvDir)
		assert.Equal(t, []string{"--quiet"}, cfg.PipArgs)
		assert.Equal(t, "bot.py", cfg.Entrypoint)
	})

	t.Run("environment overrides show up", func(t *testing.T) {
		testutil.IsolateDirs(t)
		t.Setenv("BOTCTL_ENTRYPOINT", "tumcsbot.py")
		dir := testutil.SetupInstance(t)

		result, err := genconfig.GenConfig(genconfig.GenConfigOptions{Dir: dir})
		require.NoError(t, err)

		var cfg config.Config
		require.NoError(t, toml.Unmarshal([]byte(result.ConfigContent), &cfg))
		assert.Equal(t, "tumcsbot.py", cfg.Entrypoint)
	})
}
