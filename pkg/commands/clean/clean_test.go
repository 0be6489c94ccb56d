package clean_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botctl/botctl/pkg/commands/clean"
	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/testutil"
)

func TestClean(t *testing.T) {
	t.Run("removes the virtualenv", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := testutil.SetupInstance(t)
		venvPath := testutil.SetupVenv(t, dir, "venv")

		result, err := clean.Clean(clean.CleanOptions{Dir: dir})
		require.NoError(t, err)

		assert.True(t, result.Removed)
		assert.NoDirExists(t, venvPath)
	})

	t.Run("leaves the instance's own files alone", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := testutil.SetupInstance(t)
		testutil.SetupVenv(t, dir, "venv")

		_, err := clean.Clean(clean.CleanOptions{Dir: dir})
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "bot.py"))
		assert.FileExists(t, filepath.Join(dir, "zuliprc"))
		assert.FileExists(t, filepath.Join(dir, "requirements.txt"))
	})

	t.Run("missing venv is a success no-op", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := testutil.SetupInstance(t)

		result, err := clean.Clean(clean.CleanOptions{Dir: dir})
		require.NoError(t, err)
		assert.False(t, result.Removed)
	})

	t.Run("missing instance directory is an error", func(t *testing.T) {
		testutil.IsolateDirs(t)

		_, err := clean.Clean(clean.CleanOptions{Dir: filepath.Join(t.TempDir(), "nope")})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInstanceNotFound))
	})

	t.Run("respects a configured venv_dir", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := testutil.SetupInstance(t)
		altPath := testutil.SetupVenv(t, dir, ".venv")
		defaultPath := testutil.SetupVenv(t, dir, "venv")
		testutil.CreateFile(t, dir, "botctl.toml", "venv_dir = \".venv\"\n")

		result, err := clean.Clean(clean.CleanOptions{Dir: dir})
		require.NoError(t, err)

		assert.True(t, result.Removed)
		assert.NoDirExists(t, altPath)
		assert.DirExists(t, defaultPath)
	})
}
