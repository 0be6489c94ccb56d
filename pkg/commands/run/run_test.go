package run_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botctl/botctl/pkg/commands/run"
	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/execx"
	"github.com/botctl/botctl/pkg/paths"
	"github.com/botctl/botctl/pkg/registry"
	"github.com/botctl/botctl/pkg/testutil"
)

func TestRun(t *testing.T) {
	t.Run("hands off with forwarded args and config file last", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := testutil.SetupInstance(t)
		testutil.SetupVenv(t, dir, "venv")
		runner := testutil.NewFakeRunner()

		err := run.Run(context.Background(), run.RunOptions{
			Dir:    dir,
			Args:   []string{"--debug"},
			Runner: runner,
		})
		require.NoError(t, err)

		calls := runner.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, filepath.Join(dir, "venv", "bin", "python"), calls[0].Name)
		assert.Equal(t, []string{
			filepath.Join(dir, "bot.py"),
			"--debug",
			filepath.Join(dir, "zuliprc"),
		}, calls[0].Args)
	})

	t.Run("missing venv fails before any process spawns", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := testutil.SetupInstance(t)
		runner := testutil.NewFakeRunner()

		err := run.Run(context.Background(), run.RunOptions{Dir: dir, Runner: runner})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrEnvMissing))
		assert.Empty(t, runner.Calls())
	})

	t.Run("propagates the bot exit code", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := testutil.SetupInstance(t)
		testutil.SetupVenv(t, dir, "venv")
		runner := testutil.NewFakeRunner()
		runner.StubCommand(filepath.Join(dir, "venv", "bin", "python"), &execx.Result{ExitCode: 7}, nil)

		err := run.Run(context.Background(), run.RunOptions{Dir: dir, Runner: runner})
		require.Error(t, err)
		assert.Equal(t, execx.ExitCode(7), execx.ExitCodeFromError(err))
	})

	t.Run("records the run in the registry", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := testutil.SetupInstance(t)
		testutil.SetupVenv(t, dir, "venv")

		err := run.Run(context.Background(), run.RunOptions{
			Dir:    dir,
			Runner: testutil.NewFakeRunner(),
		})
		require.NoError(t, err)

		p, err := paths.New()
		require.NoError(t, err)
		reg, err := registry.Open(p.RegistryPath())
		require.NoError(t, err)
		defer func() { _ = reg.Close() }()

		abs, err := filepath.Abs(dir)
		require.NoError(t, err)
		entry, err := reg.Get(abs)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.NotNil(t, entry.LastRunAt)
	})

	t.Run("a run that never started stays out of the registry", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := filepath.Join(t.TempDir(), "nope")

		err := run.Run(context.Background(), run.RunOptions{
			Dir:    dir,
			Runner: testutil.NewFakeRunner(),
		})
		require.Error(t, err)

		p, err := paths.New()
		require.NoError(t, err)
		reg, err := registry.Open(p.RegistryPath())
		require.NoError(t, err)
		defer func() { _ = reg.Close() }()

		abs, err := filepath.Abs(dir)
		require.NoError(t, err)
		entry, err := reg.Get(abs)
		require.NoError(t, err)
		assert.Nil(t, entry)
	})
}
