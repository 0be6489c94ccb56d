package virtualenv_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botctl/botctl/pkg/commands/virtualenv"
	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/execx"
	"github.com/botctl/botctl/pkg/paths"
	"github.com/botctl/botctl/pkg/registry"
	"github.com/botctl/botctl/pkg/testutil"
	"github.com/botctl/botctl/pkg/venv"
)

// fakeVenvRunner returns a FakeRunner whose python -m venv calls
// leave a virtualenv skeleton on disk
func fakeVenvRunner(t *testing.T) *testutil.FakeRunner {
	t.Helper()

	runner := testutil.NewFakeRunner()
	runner.OnRun = func(spec execx.Spec) {
		if len(spec.Args) == 3 && spec.Args[0] == "-m" && spec.Args[1] == "venv" {
			venvPath := spec.Args[2]
			testutil.CreateFile(t, venvPath, "pyvenv.cfg", "home = /usr/bin\nversion = 3.11.2\n")
			testutil.CreateFile(t, filepath.Join(venvPath, "bin"), "python", "#!/bin/sh\n")
			testutil.CreateFile(t, filepath.Join(venvPath, "bin"), "pip", "#!/bin/sh\n")
		}
	}
	return runner
}

func TestProvision(t *testing.T) {
	t.Run("provisions a fresh instance", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := testutil.SetupInstance(t)
		runner := fakeVenvRunner(t)

		result, err := virtualenv.Provision(context.Background(), virtualenv.ProvisionOptions{
			Dir:    dir,
			Runner: runner,
		})
		require.NoError(t, err)

		assert.Equal(t, venv.StatusCreated, result.Status)
		assert.DirExists(t, result.Instance.VenvPath())

		lines := runner.CallLines()
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "-m venv")
		assert.Contains(t, lines[1], "pip install -r")
	})

	t.Run("creates a missing instance directory", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := filepath.Join(t.TempDir(), "newbot")
		testutil.CreateFile(t, dir, "requirements.txt", "zulip==0.8.2\n")

		result, err := virtualenv.Provision(context.Background(), virtualenv.ProvisionOptions{
			Dir:    dir,
			Runner: fakeVenvRunner(t),
		})
		require.NoError(t, err)
		assert.DirExists(t, result.Instance.Dir)
	})

	t.Run("second provision is a no-op", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := testutil.SetupInstance(t)
		runner := fakeVenvRunner(t)

		_, err := virtualenv.Provision(context.Background(), virtualenv.ProvisionOptions{Dir: dir, Runner: runner})
		require.NoError(t, err)

		result, err := virtualenv.Provision(context.Background(), virtualenv.ProvisionOptions{Dir: dir, Runner: runner})
		require.NoError(t, err)

		assert.Equal(t, venv.StatusUpToDate, result.Status)
		assert.Len(t, runner.Calls(), 2)
	})

	t.Run("force rebuilds", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := testutil.SetupInstance(t)
		runner := fakeVenvRunner(t)

		_, err := virtualenv.Provision(context.Background(), virtualenv.ProvisionOptions{Dir: dir, Runner: runner})
		require.NoError(t, err)

		result, err := virtualenv.Provision(context.Background(), virtualenv.ProvisionOptions{
			Dir:    dir,
			Force:  true,
			Runner: runner,
		})
		require.NoError(t, err)
		assert.Equal(t, venv.StatusRecreated, result.Status)
	})

	t.Run("missing requirements file fails", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := t.TempDir()

		_, err := virtualenv.Provision(context.Background(), virtualenv.ProvisionOptions{
			Dir:    dir,
			Runner: fakeVenvRunner(t),
		})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
	})

	t.Run("records the instance in the registry", func(t *testing.T) {
		testutil.IsolateDirs(t)
		dir := testutil.SetupInstance(t)

		result, err := virtualenv.Provision(context.Background(), virtualenv.ProvisionOptions{
			Dir:    dir,
			Runner: fakeVenvRunner(t),
		})
		require.NoError(t, err)

		p, err := paths.New()
		require.NoError(t, err)
		reg, err := registry.Open(p.RegistryPath())
		require.NoError(t, err)
		defer func() { _ = reg.Close() }()

		entry, err := reg.Get(result.Instance.Dir)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.NotNil(t, entry.ProvisionedAt)
		assert.Contains(t, entry.RequirementsChecksum, "sha256:")
	})
}
