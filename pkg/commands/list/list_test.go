package list_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botctl/botctl/pkg/commands/list"
	"github.com/botctl/botctl/pkg/instance"
	"github.com/botctl/botctl/pkg/paths"
	"github.com/botctl/botctl/pkg/registry"
	"github.com/botctl/botctl/pkg/testutil"
)

func registerInstance(t *testing.T, dir string) {
	t.Helper()

	p, err := paths.New()
	require.NoError(t, err)
	reg, err := registry.Open(p.RegistryPath())
	require.NoError(t, err)
	defer func() { _ = reg.Close() }()

	inst, err := instance.New(dir, "")
	require.NoError(t, err)
	require.NoError(t, reg.RecordProvision(inst, "sha256:abc"))
}

func TestList(t *testing.T) {
	t.Run("empty registry lists nothing", func(t *testing.T) {
		testutil.IsolateDirs(t)

		result, err := list.List(list.ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, result.Instances)
	})

	t.Run("lists registered instances with venv state", func(t *testing.T) {
		testutil.IsolateDirs(t)

		withVenv := testutil.SetupInstance(t)
		testutil.SetupVenv(t, withVenv, "venv")
		registerInstance(t, withVenv)

		withoutVenv := testutil.SetupInstance(t)
		registerInstance(t, withoutVenv)

		result, err := list.List(list.ListOptions{})
		require.NoError(t, err)
		require.Len(t, result.Instances, 2)

		byDir := make(map[string]bool, 2)
		for _, entry := range result.Instances {
			byDir[entry.Dir] = entry.VenvPresent
			assert.NotNil(t, entry.ProvisionedAt)
		}
		assert.True(t, byDir[withVenv])
		assert.False(t, byDir[withoutVenv])
	})

	t.Run("cleaned instances stay listed", func(t *testing.T) {
		testutil.IsolateDirs(t)

		dir := testutil.SetupInstance(t)
		venvPath := testutil.SetupVenv(t, dir, "venv")
		registerInstance(t, dir)

		p, err := paths.New()
		require.NoError(t, err)
		reg, err := registry.Open(p.RegistryPath())
		require.NoError(t, err)
		inst, err := instance.New(dir, "")
		require.NoError(t, err)
		require.NoError(t, reg.RecordClean(inst))
		require.NoError(t, reg.Close())
		require.NoError(t, os.RemoveAll(venvPath))

		result, err := list.List(list.ListOptions{})
		require.NoError(t, err)
		require.Len(t, result.Instances, 1)
		assert.False(t, result.Instances[0].VenvPresent)
		assert.NotNil(t, result.Instances[0].CleanedAt)
	})
}
