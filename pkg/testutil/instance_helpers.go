package testutil

import (
	"path/filepath"
	"testing"
)

// Default fixture file contents
const (
	FixtureEntrypoint   = "import sys\nprint(sys.argv)\n"
	FixtureZuliprc      = "[api]\nemail=bot@example.com\nkey=test-key\nsite=https://example.zulipchat.com\n"
	FixtureRequirements = "zulip==0.8.2\n"
)

// SetupInstance creates a temporary instance directory populated with
// an entry point, a config file, and a requirements file. It returns
// the directory path.
func SetupInstance(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	CreateFile(t, dir, "bot.py", FixtureEntrypoint)
	CreateFile(t, dir, "zuliprc", FixtureZuliprc)
	CreateFile(t, dir, "requirements.txt", FixtureRequirements)
	return dir
}

// SetupVenv creates a directory shaped like a virtualenv inside the
// instance directory: a pyvenv.cfg marker and a bin/python executable
// stub. It returns the venv path.
func SetupVenv(t *testing.T, instanceDir, name string) string {
	t.Helper()

	venvPath := filepath.Join(instanceDir, name)
	CreateFile(t, venvPath, "pyvenv.cfg", "home = /usr/bin\nversion = 3.11.2\n")
	CreateFile(t, filepath.Join(venvPath, "bin"), "python", "#!/bin/sh\n")
	CreateFile(t, filepath.Join(venvPath, "bin"), "pip", "#!/bin/sh\n")
	return venvPath
}
