// Package python resolves Python interpreters and virtualenv layouts.
package python

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"

	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/execx"
	"github.com/botctl/botctl/pkg/paths"
)

// DefaultInterpreters are the candidates tried, in order, when no
// interpreter is configured
var DefaultInterpreters = []string{"python3", "python"}

// VenvConfigFile is the marker file every virtualenv carries
const VenvConfigFile = "pyvenv.cfg"

// Resolve returns the Python interpreter used to create virtualenvs.
// An explicit non-empty configured value wins; otherwise the first of
// python3/python found on PATH.
func Resolve(configured string, runner execx.Runner) (string, error) {
	if configured != "" {
		expanded := paths.ExpandHome(configured)

		// Paths with a separator are used as-is; bare names resolve
		// via PATH
		if strings.ContainsRune(expanded, '/') || strings.ContainsRune(expanded, filepath.Separator) {
			return expanded, nil
		}

		path, err := runner.LookPath(expanded)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrPythonNotFound, "configured interpreter %q not found on PATH", configured)
		}
		return path, nil
	}

	for _, name := range DefaultInterpreters {
		if path, err := runner.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", errors.Newf(errors.ErrPythonNotFound, "no python interpreter found on PATH (tried %s)", strings.Join(DefaultInterpreters, ", "))
}

// BinDir returns the executables directory inside a virtualenv
func BinDir(venvPath string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvPath, "Scripts")
	}
	return filepath.Join(venvPath, "bin")
}

// VenvPython returns the interpreter path inside a virtualenv
func VenvPython(venvPath string) string {
	name := "python"
	if runtime.GOOS == "windows" {
		name = "python.exe"
	}
	return filepath.Join(BinDir(venvPath), name)
}

// VenvPip returns the pip path inside a virtualenv
func VenvPip(venvPath string) string {
	name := "pip"
	if runtime.GOOS == "windows" {
		name = "pip.exe"
	}
	return filepath.Join(BinDir(venvPath), name)
}

// IsVenv reports whether dir is shaped like a virtualenv. The
// pyvenv.cfg marker is what the venv module itself writes.
func IsVenv(fs afero.Fs, dir string) bool {
	if ok, err := afero.DirExists(fs, dir); err != nil || !ok {
		return false
	}
	ok, err := afero.Exists(fs, filepath.Join(dir, VenvConfigFile))
	return err == nil && ok
}

// VenvVersion reads the Python version recorded in a virtualenv's
// pyvenv.cfg, or empty when it cannot be determined
func VenvVersion(fs afero.Fs, venvPath string) string {
	data, err := afero.ReadFile(fs, filepath.Join(venvPath, VenvConfigFile))
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(string(data), "\n") {
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		// venv writes "version", virtualenv writes "version_info"
		key := strings.TrimSpace(name)
		if key == "version" || key == "version_info" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// ActivatedEnviron returns base rewritten the way bin/activate would:
// VIRTUAL_ENV points at the venv, its bin dir goes first on PATH, and
// PYTHONHOME is dropped.
func ActivatedEnviron(base []string, venvPath string) []string {
	binDir := BinDir(venvPath)

	env := make([]string, 0, len(base)+2)
	pathSeen := false
	for _, entry := range base {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			env = append(env, entry)
			continue
		}
		switch name {
		case "PYTHONHOME", "VIRTUAL_ENV":
			continue
		case "PATH":
			env = append(env, "PATH="+binDir+string(filepath.ListSeparator)+value)
			pathSeen = true
		default:
			env = append(env, entry)
		}
	}
	if !pathSeen {
		env = append(env, "PATH="+binDir)
	}

	return append(env, "VIRTUAL_ENV="+venvPath)
}
