// Package instance models a bot instance: a destination directory
// holding the bot's entry point, its configuration file, its pinned
// requirements, and the managed virtualenv.
package instance

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/botctl/botctl/pkg/config"
	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/paths"
	"github.com/botctl/botctl/pkg/python"
)

// Instance is a resolved bot instance
type Instance struct {
	// Name is the instance name (the directory base name)
	Name string `json:"name"`

	// Dir is the absolute path to the instance directory
	Dir string `json:"dir"`

	// Config is the effective configuration for this instance
	Config *config.Config `json:"config"`
}

// New resolves dir into an Instance. The directory does not have to
// exist yet; operations decide for themselves whether absence is an
// error. The instance's configuration cascade is loaded as part of
// resolution.
func New(dir, globalConfigPath string) (*Instance, error) {
	if err := paths.ValidatePath(dir); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(paths.ExpandHome(dir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve instance directory %s", dir)
	}

	cfg, err := config.Load(abs, globalConfigPath)
	if err != nil {
		return nil, err
	}

	return &Instance{
		Name:   filepath.Base(abs),
		Dir:    abs,
		Config: cfg,
	}, nil
}

// VenvPath returns the managed virtualenv directory
func (i *Instance) VenvPath() string {
	return filepath.Join(i.Dir, i.Config.VenvDir)
}

// EntrypointPath returns the bot entry point script
func (i *Instance) EntrypointPath() string {
	return filepath.Join(i.Dir, i.Config.Entrypoint)
}

// ConfigFilePath returns the bot configuration file
func (i *Instance) ConfigFilePath() string {
	return filepath.Join(i.Dir, i.Config.ConfigFile)
}

// RequirementsPath returns the pinned requirements file
func (i *Instance) RequirementsPath() string {
	return filepath.Join(i.Dir, i.Config.Requirements)
}

// Exists reports whether the instance directory exists
func (i *Instance) Exists(fs afero.Fs) (bool, error) {
	info, err := fs.Stat(i.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", i.Dir)
	}
	if !info.IsDir() {
		return false, errors.Newf(errors.ErrInstanceInvalid, "%s is not a directory", i.Dir)
	}
	return true, nil
}

// EnsureDir creates the instance directory if it is missing
func (i *Instance) EnsureDir(fs afero.Fs) error {
	exists, err := i.Exists(fs)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := fs.MkdirAll(i.Dir, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create instance directory %s", i.Dir)
	}
	return nil
}

// HasVenv reports whether the managed virtualenv exists
func (i *Instance) HasVenv(fs afero.Fs) bool {
	return python.IsVenv(fs, i.VenvPath())
}

// Validate checks that the instance directory holds everything run
// needs: the entry point and the bot configuration file. The venv is
// checked separately so callers can give it a dedicated message.
func (i *Instance) Validate(fs afero.Fs) error {
	exists, err := i.Exists(fs)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Newf(errors.ErrInstanceNotFound, "instance directory does not exist: %s", i.Dir)
	}

	if ok, err := afero.Exists(fs, i.EntrypointPath()); err != nil || !ok {
		return errors.Newf(errors.ErrInstanceInvalid, "entry point not found: %s", i.EntrypointPath()).
			WithDetail("instance", i.Dir)
	}

	if ok, err := afero.Exists(fs, i.ConfigFilePath()); err != nil || !ok {
		return errors.Newf(errors.ErrInstanceInvalid, "bot config file not found: %s", i.ConfigFilePath()).
			WithDetail("instance", i.Dir)
	}

	return nil
}
