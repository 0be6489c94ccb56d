// Package clean implements the clean command: delete the instance's
// virtualenv and nothing else.
package clean

import (
	"github.com/spf13/afero"

	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/execx"
	"github.com/botctl/botctl/pkg/instance"
	"github.com/botctl/botctl/pkg/logging"
	"github.com/botctl/botctl/pkg/paths"
	"github.com/botctl/botctl/pkg/registry"
	"github.com/botctl/botctl/pkg/venv"
)

// CleanOptions defines the options for the Clean command
type CleanOptions struct {
	// Dir is the instance directory
	Dir string

	// FileSystem is the filesystem to use (optional, defaults to the
	// OS filesystem)
	FileSystem afero.Fs
}

// CleanResult describes what Clean did
type CleanResult struct {
	Instance *instance.Instance `json:"instance"`

	// Removed is false when there was no virtualenv to remove
	Removed bool `json:"removed"`
}

// Clean removes the instance's virtualenv. A missing virtualenv is a
// success no-op; a missing instance directory is an error. The
// instance's own files are never touched.
func Clean(opts CleanOptions) (*CleanResult, error) {
	logger := logging.GetLogger("commands.clean")
	logger.Info().Str("dir", opts.Dir).Msg("Cleaning virtualenv")

	fs := opts.FileSystem
	if fs == nil {
		fs = afero.NewOsFs()
	}

	p, err := paths.New()
	if err != nil {
		return nil, err
	}

	inst, err := instance.New(opts.Dir, p.GlobalConfigPath())
	if err != nil {
		return nil, err
	}

	exists, err := inst.Exists(fs)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.Newf(errors.ErrInstanceNotFound, "instance directory does not exist: %s", inst.Dir)
	}

	mgr := venv.NewManager(fs, execx.NewOSRunner())
	removed := mgr.Exists(inst)

	if err := mgr.Remove(inst); err != nil {
		return nil, err
	}

	recordClean(p, inst)

	logger.Info().
		Str("instance", inst.Name).
		Bool("removed", removed).
		Msg("Virtualenv cleaned")

	return &CleanResult{
		Instance: inst,
		Removed:  removed,
	}, nil
}

// recordClean updates the instance registry. Registry writes are
// bookkeeping only and never fail the command.
func recordClean(p paths.Paths, inst *instance.Instance) {
	logger := logging.GetLogger("commands.clean")

	reg, err := registry.Open(p.RegistryPath())
	if err != nil {
		logger.Warn().Err(err).Msg("Registry unavailable")
		return
	}
	defer func() {
		_ = reg.Close()
	}()

	if err := reg.RecordClean(inst); err != nil {
		logger.Warn().Err(err).Msg("Failed to record clean")
	}
}
