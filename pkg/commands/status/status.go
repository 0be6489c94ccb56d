// Package status implements the status command: report everything
// run and virtualenv would care about for one instance.
package status

import (
	"github.com/spf13/afero"

	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/execx"
	"github.com/botctl/botctl/pkg/instance"
	"github.com/botctl/botctl/pkg/logging"
	"github.com/botctl/botctl/pkg/paths"
	"github.com/botctl/botctl/pkg/python"
	"github.com/botctl/botctl/pkg/registry"
	"github.com/botctl/botctl/pkg/venv"
)

// StatusOptions defines the options for the Status command
type StatusOptions struct {
	// Dir is the instance directory
	Dir string

	// FileSystem is the filesystem to use (optional, defaults to the
	// OS filesystem)
	FileSystem afero.Fs
}

// StatusResult is the full report for one instance
type StatusResult struct {
	Instance *instance.Instance `json:"instance"`

	// Virtualenv state
	VenvPresent   bool   `json:"venvPresent"`
	PythonVersion string `json:"pythonVersion,omitempty"`

	// Instance files
	EntrypointPresent   bool `json:"entrypointPresent"`
	ConfigFilePresent   bool `json:"configFilePresent"`
	RequirementsPresent bool `json:"requirementsPresent"`

	// Requirements freshness: the checksum of the requirements file
	// now versus the one the virtualenv was provisioned from
	RequirementsChecksum string `json:"requirementsChecksum,omitempty"`
	RecordedChecksum     string `json:"recordedChecksum,omitempty"`
	RequirementsFresh    bool   `json:"requirementsFresh"`

	// Registry is the instance's registry entry, nil when the
	// registry has never seen it or is unavailable
	Registry *registry.Entry `json:"registry,omitempty"`
}

// Status inspects the instance directory and reports its state. The
// registry contributes last provision and run times when reachable;
// everything else comes straight from the filesystem.
func Status(opts StatusOptions) (*StatusResult, error) {
	logger := logging.GetLogger("commands.status")
	logger.Debug().Str("dir", opts.Dir).Msg("Collecting status")

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

	result := &StatusResult{
		Instance:            inst,
		VenvPresent:         inst.HasVenv(fs),
		EntrypointPresent:   fileExists(fs, inst.EntrypointPath()),
		ConfigFilePresent:   fileExists(fs, inst.ConfigFilePath()),
		RequirementsPresent: fileExists(fs, inst.RequirementsPath()),
	}

	if result.VenvPresent {
		result.PythonVersion = python.VenvVersion(fs, inst.VenvPath())
		result.RecordedChecksum = venv.NewManager(fs, execx.NewOSRunner()).RecordedChecksum(inst)
	}

	if result.RequirementsPresent {
		checksum, err := venv.ChecksumFile(fs, inst.RequirementsPath())
		if err != nil {
			return nil, err
		}
		result.RequirementsChecksum = checksum
	}

	result.RequirementsFresh = result.RecordedChecksum != "" &&
		result.RecordedChecksum == result.RequirementsChecksum

	if reg, err := registry.Open(p.RegistryPath()); err != nil {
		logger.Warn().Err(err).Msg("Registry unavailable")
	} else {
		defer func() {
			_ = reg.Close()
		}()
		entry, err := reg.Get(inst.Dir)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to read registry entry")
		} else {
			result.Registry = entry
		}
	}

	return result, nil
}

func fileExists(fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	return err == nil && ok
}
