// Package virtualenv implements the virtualenv command: create the
// instance's virtualenv and install its requirements into it.
package virtualenv

import (
	"context"
	"io"

	"github.com/spf13/afero"

	"github.com/botctl/botctl/pkg/execx"
	"github.com/botctl/botctl/pkg/instance"
	"github.com/botctl/botctl/pkg/logging"
	"github.com/botctl/botctl/pkg/paths"
	"github.com/botctl/botctl/pkg/registry"
	"github.com/botctl/botctl/pkg/venv"
)

// ProvisionOptions defines the options for the Provision command
type ProvisionOptions struct {
	// Dir is the instance directory
	Dir string

	// Force rebuilds the virtualenv even when it is up to date
	Force bool

	// FileSystem is the filesystem to use (optional, defaults to the
	// OS filesystem)
	FileSystem afero.Fs

	// Runner is the process runner to use (optional, defaults to the
	// OS runner)
	Runner execx.Runner

	// Output and ErrOutput receive the python and pip output (optional,
	// default to the process streams)
	Output    io.Writer
	ErrOutput io.Writer
}

// ProvisionResult describes what Provision did
type ProvisionResult struct {
	Instance *instance.Instance   `json:"instance"`
	Status   venv.ProvisionStatus `json:"status"`
}

// Provision creates or refreshes the instance's virtualenv. A missing
// instance directory is created first; an up-to-date virtualenv makes
// the command a no-op.
func Provision(ctx context.Context, opts ProvisionOptions) (*ProvisionResult, error) {
	logger := logging.GetLogger("commands.virtualenv")
	logger.Info().
		Str("dir", opts.Dir).
		Bool("force", opts.Force).
		Msg("Provisioning virtualenv")

	fs := opts.FileSystem
	if fs == nil {
		fs = afero.NewOsFs()
	}
	runner := opts.Runner
	if runner == nil {
		runner = execx.NewOSRunner()
	}

	p, err := paths.New()
	if err != nil {
		return nil, err
	}

	inst, err := instance.New(opts.Dir, p.GlobalConfigPath())
	if err != nil {
		return nil, err
	}

	if err := inst.EnsureDir(fs); err != nil {
		return nil, err
	}

	mgr := venv.NewManager(fs, runner)
	if opts.Output != nil {
		mgr.Stdout = opts.Output
	}
	if opts.ErrOutput != nil {
		mgr.Stderr = opts.ErrOutput
	}
	status, err := mgr.Provision(ctx, inst, opts.Force)
	if err != nil {
		return nil, err
	}

	recordProvision(p, inst, mgr)

	logger.Info().
		Str("instance", inst.Name).
		Str("status", string(status)).
		Msg("Virtualenv provisioned")

	return &ProvisionResult{
		Instance: inst,
		Status:   status,
	}, nil
}

// recordProvision updates the instance registry. Registry writes are
// bookkeeping only and never fail the command.
func recordProvision(p paths.Paths, inst *instance.Instance, mgr *venv.Manager) {
	logger := logging.GetLogger("commands.virtualenv")

	reg, err := registry.Open(p.RegistryPath())
	if err != nil {
		logger.Warn().Err(err).Msg("Registry unavailable")
		return
	}
	defer func() {
		_ = reg.Close()
	}()

	if err := reg.RecordProvision(inst, mgr.RecordedChecksum(inst)); err != nil {
		logger.Warn().Err(err).Msg("Failed to record provision")
	}
}
