// Package venv creates, provisions and removes the virtualenvs that
// back bot instances. Provisioning is idempotent: a sentinel inside
// the virtualenv records the checksum of the requirements file it was
// installed from, and matching checksums make repeat runs a no-op.
package venv

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/execx"
	"github.com/botctl/botctl/pkg/instance"
	"github.com/botctl/botctl/pkg/logging"
	"github.com/botctl/botctl/pkg/python"
)

// SentinelFile records the requirements checksum a virtualenv was
// provisioned from. It lives inside the virtualenv so clean removes
// it together with everything else.
const SentinelFile = ".botctl-requirements.sum"

// ProvisionStatus describes what Provision did with the virtualenv
type ProvisionStatus string

const (
	// StatusCreated means a fresh virtualenv was created and
	// requirements were installed into it
	StatusCreated ProvisionStatus = "created"

	// StatusRecreated means an existing virtualenv was torn down and
	// rebuilt, because requirements changed or --force was given
	StatusRecreated ProvisionStatus = "recreated"

	// StatusReinstalled means requirements were installed into an
	// existing virtualenv that had no provisioning record
	StatusReinstalled ProvisionStatus = "reinstalled"

	// StatusUpToDate means the virtualenv already matches the
	// requirements file and nothing was done
	StatusUpToDate ProvisionStatus = "up-to-date"
)

// Manager performs virtualenv operations for bot instances
type Manager struct {
	fs     afero.Fs
	runner execx.Runner
	logger zerolog.Logger

	// Stdout and Stderr receive the output of the python and pip
	// child processes
	Stdout io.Writer
	Stderr io.Writer
}

// NewManager creates a Manager that streams child process output to
// the botctl process's own stdout and stderr
func NewManager(fs afero.Fs, runner execx.Runner) *Manager {
	return &Manager{
		fs:     fs,
		runner: runner,
		logger: logging.GetLogger("venv"),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Exists reports whether the instance has a virtualenv
func (m *Manager) Exists(inst *instance.Instance) bool {
	return python.IsVenv(m.fs, inst.VenvPath())
}

// Create builds the virtualenv with python -m venv
func (m *Manager) Create(ctx context.Context, inst *instance.Instance) error {
	interp, err := python.Resolve(inst.Config.Python, m.runner)
	if err != nil {
		return err
	}

	venvPath := inst.VenvPath()
	m.logger.Info().
		Str("instance", inst.Name).
		Str("python", interp).
		Str("venv", venvPath).
		Msg("Creating virtualenv")

	result, err := m.runner.Run(ctx, execx.Spec{
		Name:   interp,
		Args:   []string{"-m", "venv", venvPath},
		Stdout: m.Stdout,
		Stderr: m.Stderr,
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrEnvCreate, "failed to run %s -m venv", interp)
	}
	if !result.Success() {
		return errors.Newf(errors.ErrEnvCreate, "%s -m venv %s exited with code %d", interp, venvPath, result.ExitCode)
	}

	return nil
}

// Install installs the instance's requirements into its virtualenv
// with the venv's own pip. Extra pip_args from the configuration are
// appended to the install command.
func (m *Manager) Install(ctx context.Context, inst *instance.Instance) error {
	req := inst.RequirementsPath()
	ok, err := afero.Exists(m.fs, req)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to check requirements file %s", req)
	}
	if !ok {
		return errors.Newf(errors.ErrFileAccess, "requirements file not found: %s", req)
	}

	pip := python.VenvPip(inst.VenvPath())
	args := append([]string{"install", "-r", req}, inst.Config.PipArgs...)

	m.logger.Info().
		Str("instance", inst.Name).
		Str("requirements", req).
		Msg("Installing requirements")

	result, err := m.runner.Run(ctx, execx.Spec{
		Name:   pip,
		Args:   args,
		Dir:    inst.Dir,
		Stdout: m.Stdout,
		Stderr: m.Stderr,
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrInstall, "failed to run pip install for %s", inst.Name)
	}
	if !result.Success() {
		return errors.Newf(errors.ErrInstall, "pip install -r %s exited with code %d", req, result.ExitCode)
	}

	return nil
}

// Remove deletes the instance's virtualenv. A missing virtualenv is
// a success no-op.
func (m *Manager) Remove(inst *instance.Instance) error {
	venvPath := inst.VenvPath()

	exists, err := afero.DirExists(m.fs, venvPath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to check virtualenv %s", venvPath)
	}
	if !exists {
		m.logger.Debug().
			Str("instance", inst.Name).
			Str("venv", venvPath).
			Msg("No virtualenv to remove")
		return nil
	}

	m.logger.Info().
		Str("instance", inst.Name).
		Str("venv", venvPath).
		Msg("Removing virtualenv")

	if err := m.fs.RemoveAll(venvPath); err != nil {
		return errors.Wrapf(err, errors.ErrEnvRemove, "failed to remove virtualenv %s", venvPath)
	}

	return nil
}

// Provision brings the instance's virtualenv in line with its
// requirements file. An up-to-date virtualenv is left alone; changed
// requirements or force rebuild it from scratch; a virtualenv with no
// provisioning record gets requirements installed in place.
func (m *Manager) Provision(ctx context.Context, inst *instance.Instance, force bool) (ProvisionStatus, error) {
	req := inst.RequirementsPath()
	ok, err := afero.Exists(m.fs, req)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to check requirements file %s", req)
	}
	if !ok {
		return "", errors.Newf(errors.ErrFileAccess, "requirements file not found: %s", req)
	}

	checksum, err := ChecksumFile(m.fs, req)
	if err != nil {
		return "", err
	}

	if m.Exists(inst) {
		recorded := m.RecordedChecksum(inst)
		switch {
		case recorded == checksum && !force:
			m.logger.Info().
				Str("instance", inst.Name).
				Msg("Virtualenv already up to date")
			return StatusUpToDate, nil

		case recorded == "" && !force:
			if err := m.installAndRecord(ctx, inst, checksum); err != nil {
				return "", err
			}
			return StatusReinstalled, nil

		default:
			m.logger.Info().
				Str("instance", inst.Name).
				Bool("force", force).
				Msg("Rebuilding virtualenv")
			if err := m.Remove(inst); err != nil {
				return "", err
			}
			if err := m.Create(ctx, inst); err != nil {
				return "", err
			}
			if err := m.installAndRecord(ctx, inst, checksum); err != nil {
				return "", err
			}
			return StatusRecreated, nil
		}
	}

	if err := m.Create(ctx, inst); err != nil {
		return "", err
	}
	if err := m.installAndRecord(ctx, inst, checksum); err != nil {
		return "", err
	}
	return StatusCreated, nil
}

func (m *Manager) installAndRecord(ctx context.Context, inst *instance.Instance, checksum string) error {
	if err := m.Install(ctx, inst); err != nil {
		return err
	}
	return m.recordProvisioned(inst, checksum)
}

func (m *Manager) sentinelPath(inst *instance.Instance) string {
	return filepath.Join(inst.VenvPath(), SentinelFile)
}

// RecordedChecksum returns the checksum the virtualenv was last
// provisioned from, or empty when no sentinel exists
func (m *Manager) RecordedChecksum(inst *instance.Instance) string {
	data, err := afero.ReadFile(m.fs, m.sentinelPath(inst))
	if err != nil {
		return ""
	}

	content := strings.TrimSpace(string(data))
	checksum, _, _ := strings.Cut(content, "|")
	return checksum
}

func (m *Manager) recordProvisioned(inst *instance.Instance, checksum string) error {
	content := checksum + "|" + time.Now().UTC().Format(time.RFC3339) + "\n"
	if err := afero.WriteFile(m.fs, m.sentinelPath(inst), []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write provisioning sentinel for %s", inst.Name)
	}
	return nil
}
