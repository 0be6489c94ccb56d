// Package initialize implements the init command: scaffold a new
// instance directory with template files.
package initialize

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/botctl/botctl/pkg/config"
	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/instance"
	"github.com/botctl/botctl/pkg/logging"
	"github.com/botctl/botctl/pkg/paths"
)

// Template contents for scaffolded instance files
const (
	requirementsTemplate = `# Python dependencies for this bot instance.
# Pin versions so repeated provisioning stays reproducible, e.g.:
# zulip==0.9.0
`

	zuliprcTemplate = `# Bot credentials. Download the real file from your Zulip
# organization's bot settings page.
[api]
email=
key=
site=
`
)

// InitOptions defines the options for the InitInstance command
type InitOptions struct {
	// Dir is the instance directory to scaffold
	Dir string

	// FileSystem is the filesystem to use (optional, defaults to the
	// OS filesystem)
	FileSystem afero.Fs
}

// InitResult lists what InitInstance wrote and what it left alone
type InitResult struct {
	Instance     *instance.Instance `json:"instance"`
	FilesCreated []string           `json:"filesCreated"`
	FilesSkipped []string           `json:"filesSkipped"`
}

// InitInstance scaffolds an instance directory: a commented botctl
// configuration, a requirements template, and a bot config skeleton.
// Existing files are never overwritten.
func InitInstance(opts InitOptions) (*InitResult, error) {
	logger := logging.GetLogger("commands.initialize")
	logger.Info().Str("dir", opts.Dir).Msg("Scaffolding instance")

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

	if err := inst.EnsureDir(fs); err != nil {
		return nil, err
	}

	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(inst.Dir, config.InstanceConfigFiles[0]), config.GenerateConfigContent()},
		{inst.RequirementsPath(), requirementsTemplate},
		{inst.ConfigFilePath(), zuliprcTemplate},
	}

	result := &InitResult{Instance: inst}

	for _, file := range files {
		exists, err := afero.Exists(fs, file.path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to check %s", file.path)
		}
		if exists {
			logger.Debug().Str("file", file.path).Msg("File exists, skipping")
			result.FilesSkipped = append(result.FilesSkipped, file.path)
			continue
		}

		if err := afero.WriteFile(fs, file.path, []byte(file.content), 0o644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileCreate, "failed to write %s", file.path)
		}
		result.FilesCreated = append(result.FilesCreated, file.path)
	}

	logger.Info().
		Str("instance", inst.Name).
		Int("created", len(result.FilesCreated)).
		Int("skipped", len(result.FilesSkipped)).
		Msg("Instance scaffolded")

	return result, nil
}
