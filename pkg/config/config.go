// Package config handles configuration management for botctl.
// It supports loading configuration from multiple sources including
// TOML and YAML files and environment variables.
package config

import (
	"path/filepath"
	"strings"

	"github.com/botctl/botctl/pkg/errors"
)

// Instance configuration file names, checked in order. The first one
// found in the instance directory wins.
var InstanceConfigFiles = []string{
	"botctl.toml",
	".botctl.toml",
	"botctl.yaml",
	".botctl.yaml",
}

// Config holds the per-instance settings botctl operates with
type Config struct {
	// Python is the interpreter used to create the virtualenv. Empty
	// means resolve python3/python from PATH.
	Python string `koanf:"python" toml:"python" json:"python"`

	// VenvDir is the virtualenv directory name inside the instance
	// directory
	VenvDir string `koanf:"venv_dir" toml:"venv_dir" json:"venv_dir"`

	// Requirements is the requirements file installed into the
	// virtualenv, relative to the instance directory
	Requirements string `koanf:"requirements" toml:"requirements" json:"requirements"`

	// Entrypoint is the bot script started by run, relative to the
	// instance directory
	Entrypoint string `koanf:"entrypoint" toml:"entrypoint" json:"entrypoint"`

	// ConfigFile is the bot configuration file passed as the final
	// run argument, relative to the instance directory
	ConfigFile string `koanf:"config_file" toml:"config_file" json:"config_file"`

	// PipArgs are extra arguments appended to every pip install
	PipArgs []string `koanf:"pip_args" toml:"pip_args" json:"pip_args"`

	// Env holds extra environment variables exported to the bot
	// process
	Env map[string]string `koanf:"env" toml:"env" json:"env"`
}

// Default returns the built-in default configuration
func Default() *Config {
	return &Config{
		VenvDir:      "venv",
		Requirements: "requirements.txt",
		Entrypoint:   "bot.py",
		ConfigFile:   "zuliprc",
		PipArgs:      []string{},
		Env:          map[string]string{},
	}
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if c.VenvDir == "" {
		return errors.New(errors.ErrConfigValid, "venv_dir cannot be empty")
	}
	if filepath.IsAbs(c.VenvDir) {
		return errors.Newf(errors.ErrConfigValid, "venv_dir must be relative to the instance directory: %s", c.VenvDir)
	}
	if strings.Contains(c.VenvDir, "..") {
		return errors.Newf(errors.ErrConfigValid, "venv_dir cannot escape the instance directory: %s", c.VenvDir)
	}
	if c.Requirements == "" {
		return errors.New(errors.ErrConfigValid, "requirements cannot be empty")
	}
	if c.Entrypoint == "" {
		return errors.New(errors.ErrConfigValid, "entrypoint cannot be empty")
	}
	if c.ConfigFile == "" {
		return errors.New(errors.ErrConfigValid, "config_file cannot be empty")
	}
	return nil
}
