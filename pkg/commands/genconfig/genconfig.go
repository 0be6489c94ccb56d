// Package genconfig implements the genconfig command: show the
// configuration botctl would actually use.
package genconfig

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/botctl/botctl/pkg/config"
	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/logging"
	"github.com/botctl/botctl/pkg/paths"
)

// GenConfigOptions defines the options for the GenConfig command
type GenConfigOptions struct {
	// Dir is the instance directory; empty means show the commented
	// default template instead of an effective configuration
	Dir string
}

// GenConfigResult holds the generated configuration content
type GenConfigResult struct {
	// ConfigContent is TOML, either the commented defaults template
	// or the instance's effective configuration
	ConfigContent string `json:"configContent"`

	// Effective is true when the content is a resolved configuration
	// rather than the template
	Effective bool `json:"effective"`
}

// GenConfig renders configuration as TOML. With an instance directory
// it resolves the full cascade (defaults, global file, instance file,
// environment); without one it emits the commented default template
// for pasting into a new botctl.toml.
func GenConfig(opts GenConfigOptions) (*GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	if opts.Dir == "" {
		logger.Debug().Msg("Generating config template")
		return &GenConfigResult{
			ConfigContent: config.GenerateConfigContent(),
		}, nil
	}

	logger.Debug().Str("dir", opts.Dir).Msg("Resolving effective config")

	p, err := paths.New()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.Dir, p.GlobalConfigPath())
	if err != nil {
		return nil, err
	}

	content, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration as TOML")
	}

	return &GenConfigResult{
		ConfigContent: string(content),
		Effective:     true,
	}, nil
}
