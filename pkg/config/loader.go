package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/botctl/botctl/pkg/errors"
	"github.com/botctl/botctl/pkg/logging"
)

// EnvPrefix is the prefix for configuration environment variables
const EnvPrefix = "BOTCTL_"

// Load resolves the effective configuration for an instance directory.
// Sources are merged lowest to highest precedence:
//  1. embedded defaults
//  2. the user-level config file (botctl.toml in the botctl config dir)
//  3. the instance config file (first of botctl.toml, .botctl.toml,
//     botctl.yaml, .botctl.yaml found in the instance directory)
//  4. BOTCTL_* environment variables
//
// An empty instanceDir skips step 3.
func Load(instanceDir, globalConfigPath string) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Built-in defaults: the programmatic baseline first, then the
	// documented defaults file layered over it. The file is the same
	// content genconfig hands to users.
	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load embedded defaults")
	}

	// 2. User-level config, when present
	if globalConfigPath != "" {
		if _, err := os.Stat(globalConfigPath); err == nil {
			if err := k.Load(file.Provider(globalConfigPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", globalConfigPath)
			}
			logger.Debug().Str("path", globalConfigPath).Msg("Loaded user config")
		}
	}

	// 3. Instance config, when present
	if instanceDir != "" {
		if path, ok := FindInstanceConfig(instanceDir); ok {
			if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
			}
			logger.Debug().Str("path", path).Msg("Loaded instance config")
		}
	}

	// 4. Environment variables
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// defaultsMap returns the built-in defaults in the flat key form the
// configuration sources merge through
func defaultsMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"python":       d.Python,
		"venv_dir":     d.VenvDir,
		"requirements": d.Requirements,
		"entrypoint":   d.Entrypoint,
		"config_file":  d.ConfigFile,
		"pip_args":     d.PipArgs,
		"env":          d.Env,
	}
}

// FindInstanceConfig returns the path of the instance configuration
// file, if one exists
func FindInstanceConfig(instanceDir string) (string, bool) {
	for _, name := range InstanceConfigFiles {
		path := filepath.Join(instanceDir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// parserFor picks the koanf parser matching a config file extension
func parserFor(path string) koanf.Parser {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}
