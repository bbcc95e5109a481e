package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	runerrors "restic-runner/internal/errors"
	"restic-runner/internal/paths"
)

// Config is the resolved configuration context for one invocation.
type Config struct {
	// Repository layer.
	Repository   string `mapstructure:"repository" toml:"repository"`
	PasswordFile string `mapstructure:"password-file" toml:"password-file"`
	DuReport     bool   `mapstructure:"du-report" toml:"du-report"`

	// Set layer.
	Tag              string   `mapstructure:"tag" toml:"tag"`
	IncludePaths     []string `mapstructure:"include-paths" toml:"include-paths"`
	ExcludePatterns  []string `mapstructure:"exclude-patterns" toml:"exclude-patterns"`
	ExcludeIfPresent []string `mapstructure:"exclude-if-present" toml:"exclude-if-present"`
	KeepPolicy       []string `mapstructure:"keep-policy" toml:"keep-policy"`
}

// layer describes one configuration source in loading order.
type layer struct {
	path     string
	required bool
}

// Resolve loads and merges the configuration layers for the given repository
// and set names. Either name may be empty, in which case its layer is not
// consulted. The global layer is always consulted but optional.
func Resolve(repoName, setName string) (*Config, error) {
	layers := []layer{
		{path: paths.GlobalConfigFile(), required: false},
	}
	if repoName != "" {
		layers = append(layers, layer{path: paths.RepoConfigFile(repoName), required: true})
	}
	if setName != "" {
		layers = append(layers, layer{path: paths.SetConfigFile(setName), required: true})
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("RESTIC_RUNNER")
	v.AutomaticEnv()

	for _, l := range layers {
		if err := mergeLayer(v, l); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling configuration")
	}

	return &cfg, nil
}

// mergeLayer reads one layer into v, layering it over what was read so far.
func mergeLayer(v *viper.Viper, l layer) error {
	if _, err := os.Stat(l.path); err != nil {
		if os.IsNotExist(err) && !l.required {
			return nil
		}
		return errors.Wrapf(runerrors.ErrConfigLoad, "config file %s: %v", l.path, err)
	}

	v.SetConfigFile(l.path)
	if err := v.MergeInConfig(); err != nil {
		return errors.Wrapf(runerrors.ErrConfigLoad, "reading %s: %v", l.path, err)
	}
	return nil
}

// Validate enforces the invariants required before any engine invocation:
// the repository location and the credential file reference must be set.
func (c *Config) Validate() error {
	if c.Repository == "" {
		return errors.Wrap(runerrors.ErrConfigLoad, "repository location is not configured")
	}
	if c.PasswordFile == "" {
		return errors.Wrap(runerrors.ErrConfigLoad, "password file is not configured")
	}
	return nil
}

// Dump renders the resolved configuration as TOML for debug logging.
func (c *Config) Dump() string {
	out, err := toml.Marshal(c)
	if err != nil {
		return ""
	}
	return string(out)
}
