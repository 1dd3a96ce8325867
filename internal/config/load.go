package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// levels: ROTFIG_BOOTSTRAP__SAMPLES sets bootstrap.samples.
const EnvPrefix = "ROTFIG_"

// flagKeys maps command-line flags onto config keys. Flags not listed are
// command options and never reach the config.
var flagKeys = map[string]string{
	"data-dir":     "paths.data",
	"figures-dir":  "paths.figures",
	"cache-dir":    "paths.cache",
	"logs-dir":     "paths.logs",
	"seed":         "bootstrap.seed",
	"samples":      "bootstrap.samples",
	"fraction":     "bootstrap.fraction",
	"cks-shift":    "shift.cks",
	"lamost-shift": "shift.lamost",
	"formats":      "formats",
	"verbose":      "verbose",
	"note":         "note",
}

// Load reads the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// With an empty cfgFile, rotfig.yaml in the working directory is used when
// present.
func Load(
	cfgFile string,
	flags *pflag.FlagSet,
) (
	*Config, error,
) {

	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			cfgFile = DefaultFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKey turns ROTFIG_BOOTSTRAP__RO_MAX into bootstrap.ro_max.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
