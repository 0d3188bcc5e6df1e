// Package config loads contactbook settings.
//
// Precedence (highest to lowest): explicitly set flags > CONTACTBOOK_* env
// vars > config file > defaults.
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
	"github.com/maloquacious/contactbook/internal/logger"
	"github.com/maloquacious/contactbook/internal/store"
	"github.com/spf13/pflag"
)

const (
	// DefaultConfigFile is looked up in the working directory.
	DefaultConfigFile = "contactbook.yaml"

	// EnvPrefix is stripped from environment variables.
	EnvPrefix = "CONTACTBOOK_"

	DefaultOutput = "auto"
)

// Config is the resolved configuration.
type Config struct {
	DBPath string         `koanf:"db_path"`
	Strict bool           `koanf:"strict"`
	Output string         `koanf:"output"`
	Log    logger.Options `koanf:"log"`

	// ConfigFile is the file that was loaded, empty if none.
	ConfigFile string `koanf:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		DBPath: store.DBPath(store.StorePath()),
		Output: DefaultOutput,
		Log:    logger.Options{Format: "text"},
	}
}

// Load reads configuration from cfgFile (or DefaultConfigFile when present),
// the environment, and flags. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	d := Defaults()
	if err := k.Load(confmap.Provider(map[string]any{
		"db_path":    d.DBPath,
		"strict":     d.Strict,
		"output":     d.Output,
		"log.level":  d.Log.Level,
		"log.file":   d.Log.File,
		"log.format": d.Log.Format,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// CONTACTBOOK_DB_PATH -> db_path, CONTACTBOOK_LOG__LEVEL -> log.level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			switch key {
			case "db":
				key = "db_path"
			case "log_level", "log_file", "log_format":
				key = "log." + strings.TrimPrefix(key, "log_")
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
	cfg.ConfigFile = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be fixed up silently.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	switch c.Output {
	case "auto", "table", "plain", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (auto|table|plain|json|yaml)", c.Output)
	}
	return nil
}

// findConfigFile returns the explicit path, or DefaultConfigFile if it
// exists in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}
