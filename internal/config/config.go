package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Keys understood by the loader. Flags are bound under the same names.
const (
	KeyAll       = "all"
	KeySeparator = "separator"
	KeyName      = "name"
	KeyHeader    = "header"
	KeyFormat    = "format"
	KeyExclude   = "exclude"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
	KeySave      = "save"
	KeyDBPath    = "db_path"
)

// EnvPrefix is prepended to every key when reading the environment.
const EnvPrefix = "ULOC"

// Config holds resolved settings.
type Config struct {
	All       bool
	Separator string // "/", "\" or empty for the OS separator
	Name      bool
	Header    bool
	Format    string
	Exclude   []string
	LogLevel  string
	LogFormat string
	Save      bool
	DBPath    string
}

// DefaultDBPath returns ~/.uloc/history.db, or a file in the working
// directory when the home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".uloc-history.db"
	}
	return filepath.Join(home, ".uloc", "history.db")
}

// NewViper returns a viper instance with defaults and environment lookup
// configured. Callers bind flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyAll, false)
	v.SetDefault(KeySeparator, "")
	v.SetDefault(KeyName, false)
	v.SetDefault(KeyHeader, true)
	v.SetDefault(KeyFormat, "text")
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeySave, false)
	v.SetDefault(KeyDBPath, DefaultDBPath())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file and returns the merged settings. An explicit
// file must exist; otherwise .uloc.{yaml,toml,json} is looked up in the
// working directory and then $HOME, and a missing one is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".uloc")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		All:       v.GetBool(KeyAll),
		Separator: v.GetString(KeySeparator),
		Name:      v.GetBool(KeyName),
		Header:    v.GetBool(KeyHeader),
		Format:    strings.ToLower(v.GetString(KeyFormat)),
		Exclude:   splitList(v.GetStringSlice(KeyExclude)),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
		Save:      v.GetBool(KeySave),
		DBPath:    v.GetString(KeyDBPath),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be checked by type alone.
func (c *Config) Validate() error {
	switch c.Separator {
	case "", "/", `\`:
	default:
		return fmt.Errorf("invalid separator %q: must be / or \\", c.Separator)
	}
	return nil
}

// SeparatorByte returns the join separator, 0 meaning the OS default.
func (c *Config) SeparatorByte() byte {
	if c.Separator == "" {
		return 0
	}
	return c.Separator[0]
}

// splitList accepts both real lists and comma-separated strings, which is
// what an environment variable yields.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
