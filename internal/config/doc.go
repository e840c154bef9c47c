// Package config loads uloc settings with github.com/spf13/viper.
//
// Values are resolved from, lowest to highest priority: built-in defaults,
// an optional YAML/TOML/JSON config file, ULOC_* environment variables and
// command-line flags bound by the caller. Business code receives a plain
// Config struct and never touches viper directly.
package config
