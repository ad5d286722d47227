// Package config loads logscrub settings from an optional config file and
// LOGSCRUB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config holds run settings. Command-line flags override these.
type Config struct {
	Patterns     []string      `mapstructure:"patterns"`
	ReplaceWith  string        `mapstructure:"replace_with"`
	Encoding     string        `mapstructure:"encoding"`
	Inplace      bool          `mapstructure:"inplace"`
	Workers      int           `mapstructure:"workers"`
	MatchTimeout time.Duration `mapstructure:"match_timeout"`
	Seed         uint64        `mapstructure:"seed"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		Workers:      1,
		MatchTimeout: 5 * time.Second,
	}
}

// Load reads configuration from path, or from logscrub.{yaml,json,toml} in
// the working directory or $HOME/.config/logscrub when path is empty. A
// missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	d := Defaults()
	v.SetDefault("patterns", d.Patterns)
	v.SetDefault("replace_with", d.ReplaceWith)
	v.SetDefault("encoding", d.Encoding)
	v.SetDefault("inplace", d.Inplace)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("match_timeout", d.MatchTimeout)
	v.SetDefault("seed", d.Seed)

	v.SetEnvPrefix("LOGSCRUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("logscrub")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/logscrub")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	hooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		splitLines,
	)
	if err := v.Unmarshal(cfg, viper.DecodeHook(hooks)); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// splitLines decodes a string into a []string with one element per line.
// LOGSCRUB_PATTERNS arrives as a single string, and patterns routinely
// contain commas (e.g. `{2,}`), so the separator is a newline.
func splitLines(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]string(nil)) {
		return data, nil
	}
	s := strings.TrimRight(reflect.ValueOf(data).String(), "\r\n")
	if s == "" {
		return []string{}, nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MatchTimeout < 0 {
		return fmt.Errorf("match_timeout must not be negative, got %s", c.MatchTimeout)
	}
	return nil
}
