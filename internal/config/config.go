// Package config handles configuration loading. It supports YAML config
// files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	DataDir  string         `mapstructure:"data_dir" yaml:"data_dir"`
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Charts   ChartsConfig   `mapstructure:"charts"   yaml:"charts"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// ProviderConfig holds data provider settings.
type ProviderConfig struct {
	Name       string `mapstructure:"name"        yaml:"name"`     // "ishares"
	Country    string `mapstructure:"country"     yaml:"country"`  // default listing country
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"` // override for mirrors/tests
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	RateLimit  int    `mapstructure:"rate_limit"  yaml:"rate_limit"` // requests per second
}

// ChartsConfig holds chart rendering settings.
type ChartsConfig struct {
	Width  int    `mapstructure:"width"  yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	Style  string `mapstructure:"style"  yaml:"style"` // "bar" or "donut"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.etfcompo/config.yaml (home directory)
//  3. /etc/etfcompo/config.yaml (system)
//
// Environment variables override config file values.
// Format: ETFCOMPO_<SECTION>_<KEY>, e.g. ETFCOMPO_PROVIDER_COUNTRY.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".etfcompo"))
	v.AddConfigPath("/etc/etfcompo")

	v.SetEnvPrefix("ETFCOMPO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("ETFCOMPO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", filepath.Join("downloads", "compositions"))

	v.SetDefault("provider.name", "ishares")
	v.SetDefault("provider.country", "us")
	v.SetDefault("provider.timeout_sec", 30)
	v.SetDefault("provider.rate_limit", 2)

	v.SetDefault("charts.width", 800)
	v.SetDefault("charts.height", 400)
	v.SetDefault("charts.style", "bar")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
