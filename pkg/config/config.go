// Package config provides configuration management for the dump analyzer.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Filter   FilterConfig   `mapstructure:"filter"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Log      LogConfig      `mapstructure:"log"`
}

// FilterConfig holds the noise-filter configuration applied to stack frames.
type FilterConfig struct {
	// IgnoredPackages lists class-name prefixes treated as noise; frames
	// belonging to them are dropped before clustering.
	IgnoredPackages []string `mapstructure:"ignored_packages"`

	// StripLineNumbers removes the :NN suffix from frame source locations
	// so recompiled code still clusters together.
	StripLineNumbers bool `mapstructure:"strip_line_numbers"`

	// UseBuiltinIgnores additionally applies the built-in JDK/framework
	// noise prefixes.
	UseBuiltinIgnores bool `mapstructure:"use_builtin_ignores"`
}

// AnalysisConfig holds analysis-related configuration.
type AnalysisConfig struct {
	// TopGroups caps how many stack groups are rendered. 0 means all.
	TopGroups int `mapstructure:"top_groups"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the specified file path.
// A missing config file is not an error: the noise filter then defaults
// to a no-op and all other settings take their defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/tdump-analysis")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config anywhere on the search path, run with defaults.
		} else if os.IsNotExist(err) {
			// Explicit path that does not exist, run with defaults.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("filter.ignored_packages", []string{})
	v.SetDefault("filter.strip_line_numbers", true)
	v.SetDefault("filter.use_builtin_ignores", false)

	v.SetDefault("analysis.top_groups", 0)

	v.SetDefault("log.level", "info")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Analysis.TopGroups < 0 {
		return fmt.Errorf("analysis.top_groups must not be negative")
	}
	for _, prefix := range c.Filter.IgnoredPackages {
		if prefix == "" {
			return fmt.Errorf("filter.ignored_packages must not contain empty prefixes")
		}
	}
	return nil
}
