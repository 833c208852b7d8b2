// Package config loads tool configuration from file and environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/eegviz/eegviz/eeg"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Viz      VizConfig      `mapstructure:"viz"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AnalysisConfig holds defaults for spectral analysis
type AnalysisConfig struct {
	DefaultBand   string  `mapstructure:"default_band"`
	WindowSeconds float64 `mapstructure:"window_seconds"`
	Montage       string  `mapstructure:"montage"`
}

// FilterConfig holds default filter pipeline settings
type FilterConfig struct {
	LowFreq   float64 `mapstructure:"low_freq"`
	HighFreq  float64 `mapstructure:"high_freq"`
	NotchFreq float64 `mapstructure:"notch_freq"`
	AutoApply bool    `mapstructure:"auto_apply"`
}

// VizConfig holds visualization defaults handed to external renderers
type VizConfig struct {
	Colormap     string `mapstructure:"colormap"`
	AnimationFPS int    `mapstructure:"animation_fps"`
	DPI          int    `mapstructure:"dpi"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("EEGVIZ")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always unmarshal cleanly.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.default_band", "Alpha")
	v.SetDefault("analysis.window_seconds", 30.0)
	v.SetDefault("analysis.montage", "standard_1020")

	v.SetDefault("filter.low_freq", 1.0)
	v.SetDefault("filter.high_freq", 45.0)
	v.SetDefault("filter.notch_freq", 60.0) // US mains; 50 for Europe
	v.SetDefault("filter.auto_apply", false)

	v.SetDefault("viz.colormap", "RdBu_r")
	v.SetDefault("viz.animation_fps", 10)
	v.SetDefault("viz.dpi", 150)

	v.SetDefault("logging.level", "info")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if _, ok := eeg.BandByName(c.Analysis.DefaultBand); !ok {
		return fmt.Errorf("analysis.default_band %q is not a known band", c.Analysis.DefaultBand)
	}
	if c.Analysis.WindowSeconds <= 0 {
		return fmt.Errorf("analysis.window_seconds must be positive")
	}
	if c.Filter.LowFreq < 0 || c.Filter.HighFreq <= 0 {
		return fmt.Errorf("filter frequencies must be positive")
	}
	if c.Filter.LowFreq >= c.Filter.HighFreq {
		return fmt.Errorf("filter.low_freq must be below filter.high_freq")
	}
	if c.Filter.NotchFreq <= 0 {
		return fmt.Errorf("filter.notch_freq must be positive")
	}
	if c.Viz.AnimationFPS < 1 {
		return fmt.Errorf("viz.animation_fps must be at least 1")
	}
	return nil
}
