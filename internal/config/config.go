// Package config loads the observe CLI configuration from an optional
// .observerc YAML file, falling back to defaults for anything unset.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings for the observe CLI.
type Config struct {
	WatchPaths   []string      `yaml:"watch_paths"`
	TickInterval time.Duration `yaml:"tick_interval"`
	LogPath      string        `yaml:"log_path"`
	Format       string        `yaml:"format"`
	Color        bool          `yaml:"color"`
}

// Default returns the configuration used when no .observerc exists.
func Default() Config {
	return Config{
		WatchPaths:   []string{"."},
		TickInterval: 10 * time.Second,
		LogPath:      "observe.events.jsonl",
		Format:       "text",
		Color:        true,
	}
}

// Load reads .observerc from basePath. A missing file yields defaults; a
// malformed one is an error.
func Load(basePath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName(".observerc")
	v.SetConfigType("yaml")
	v.AddConfigPath(basePath)

	// Viper defaults so missing keys fall back gracefully.
	v.SetDefault("watch.paths", cfg.WatchPaths)
	v.SetDefault("watch.tick_interval", cfg.TickInterval)
	v.SetDefault("log.path", cfg.LogPath)
	v.SetDefault("output.format", cfg.Format)
	v.SetDefault("output.color", cfg.Color)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading .observerc: %w", err)
	}

	cfg.WatchPaths = v.GetStringSlice("watch.paths")
	cfg.TickInterval = v.GetDuration("watch.tick_interval")
	cfg.LogPath = v.GetString("log.path")
	cfg.Format = v.GetString("output.format")
	cfg.Color = v.GetBool("output.color")

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the toolkit relies on.
func Validate(cfg Config) error {
	switch cfg.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output format must be text, json, or yaml, got %q", cfg.Format)
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", cfg.TickInterval)
	}
	if len(cfg.WatchPaths) == 0 {
		return fmt.Errorf("at least one watch path is required")
	}
	if cfg.LogPath == "" {
		return fmt.Errorf("log path must not be empty")
	}
	return nil
}
