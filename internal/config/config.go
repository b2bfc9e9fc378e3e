package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds site-wide analysis defaults. Command-line flags
// override any value set here.
type Config struct {
	Alpha  float64 `yaml:"alpha"`
	Power  float64 `yaml:"power"`
	DBPath string  `yaml:"db_path"`
}

// Default returns the built-in defaults: 95% confidence, 80% power.
func Default() Config {
	return Config{
		Alpha:  0.05,
		Power:  0.8,
		DBPath: "./abstat.db",
	}
}

// Load reads a yaml config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		return cfg, fmt.Errorf("config %s: alpha %v outside (0, 1)", path, cfg.Alpha)
	}
	if cfg.Power <= 0 || cfg.Power >= 1 {
		return cfg, fmt.Errorf("config %s: power %v outside (0, 1)", path, cfg.Power)
	}

	return cfg, nil
}
