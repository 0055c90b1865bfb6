package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const appDirName = "ratio-calculator"

// Config holds the application configuration
type Config struct {
	Port      int    `yaml:"port"`
	Headless  bool   `yaml:"headless"`
	Precision int    `yaml:"precision"` // decimal places shown for ratios
	LogLevel  string `yaml:"log_level"`

	// Window is only used when running with a GUI window
	Window WindowConfig `yaml:"window"`

	Version string `yaml:"-"`
}

// WindowConfig sizes the desktop window
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Port:      8080,
		Precision: 6,
		LogLevel:  "info",
		Window: WindowConfig{
			Title:  "Geometric Ratio Calculator",
			Width:  960,
			Height: 720,
		},
	}
}

// DefaultPath returns the config file location under the user config directory
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not determine config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, "config.yaml"), nil
}

// Load reads configuration from a YAML file. A missing file yields defaults.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration to a YAML file, creating its directory
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Precision < 0 || c.Precision > 15 {
		return fmt.Errorf("precision %d out of range (0-15)", c.Precision)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("RATIO_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATIO_PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("RATIO_PRECISION"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATIO_PRECISION: %w", err)
		}
		c.Precision = p
	}
	if v := os.Getenv("RATIO_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("RATIO_HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RATIO_HEADLESS: %w", err)
		}
		c.Headless = headless
	}
	return nil
}
