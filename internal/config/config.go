package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default tool binaries and timeouts
const (
	DefaultLimaBinary     = "limactl"
	DefaultBrewBinary     = "brew"
	DefaultStartTimeout   = 10 * time.Minute
	DefaultStopTimeout    = 2 * time.Minute
	DefaultDeleteTimeout  = 2 * time.Minute
	DefaultProbeTimeout   = 5 * time.Second
	DefaultInstallTimeout = 15 * time.Minute
)

// Config represents the application configuration
type Config struct {
	RegistryDir string   `yaml:"registry_dir" validate:"required"`
	LimaBinary  string   `yaml:"lima_binary" validate:"required"`
	BrewBinary  string   `yaml:"brew_binary" validate:"required"`
	Timeouts    Timeouts `yaml:"timeouts"`
	Log         Log      `yaml:"log"`
}

// Timeouts bounds each kind of external command
type Timeouts struct {
	Start   time.Duration `yaml:"start" validate:"gt=0"`
	Stop    time.Duration `yaml:"stop" validate:"gt=0"`
	Delete  time.Duration `yaml:"delete" validate:"gt=0"`
	Probe   time.Duration `yaml:"probe" validate:"gt=0"`
	Install time.Duration `yaml:"install" validate:"gt=0"`
}

// Log configures logging output. File enables a rotating log file next to
// stderr; MaxSize is in megabytes and MaxAge in days.
type Log struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	File       string `yaml:"file,omitempty"`
	MaxSize    int    `yaml:"max_size" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAge     int    `yaml:"max_age" validate:"gte=0"`
}

var validate = validator.New()

// GetConfigDir returns the config directory path (~/.aske)
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aske"
	}
	return filepath.Join(home, ".aske")
}

// GetConfigPath returns the config file path (~/.aske/config.yaml)
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		RegistryDir: filepath.Join(GetConfigDir(), "sol"),
		LimaBinary:  DefaultLimaBinary,
		BrewBinary:  DefaultBrewBinary,
		Timeouts: Timeouts{
			Start:   DefaultStartTimeout,
			Stop:    DefaultStopTimeout,
			Delete:  DefaultDeleteTimeout,
			Probe:   DefaultProbeTimeout,
			Install: DefaultInstallTimeout,
		},
		Log: Log{
			Level:      "warn",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// LoadConfig loads the configuration from path, or ~/.aske/config.yaml when
// path is empty. Values missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to path, or ~/.aske/config.yaml when
// path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = GetConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration and expands a leading ~ in paths
func (c *Config) Validate() error {
	c.RegistryDir = expandHome(c.RegistryDir)
	c.Log.File = expandHome(c.Log.File)

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
