// Package config loads and validates nbtest configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/nbtest/nbtest/internal/kernel"
	"github.com/nbtest/nbtest/internal/util"
)

const (
	defaultConfigName = ".nbtest"
	defaultConfigDir  = ".nbtest"
)

// Default values applied when neither flag, env, nor file sets an option.
const (
	DefaultTimeout = 120 * time.Second
	DefaultWorkers = 1
	DefaultFormat  = "text"
)

// Manager handles nbtest configuration
type Manager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &Config{},
	}
}

// Load loads the nbtest configuration from file
func (m *Manager) Load() (*Config, error) {
	// Set up config file path
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		// Try multiple locations
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// Check ~/.nbtest/config.yaml
		m.viper.AddConfigPath(filepath.Join(home, defaultConfigDir))
		// Check ~/.nbtest.yaml
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	// Set environment variable support
	m.viper.SetEnvPrefix("NBTEST")
	m.viper.AutomaticEnv()

	// Initialize config to ensure defaults are set even for empty configs
	m.config = &Config{}

	// Read config file
	if err := m.viper.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we'll use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		m.applyDefaults()
		return m.config, nil
	}

	// Unmarshal into config struct
	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	m.applyDefaults()

	if err := m.config.Validate(); err != nil {
		return nil, err
	}

	return m.config, nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// ConfigFileUsed returns the path of the loaded config file, if any
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// applyDefaults sets default values for configuration
func (m *Manager) applyDefaults() {
	if m.config == nil {
		return
	}

	if m.config.Defaults.Timeout == 0 {
		m.config.Defaults.Timeout = DefaultTimeout
	}

	if m.config.Defaults.Workers == 0 {
		m.config.Defaults.Workers = DefaultWorkers
	}

	if m.config.Defaults.OutputFormat == "" {
		m.config.Defaults.OutputFormat = DefaultFormat
	}

	if m.config.Kernel.Command == "" {
		m.config.Kernel.Command = kernel.DefaultCommand
	}

	if m.config.Kernel.Name == "" {
		m.config.Kernel.Name = kernel.DefaultKernel
	}
}

// Validate checks configuration invariants that flags and files can violate.
func (c *Config) Validate() error {
	if c.Defaults.Timeout < 0 {
		return fmt.Errorf("%w: %v", util.ErrInvalidConfig,
			util.NewValidationError("defaults.timeout", c.Defaults.Timeout, "must not be negative"))
	}

	if c.Defaults.Workers < 1 {
		return fmt.Errorf("%w: %v", util.ErrInvalidConfig,
			util.NewValidationError("defaults.workers", c.Defaults.Workers, "must be at least 1"))
	}

	switch c.Defaults.OutputFormat {
	case "text", "table", "json", "yaml":
	default:
		return fmt.Errorf("%w: %v", util.ErrInvalidConfig,
			util.NewValidationError("defaults.outputFormat", c.Defaults.OutputFormat, "must be one of text, table, json, yaml"))
	}

	return nil
}
