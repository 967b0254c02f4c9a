package config

import "time"

// Config represents the nbtest configuration file structure
type Config struct {
	// Defaults contains default settings for runs
	Defaults DefaultsConfig `yaml:"defaults,omitempty" json:"defaults,omitempty"`

	// Kernel contains execution service settings
	Kernel KernelConfig `yaml:"kernel,omitempty" json:"kernel,omitempty"`

	// IgnoreDirs is the set of directory names skipped during discovery,
	// replacing the built-in defaults when non-empty
	IgnoreDirs []string `yaml:"ignoreDirs,omitempty" json:"ignoreDirs,omitempty"`
}

// DefaultsConfig contains default values for run options
type DefaultsConfig struct {
	// Timeout is the per-notebook execution ceiling
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Workers is the number of concurrent notebook executions
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty"`

	// OutputFormat is the default output format (text, table, json, yaml)
	OutputFormat string `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty"`

	// FailFast stops dispatching notebooks after the first failure
	FailFast bool `yaml:"failFast,omitempty" json:"failFast,omitempty"`
}

// KernelConfig contains execution service settings
type KernelConfig struct {
	// Command is the executable used to run notebooks
	Command string `yaml:"command,omitempty" json:"command,omitempty"`

	// Name is the kernel name passed to the execution service
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}
