// Package config handles lwotool configuration loading and management.
package config

import "time"

// Config holds all lwotool settings.
type Config struct {
	Import  ImportConfig  `yaml:"import"`
	Clips   ClipsConfig   `yaml:"clips"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`

	// Source is the config file Load read, if any.
	Source string `yaml:"-"`
}

// ImportConfig holds parser settings.
type ImportConfig struct {
	LoadHidden bool   `yaml:"load_hidden"` // Present hidden layers
	Strict     bool   `yaml:"strict"`      // Fail on unconsumed chunk bytes
	Charset    string `yaml:"charset"`     // Encoding of stored names and paths
}

// ClipsConfig holds clip image resolution settings.
type ClipsConfig struct {
	SearchPaths   []string `yaml:"search_paths"` // "dirpath" is the object's directory
	AllowMissing  bool     `yaml:"allow_missing"`
	AbsolutePaths bool     `yaml:"absolute_paths"`
	Probe         bool     `yaml:"probe"` // Read image headers
}

// BatchConfig holds batch run settings.
type BatchConfig struct {
	Workers  int           `yaml:"workers"`
	Timeout  time.Duration `yaml:"timeout"` // Per file
	Manifest string        `yaml:"manifest"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			LoadHidden: false,
			Strict:     false,
			Charset:    "utf-8",
		},
		Clips: ClipsConfig{
			SearchPaths:   []string{"dirpath/../images"},
			AllowMissing:  false,
			AbsolutePaths: true,
			Probe:         false,
		},
		Batch: BatchConfig{
			Workers:  4,
			Timeout:  30 * time.Second,
			Manifest: "manifest.yaml",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
