package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable consulted for a config path
// when -config is not given.
const EnvConfig = "LWOTOOL_CONFIG"

// Load builds the effective config. Built-in defaults are overlaid by the
// config file, if any, and then by command-line flags.
func Load() (*Config, error) {
	cfg := Default()

	path, err := configFile()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		cfg.Source = path
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configFile picks the config file: -config, then $LWOTOOL_CONFIG, then the
// search locations. A path named explicitly must exist.
func configFile() (string, error) {
	for _, explicit := range []string{ConfigPath(), os.Getenv(EnvConfig)} {
		if explicit == "" {
			continue
		}
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}
	return findConfigFile(), nil
}

// findConfigFile returns lwotool.yaml in the working directory or
// config.yaml in ConfigDir, whichever exists first.
func findConfigFile() string {
	for _, path := range []string{
		"lwotool.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "lwostrut")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "lwostrut")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "lwostrut")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "lwostrut")
	}
}

// loadFromFile overlays the YAML file at path onto cfg. Unknown keys are
// rejected so a misspelled setting does not silently fall back to its
// default. An empty file changes nothing.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
