package config

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Import.LoadHidden {
		t.Error("expected hidden layers to be skipped by default")
	}
	if cfg.Import.Strict {
		t.Error("expected strict mode to be off by default")
	}
	if cfg.Import.Charset != "utf-8" {
		t.Errorf("expected charset utf-8, got %s", cfg.Import.Charset)
	}

	if !reflect.DeepEqual(cfg.Clips.SearchPaths, []string{"dirpath/../images"}) {
		t.Errorf("unexpected search paths %v", cfg.Clips.SearchPaths)
	}
	if cfg.Clips.AllowMissing {
		t.Error("expected missing images to fail by default")
	}
	if !cfg.Clips.AbsolutePaths {
		t.Error("expected absolute image paths by default")
	}

	if cfg.Batch.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Batch.Workers)
	}
	if cfg.Batch.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Batch.Timeout)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
import:
  load_hidden: true
  strict: true
  charset: shift-jis

clips:
  search_paths: ["dirpath/textures", "/srv/images"]
  allow_missing: true
  absolute_paths: false
  probe: true

batch:
  workers: 8
  timeout: 5s
  manifest: run.yaml

logging:
  level: "debug"
  log_file: "lwotool.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Import.LoadHidden || !cfg.Import.Strict {
		t.Errorf("import section not loaded: %+v", cfg.Import)
	}
	if cfg.Import.Charset != "shift-jis" {
		t.Errorf("expected charset shift-jis, got %s", cfg.Import.Charset)
	}
	if !reflect.DeepEqual(cfg.Clips.SearchPaths, []string{"dirpath/textures", "/srv/images"}) {
		t.Errorf("unexpected search paths %v", cfg.Clips.SearchPaths)
	}
	if !cfg.Clips.AllowMissing || cfg.Clips.AbsolutePaths || !cfg.Clips.Probe {
		t.Errorf("clips section not loaded: %+v", cfg.Clips)
	}
	if cfg.Batch.Workers != 8 || cfg.Batch.Timeout != 5*time.Second || cfg.Batch.Manifest != "run.yaml" {
		t.Errorf("batch section not loaded: %+v", cfg.Batch)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "lwotool.log" {
		t.Errorf("logging section not loaded: %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
batch:
  workers: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("clips:\n  serch_paths: [a]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for misspelled key, got nil")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty config file error = %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("empty file changed config: %+v", cfg)
	}
}

func TestLoadEnvConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(configPath, []byte("batch:\n  workers: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, configPath)
	defer resetFlags()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Batch.Workers != 3 || cfg.Source != configPath {
		t.Errorf("workers %d from %q, want 3 from %q", cfg.Batch.Workers, cfg.Source, configPath)
	}

	override := filepath.Join(t.TempDir(), "flag.yaml")
	if err := os.WriteFile(override, []byte("batch:\n  workers: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	*flagConfig = override
	if cfg, err = Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Batch.Workers != 9 {
		t.Errorf("-config should win over %s, got workers %d", EnvConfig, cfg.Batch.Workers)
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "absent.yaml"))
	defer resetFlags()
	if _, err := Load(); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Fatal("ConfigDir returned empty string")
	}
	if filepath.Base(dir) != "lwostrut" {
		t.Errorf("ConfigDir should end in lwostrut, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "lwotool.yaml"), []byte("batch:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find lwotool.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "import flags",
			args: []string{"-hidden", "-strict", "-charset", "latin1"},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Import.LoadHidden || !cfg.Import.Strict || cfg.Import.Charset != "latin1" {
					t.Errorf("import flags not applied: %+v", cfg.Import)
				}
			},
		},
		{
			name: "search list",
			args: []string{"-search", " dirpath/a, ,/b "},
			verify: func(t *testing.T, cfg *Config) {
				if !reflect.DeepEqual(cfg.Clips.SearchPaths, []string{"dirpath/a", "/b"}) {
					t.Errorf("unexpected search paths %v", cfg.Clips.SearchPaths)
				}
			},
		},
		{
			name: "clip flags",
			args: []string{"-allow-missing", "-relative", "-probe"},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Clips.AllowMissing || cfg.Clips.AbsolutePaths || !cfg.Clips.Probe {
					t.Errorf("clip flags not applied: %+v", cfg.Clips)
				}
			},
		},
		{
			name: "batch flags",
			args: []string{"-workers", "12", "-timeout", "2m"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Batch.Workers != 12 || cfg.Batch.Timeout != 2*time.Minute {
					t.Errorf("batch flags not applied: %+v", cfg.Batch)
				}
			},
		},
		{
			name: "positional arguments kept",
			args: []string{"-strict", "a.lwo", "b.lwo"},
			verify: func(t *testing.T, cfg *Config) {
				if !reflect.DeepEqual(Args(), []string{"a.lwo", "b.lwo"}) {
					t.Errorf("Args() = %v", Args())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer resetFlags()
			if err := ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags(%v) error = %v", tt.args, err)
			}
			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
batch:
  workers: 6
  timeout: 10s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWorkers = 16
	defer resetFlags()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Batch.Workers != 16 {
		t.Errorf("expected workers 16 from flag, got %d", cfg.Batch.Workers)
	}
	if cfg.Batch.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s from file, got %v", cfg.Batch.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown charset", func(c *Config) { c.Import.Charset = "klingon" }},
		{"no workers", func(c *Config) { c.Batch.Workers = 0 }},
		{"negative timeout", func(c *Config) { c.Batch.Timeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestParserOptionsAndResolver(t *testing.T) {
	cfg := Default()
	cfg.Import.Charset = "bogus"
	if _, err := cfg.ParserOptions(zap.NewNop()); err == nil {
		t.Error("expected error for unknown charset")
	}

	cfg = Default()
	opts, err := cfg.ParserOptions(zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 3 {
		t.Errorf("expected 3 parser options, got %d", len(opts))
	}

	r := cfg.Resolver(nil)
	if !reflect.DeepEqual(r.SearchPaths, cfg.Clips.SearchPaths) || !r.AbsolutePaths {
		t.Errorf("resolver not configured from clips section: %+v", r)
	}
}

func TestSave(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("config dir is not taken from XDG_CONFIG_HOME here")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Batch.Workers = 7
	path, err := cfg.Save()
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if path != filepath.Join(ConfigDir(), "config.yaml") {
		t.Errorf("Save() wrote %s", path)
	}
	if found := findConfigFile(); found != path {
		t.Errorf("findConfigFile() = %q, want %q", found, path)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Batch.Workers = 3
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("reloaded config differs:\n got %+v\nwant %+v", loaded, cfg)
	}
}

// resetFlags restores every flag to its zero value.
func resetFlags() {
	*flagConfig = ""
	*flagDebug = false
	*flagLogFile = ""
	*flagHidden = false
	*flagStrict = false
	*flagCharset = ""
	*flagSearch = ""
	*flagAllowMissing = false
	*flagRelative = false
	*flagProbe = false
	*flagWorkers = 0
	*flagTimeout = 0
}
