package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultNormalizesAndValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !filepath.IsAbs(cfg.Paths.InstallRoot) {
		t.Fatalf("expected expanded install root, got %q", cfg.Paths.InstallRoot)
	}
	if cfg.RepairUtilityBinary() != "texutil" {
		t.Fatalf("unexpected repair utility: %q", cfg.RepairUtilityBinary())
	}
}

func TestLoadReadsFileAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
install_root = "` + dir + `/dist"
log_dir = "` + dir + `/logs"

[maintenance]
repair_utility = "mytexutil"
auto_install = "no"

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.InstallRoot != filepath.Join(dir, "dist") {
		t.Fatalf("install root not honored: %q", cfg.Paths.InstallRoot)
	}
	if cfg.Maintenance.RepairUtility != "mytexutil" {
		t.Fatalf("repair utility not honored: %q", cfg.Maintenance.RepairUtility)
	}
	if cfg.Maintenance.AutoInstall != "no" {
		t.Fatalf("auto_install not honored: %q", cfg.Maintenance.AutoInstall)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging section not honored: %+v", cfg.Logging)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	cfg, _, exists, err := Load(missing)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("missing file reported as existing")
	}
	if cfg.Logging.Level != defaultLogLevel {
		t.Fatalf("expected default log level, got %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad auto install", func(c *Config) { c.Maintenance.AutoInstall = "maybe" }, "auto_install"},
		{"bad template", func(c *Config) { c.MakeTFM.DestDir = "/tmp/%q" }, "placeholder"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidateAcceptsLoggerLevelAliases(t *testing.T) {
	for _, level := range []string{"", "trace", "debug", "info", "warn", "warning", "error", "WARN "} {
		cfg := Default()
		cfg.Logging.Level = level
		if err := cfg.Validate(); err != nil {
			t.Fatalf("level %q should validate: %v", level, err)
		}
	}
}

func TestEnsureDirectoriesCreatesUserDirs(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.UserConfigDir = filepath.Join(dir, "user-config")
	cfg.Paths.UserDataDir = filepath.Join(dir, "user-data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.CommonConfigDir = filepath.Join(dir, "common-config")
	cfg.Paths.CommonDataDir = filepath.Join(dir, "common-data")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	for _, d := range []string{cfg.Paths.UserConfigDir, cfg.Paths.UserDataDir, cfg.Paths.LogDir} {
		if _, err := os.Stat(d); err != nil {
			t.Fatalf("directory %q not created: %v", d, err)
		}
	}
}
