package testsupport

import (
	"path/filepath"
	"testing"

	"texkit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InstallRoot = filepath.Join(base, "install")
	cfg.Paths.CommonConfigDir = filepath.Join(base, "common", "config")
	cfg.Paths.CommonDataDir = filepath.Join(base, "common", "data")
	cfg.Paths.UserConfigDir = filepath.Join(base, "user", "config")
	cfg.Paths.UserDataDir = filepath.Join(base, "user", "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	return &cfg
}

// WithRepairUtility overrides the repair utility name on the test config.
func WithRepairUtility(name string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Maintenance.RepairUtility = name
	}
}

// WithMaintenanceDisabled turns off the startup maintenance hook.
func WithMaintenanceDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Maintenance.Enabled = false
	}
}

// WithHistoryDisabled turns off the maintenance run journal.
func WithHistoryDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Maintenance.HistoryEnabled = false
	}
}
