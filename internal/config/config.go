package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directory layout of a texkit installation.
//
// The common directories describe the shared (administrator-maintained)
// part of the installation; the user directories hold per-user state. On
// a single-user setup they may all live under the same prefix.
type Paths struct {
	InstallRoot     string `toml:"install_root"`
	CommonConfigDir string `toml:"common_config_dir"`
	CommonDataDir   string `toml:"common_data_dir"`
	UserConfigDir   string `toml:"user_config_dir"`
	UserDataDir     string `toml:"user_data_dir"`
	LogDir          string `toml:"log_dir"`
}

// Maintenance contains configuration for the startup auto-maintenance hook.
type Maintenance struct {
	// Enabled controls whether tools run the maintenance check at startup.
	Enabled bool `toml:"enabled"`
	// RepairUtility is the external utility invoked to perform repairs.
	RepairUtility string `toml:"repair_utility"`
	// AutoInstall resolves the installer tri-state when no command-line
	// flag was given: "", "yes" or "no".
	AutoInstall string `toml:"auto_install"`
	// HistoryEnabled controls the maintenance run journal.
	HistoryEnabled bool `toml:"history_enabled"`
}

// MakeTFM contains configuration for the font-metric build wrapper.
type MakeTFM struct {
	// DestDir is the destination directory template for generated TFM
	// files. %s expands to the font supplier, %t to the typeface.
	DestDir string `toml:"dest_dir"`
	// Mode is the METAFONT device mode.
	Mode string `toml:"mode"`
	// Resolution is the device resolution passed to hbf2gf.
	Resolution int `toml:"resolution"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for texkit.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Maintenance Maintenance `toml:"maintenance"`
	MakeTFM     MakeTFM     `toml:"maketfm"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/texkit/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A .env file in the
// working directory is applied to the environment first so that path
// overrides can be supplied per project.
func Load(path string) (*Config, string, bool, error) {
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("texkit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the per-user directories texkit writes to.
// The shared directories are owned by the installation and are created on
// a best-effort basis only, so a read-only shared tree does not fail
// startup.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.UserConfigDir, c.Paths.UserDataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	for _, dir := range []string{c.Paths.CommonConfigDir, c.Paths.CommonDataDir} {
		if strings.TrimSpace(dir) != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
	}
	return nil
}

// RepairUtilityBinary returns the executable name of the external repair
// utility.
func (c *Config) RepairUtilityBinary() string {
	if strings.TrimSpace(c.Maintenance.RepairUtility) != "" {
		return c.Maintenance.RepairUtility
	}
	return defaultRepairUtility
}

// HistoryDBPath returns the path of the maintenance journal database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.LogDir, "maintenance.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
