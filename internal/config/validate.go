package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values that would break startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.InstallRoot) == "" {
		return fmt.Errorf("paths.install_root must not be empty")
	}
	if strings.TrimSpace(c.Paths.UserConfigDir) == "" {
		return fmt.Errorf("paths.user_config_dir must not be empty")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return fmt.Errorf("paths.log_dir must not be empty")
	}

	switch c.Maintenance.AutoInstall {
	case "", "yes", "no":
	default:
		return fmt.Errorf("maintenance.auto_install: unsupported value %q (want yes, no, or empty)", c.Maintenance.AutoInstall)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	// Mirror the set the logger itself parses, aliases included.
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}

	if !strings.Contains(c.MakeTFM.DestDir, "%") {
		// A fixed directory is fine; templates just allow per-typeface trees.
		return nil
	}
	for i := 0; i < len(c.MakeTFM.DestDir); i++ {
		if c.MakeTFM.DestDir[i] != '%' {
			continue
		}
		if i+1 >= len(c.MakeTFM.DestDir) {
			return fmt.Errorf("maketfm.dest_dir: dangling %% at end of template")
		}
		switch c.MakeTFM.DestDir[i+1] {
		case '%', 's', 't':
			i++
		default:
			return fmt.Errorf("maketfm.dest_dir: unknown placeholder %%%c", c.MakeTFM.DestDir[i+1])
		}
	}
	return nil
}
