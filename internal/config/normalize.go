package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeMakeTFM(); err != nil {
		return err
	}
	c.normalizeMaintenance()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("TEXKIT_INSTALL_ROOT"); ok && strings.TrimSpace(value) != "" {
		c.Paths.InstallRoot = value
	}
	if c.Paths.InstallRoot, err = expandPath(c.Paths.InstallRoot); err != nil {
		return fmt.Errorf("paths.install_root: %w", err)
	}
	if c.Paths.CommonConfigDir, err = expandPath(c.Paths.CommonConfigDir); err != nil {
		return fmt.Errorf("paths.common_config_dir: %w", err)
	}
	if c.Paths.CommonDataDir, err = expandPath(c.Paths.CommonDataDir); err != nil {
		return fmt.Errorf("paths.common_data_dir: %w", err)
	}
	if c.Paths.UserConfigDir, err = expandPath(c.Paths.UserConfigDir); err != nil {
		return fmt.Errorf("paths.user_config_dir: %w", err)
	}
	if c.Paths.UserDataDir, err = expandPath(c.Paths.UserDataDir); err != nil {
		return fmt.Errorf("paths.user_data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMakeTFM() error {
	var err error
	if strings.TrimSpace(c.MakeTFM.DestDir) == "" {
		c.MakeTFM.DestDir = defaultMakeTFMDestDir
	}
	if c.MakeTFM.DestDir, err = expandPath(c.MakeTFM.DestDir); err != nil {
		return fmt.Errorf("maketfm.dest_dir: %w", err)
	}
	c.MakeTFM.Mode = strings.TrimSpace(c.MakeTFM.Mode)
	if c.MakeTFM.Mode == "" {
		c.MakeTFM.Mode = defaultMakeTFMMode
	}
	if c.MakeTFM.Resolution <= 0 {
		c.MakeTFM.Resolution = defaultHBFResolution
	}
	return nil
}

func (c *Config) normalizeMaintenance() {
	c.Maintenance.RepairUtility = strings.TrimSpace(c.Maintenance.RepairUtility)
	if c.Maintenance.RepairUtility == "" {
		c.Maintenance.RepairUtility = defaultRepairUtility
	}
	c.Maintenance.AutoInstall = strings.ToLower(strings.TrimSpace(c.Maintenance.AutoInstall))
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
