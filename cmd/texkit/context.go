package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"texkit/internal/config"
	"texkit/internal/history"
	"texkit/internal/logging"
	"texkit/internal/maintenance"
	"texkit/internal/packagedb"
	"texkit/internal/session"
	"texkit/internal/toolrun"
)

type globalFlags struct {
	configPath         string
	admin              bool
	enableInstaller    bool
	disableInstaller   bool
	enableMaintenance  bool
	disableMaintenance bool
	quiet              bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.configPath))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil || c.flags.quiet {
			c.logger = logging.Discard()
			return
		}
		logger, err := logging.NewFromConfig(cfg, "texkit")
		if err != nil {
			c.logger = logging.Discard()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) newSession() (*session.Session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return session.New(cfg, c.flags.admin)
}

// installerState resolves the installer tri-state once: explicit flags
// win, otherwise the configured auto_install value applies.
func (c *commandContext) installerState() maintenance.TriState {
	switch {
	case c.flags.enableInstaller:
		return maintenance.True
	case c.flags.disableInstaller:
		return maintenance.False
	}
	if cfg, err := c.ensureConfig(); err == nil {
		return maintenance.ResolveTriState(cfg.Maintenance.AutoInstall)
	}
	return maintenance.Undetermined
}

func (c *commandContext) maintenanceEnabled() bool {
	switch {
	case c.flags.disableMaintenance:
		return false
	case c.flags.enableMaintenance:
		return true
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return false
	}
	return cfg.Maintenance.Enabled
}

// runStartupMaintenance performs the stale-artifact check tools run
// before doing real work. All failures short of a fresh installation
// are absorbed by the orchestrator; the status says whether repairs
// actually ran.
func (c *commandContext) runStartupMaintenance(ctx context.Context) (maintenance.RunStatus, error) {
	if !c.maintenanceEnabled() {
		return maintenance.StatusSkipped, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return maintenance.StatusSkipped, err
	}
	sess, err := c.newSession()
	if err != nil {
		return maintenance.StatusSkipped, err
	}
	logger := c.ensureLogger()

	opts := maintenance.Options{
		Installer: c.installerState(),
		Updater: &packagedb.Updater{
			ManifestsPath: sess.PackageManifestsPath(),
			IndexPath:     filepath.Join(cfg.Paths.UserDataDir, "package-index.ini"),
			Logger:        logger,
		},
		Logger: logger,
	}

	if cfg.Maintenance.HistoryEnabled {
		journal, err := history.Open(cfg.HistoryDBPath())
		if err != nil {
			logger.Warn("maintenance journal unavailable", slog.Any("error", err))
		} else {
			defer journal.Close()
			opts.Journal = journal
		}
	}

	orch, err := maintenance.New(sess, &toolrun.ExecRunner{}, opts)
	if err != nil {
		return maintenance.StatusSkipped, err
	}
	return orch.RunIfNeeded(ctx)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
