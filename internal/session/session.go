// Package session resolves the installation layout for the current
// process: which scope it runs in (administrator or user), where the
// shared and per-user trees live, and where the maintenance checkpoints
// and derived artifacts are found. It is the production implementation
// of maintenance.Environment.
//
// The session only ever reads checkpoints. They are written by the
// external repair utilities when a maintenance pass completes, which is
// what keeps this layer free of its own write-locking discipline.
package session

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	"texkit/internal/cfgfile"
	"texkit/internal/config"
	"texkit/internal/maintenance"
)

// lookPath is a seam for tests.
var lookPath = exec.LookPath

// Names of the persisted configuration values holding the checkpoints.
const (
	configFileName = "texkit.ini"

	sectionCore          = "core"
	keyAdminMaintenance  = "last_admin_maintenance"
	keyUserMaintenance   = "last_user_maintenance"
	sectionPackageDB     = "packagedb"
	keyAdminPackageDBRun = "last_admin_update"

	portableMarker = "texkit-portable.ini"
)

// Session is an immutable view of the installation for one process run.
type Session struct {
	cfg      *config.Config
	admin    bool
	portable bool
}

// New constructs a session. adminMode selects the administrator scope;
// portable mode is detected from a marker file in the install root.
func New(cfg *config.Config, adminMode bool) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("session requires a config")
	}
	s := &Session{cfg: cfg, admin: adminMode}
	if _, err := os.Stat(filepath.Join(cfg.Paths.InstallRoot, portableMarker)); err == nil {
		s.portable = true
	}
	return s, nil
}

// AdminScope reports whether this process runs in administrator scope.
func (s *Session) AdminScope() bool {
	return s.admin
}

// Portable reports whether this is a portable installation.
func (s *Session) Portable() bool {
	return s.portable
}

// Config returns the session's configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// ConfigRoot returns the configuration directory for the current scope.
func (s *Session) ConfigRoot() string {
	if s.admin {
		return s.cfg.Paths.CommonConfigDir
	}
	return s.cfg.Paths.UserConfigDir
}

// CommonConfigFile returns the path of the shared texkit.ini.
func (s *Session) CommonConfigFile() string {
	return filepath.Join(s.cfg.Paths.CommonConfigDir, configFileName)
}

// UserConfigFile returns the path of the per-user texkit.ini.
func (s *Session) UserConfigFile() string {
	return filepath.Join(s.cfg.Paths.UserConfigDir, configFileName)
}

// FileDatabasePath returns the path of the file-name database artifact.
func (s *Session) FileDatabasePath() string {
	return filepath.Join(s.cfg.Paths.CommonDataDir, "texkit.fndb")
}

// UserLanguageTablePath returns the generated per-user language table.
func (s *Session) UserLanguageTablePath() string {
	return filepath.Join(s.cfg.Paths.UserConfigDir, "language.dat")
}

// UserLanguageSourcesPath returns the per-user language sources file.
func (s *Session) UserLanguageSourcesPath() string {
	return filepath.Join(s.cfg.Paths.UserConfigDir, "languages.ini")
}

// PackageManifestsPath returns the per-user package manifests file.
func (s *Session) PackageManifestsPath() string {
	return filepath.Join(s.cfg.Paths.InstallRoot, "tpm", "package-manifests.ini")
}

// LockPath returns the maintenance lock file shared by every process on
// this installation.
func (s *Session) LockPath() string {
	return filepath.Join(s.cfg.Paths.CommonDataDir, "maintenance.lock")
}

// ScriptRegistryPath returns the script registry consulted by runscript.
func (s *Session) ScriptRegistryPath() string {
	return filepath.Join(s.cfg.Paths.InstallRoot, "config", "scripts.ini")
}

// Checkpoints reads the persisted maintenance timestamps, defaulting to
// zero ("never run") when absent.
func (s *Session) Checkpoints() (maintenance.Checkpoints, error) {
	common, err := cfgfile.Load(s.CommonConfigFile())
	if err != nil {
		return maintenance.Checkpoints{}, err
	}
	user, err := cfgfile.Load(s.UserConfigFile())
	if err != nil {
		return maintenance.Checkpoints{}, err
	}
	return maintenance.Checkpoints{
		AdminMaintenanceAt: common.GetTime(sectionCore, keyAdminMaintenance),
		UserMaintenanceAt:  user.GetTime(sectionCore, keyUserMaintenance),
		AdminPackageDBAt:   common.GetTime(sectionPackageDB, keyAdminPackageDBRun),
	}, nil
}

// Artifacts stats the derived files the staleness evaluator compares
// against the checkpoints.
func (s *Session) Artifacts() (maintenance.Artifacts, error) {
	return maintenance.Artifacts{
		FileDatabase:        statFile(s.FileDatabasePath()),
		UserLanguageTable:   statFile(s.UserLanguageTablePath()),
		UserLanguageSources: statFile(s.UserLanguageSourcesPath()),
		PackageManifests:    statFile(s.PackageManifestsPath()),
	}, nil
}

// FindRepairUtility locates the configured repair utility, preferring
// the installation's own bin directory over PATH.
func (s *Session) FindRepairUtility() (string, bool) {
	return s.FindTool(s.cfg.RepairUtilityBinary())
}

// FindTool locates an external toolchain program by name.
func (s *Session) FindTool(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	candidate := filepath.Join(s.cfg.Paths.InstallRoot, "bin", name)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate, true
	}
	path, err := lookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}

// FindFontSource locates a METAFONT source file for the named font in
// the installation and user font trees.
func (s *Session) FindFontSource(name string) (string, bool) {
	roots := []string{
		filepath.Join(s.cfg.Paths.UserDataDir, "fonts", "source"),
		filepath.Join(s.cfg.Paths.InstallRoot, "fonts", "source"),
	}
	for _, root := range roots {
		var found string
		_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if d.Name() == name+".mf" {
				found = path
				return filepath.SkipAll
			}
			return nil
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}

func statFile(path string) maintenance.FileStamp {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return maintenance.FileStamp{}
	}
	return maintenance.FileStamp{Exists: true, ModTime: info.ModTime()}
}

var _ maintenance.Environment = (*Session)(nil)
