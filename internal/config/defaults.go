package config

const (
	defaultInstallRoot     = "~/.local/share/texkit/dist"
	defaultCommonConfigDir = "~/.local/share/texkit/config"
	defaultCommonDataDir   = "~/.local/share/texkit/data"
	defaultUserConfigDir   = "~/.config/texkit"
	defaultUserDataDir     = "~/.local/share/texkit/user"
	defaultLogDir          = "~/.local/share/texkit/logs"
	defaultRepairUtility   = "texutil"
	defaultMakeTFMDestDir  = "~/.local/share/texkit/user/fonts/tfm/%s/%t"
	defaultMakeTFMMode     = "ljfour"
	defaultHBFResolution   = 300
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InstallRoot:     defaultInstallRoot,
			CommonConfigDir: defaultCommonConfigDir,
			CommonDataDir:   defaultCommonDataDir,
			UserConfigDir:   defaultUserConfigDir,
			UserDataDir:     defaultUserDataDir,
			LogDir:          defaultLogDir,
		},
		Maintenance: Maintenance{
			Enabled:        true,
			RepairUtility:  defaultRepairUtility,
			HistoryEnabled: true,
		},
		MakeTFM: MakeTFM{
			DestDir:    defaultMakeTFMDestDir,
			Mode:       defaultMakeTFMMode,
			Resolution: defaultHBFResolution,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
