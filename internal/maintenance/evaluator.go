package maintenance

import "time"

// Checkpoints are the persisted "last maintenance" timestamps. Zero
// values mean the corresponding pass has never run.
type Checkpoints struct {
	AdminMaintenanceAt time.Time
	UserMaintenanceAt  time.Time
	AdminPackageDBAt   time.Time
}

// FileStamp is the existence and modification time of one artifact file.
type FileStamp struct {
	Exists  bool
	ModTime time.Time
}

// Artifacts collects the stamps of all derived files the evaluator
// compares against the checkpoints.
type Artifacts struct {
	FileDatabase        FileStamp
	UserLanguageTable   FileStamp
	UserLanguageSources FileStamp
	PackageManifests    FileStamp
}

// Inputs is everything Evaluate needs. It is a plain value so tests can
// construct arbitrary combinations.
type Inputs struct {
	Checkpoints Checkpoints
	Artifacts   Artifacts
	AdminScope  bool
	Portable    bool
}

// Decision is the evaluator's verdict. FreshInstall is a terminal state:
// when set, no actions are computed and the caller must abort startup
// with a setup-required message.
type Decision struct {
	FreshInstall bool
	Actions      ActionSet
}

// Evaluate computes the set of repair actions required for the given
// system state. It is pure: all comparisons are "strictly newer than",
// and the result includes the dependency closure.
func Evaluate(in Inputs) Decision {
	cps := in.Checkpoints

	if cps.AdminMaintenanceAt.IsZero() && cps.UserMaintenanceAt.IsZero() && !in.Portable {
		return Decision{FreshInstall: true}
	}

	var actions ActionSet

	// The file-name database must be refreshed when it is missing, or
	// when an administrator ran maintenance after it was last written
	// and we are in user scope.
	fndb := in.Artifacts.FileDatabase
	if !fndb.Exists || (!in.AdminScope && cps.AdminMaintenanceAt.After(fndb.ModTime)) {
		actions.Add(RefreshFileDatabase)
	}

	if !in.AdminScope {
		// The user's language table goes stale when an admin maintenance
		// pass postdates it, or when the user edited the language sources
		// file after the table was generated.
		table := in.Artifacts.UserLanguageTable
		sources := in.Artifacts.UserLanguageSources
		if (table.Exists && cps.AdminMaintenanceAt.After(table.ModTime)) || isNewer(sources, table) {
			actions.Add(ConfigureLanguageTables)
		}

		// The user's package manifests lag behind a system-wide package
		// database update performed by an administrator.
		manifests := in.Artifacts.PackageManifests
		if manifests.Exists && cps.AdminPackageDBAt.After(manifests.ModTime) {
			actions.Add(UpdatePackageDB)
		}
	}

	return Decision{Actions: actions.withDependencies()}
}

// isNewer reports whether a is strictly newer than b; both files must
// exist for the comparison to hold.
func isNewer(a, b FileStamp) bool {
	return a.Exists && b.Exists && a.ModTime.After(b.ModTime)
}
