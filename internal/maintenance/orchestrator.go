package maintenance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"texkit/internal/lockfile"
	"texkit/internal/logging"
	"texkit/internal/toolrun"
)

// Environment supplies the system state the orchestrator reads. The
// production implementation is session.Session; tests use fakes.
type Environment interface {
	Checkpoints() (Checkpoints, error)
	Artifacts() (Artifacts, error)
	AdminScope() bool
	Portable() bool
	LockPath() string
	// FindRepairUtility locates the external repair utility binary.
	FindRepairUtility() (string, bool)
}

// Releaser releases a held lock.
type Releaser interface {
	Release() error
}

// Locker acquires the maintenance lock without blocking.
type Locker interface {
	TryAcquire(path string) (Releaser, bool, error)
}

// PackageDBUpdater performs the in-process "update package database from
// cache" step. It is optional; when absent the update is skipped with a
// debug log.
type PackageDBUpdater interface {
	UpdateFromCache(ctx context.Context) error
}

// RunStatus reports how RunIfNeeded concluded.
type RunStatus int

const (
	// StatusUpToDate means no repair actions were pending.
	StatusUpToDate RunStatus = iota
	// StatusSkipped means actions may be pending but nothing ran: the
	// environment was unreadable, the repair utility was missing, or
	// another process held the maintenance lock.
	StatusSkipped
	// StatusRepaired means repair actions were executed under the lock.
	StatusRepaired
)

// ActionOutcome records one action's result for the run journal.
type ActionOutcome struct {
	Action   string
	ExitCode int
	Err      string
}

// RunRecord summarizes one maintenance run for the journal.
type RunRecord struct {
	ID         string
	Scope      string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []ActionOutcome
}

// RunRecorder persists run records. Recording is best effort; failures
// are logged at debug level and never affect the run.
type RunRecorder interface {
	Record(ctx context.Context, rec RunRecord) error
}

// Options configures optional orchestrator collaborators.
type Options struct {
	// Installer is the resolved installer tri-state forwarded to repair
	// utility invocations.
	Installer TriState
	Updater   PackageDBUpdater
	Journal   RunRecorder
	Locker    Locker
	Logger    *slog.Logger
}

// Orchestrator sequences evaluation, locking, and repair. Construct one
// per process startup; it holds no cross-run state.
type Orchestrator struct {
	env       Environment
	runner    toolrun.Runner
	locker    Locker
	logger    *slog.Logger
	installer TriState
	updater   PackageDBUpdater
	journal   RunRecorder

	clock func() time.Time
}

// New constructs an orchestrator. env and runner are required.
func New(env Environment, runner toolrun.Runner, opts Options) (*Orchestrator, error) {
	if env == nil || runner == nil {
		return nil, errors.New("maintenance orchestrator requires environment and runner")
	}
	locker := opts.Locker
	if locker == nil {
		locker = flockLocker{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Orchestrator{
		env:       env,
		runner:    runner,
		locker:    locker,
		logger:    logger.With(slog.String(logging.FieldComponent, "maintenance")),
		installer: opts.Installer,
		updater:   opts.Updater,
		journal:   opts.Journal,
		clock:     time.Now,
	}, nil
}

// RunIfNeeded evaluates staleness and performs any required repairs.
// It returns ErrSetupRequired for a fresh installation; every other
// condition is handled locally and yields a nil error, with the status
// telling callers whether repairs actually ran. The common path on a
// healthy system is a handful of stat calls and an early return.
func (o *Orchestrator) RunIfNeeded(ctx context.Context) (RunStatus, error) {
	cps, err := o.env.Checkpoints()
	if err != nil {
		o.logger.Warn("cannot read maintenance checkpoints", slog.Any("error", err))
		return StatusSkipped, nil
	}
	arts, err := o.env.Artifacts()
	if err != nil {
		o.logger.Warn("cannot stat maintenance artifacts", slog.Any("error", err))
		return StatusSkipped, nil
	}

	decision := Evaluate(Inputs{
		Checkpoints: cps,
		Artifacts:   arts,
		AdminScope:  o.env.AdminScope(),
		Portable:    o.env.Portable(),
	})
	if decision.FreshInstall {
		return StatusSkipped, ErrSetupRequired
	}
	if decision.Actions.Empty() {
		return StatusUpToDate, nil
	}

	utility, found := o.env.FindRepairUtility()
	if !found {
		// Repairs are opportunistic; a missing utility is not a failure.
		o.logger.Debug("repair utility not found, skipping maintenance",
			slog.Int("pending_actions", decision.Actions.Len()))
		return StatusSkipped, nil
	}

	guard, acquired, err := o.locker.TryAcquire(o.env.LockPath())
	if err != nil {
		o.logger.Warn("maintenance lock unavailable", slog.Any("error", err))
		return StatusSkipped, nil
	}
	if !acquired {
		// Another process is already repairing; it will cover for us.
		o.logger.Debug("maintenance already in progress elsewhere", slog.String("lock", o.env.LockPath()))
		return StatusSkipped, nil
	}
	defer func() {
		if err := guard.Release(); err != nil {
			o.logger.Warn("failed to release maintenance lock", slog.Any("error", err))
		}
	}()

	record := RunRecord{
		ID:        uuid.NewString(),
		Scope:     o.scopeName(),
		StartedAt: o.clock(),
	}

	if decision.Actions.Contains(UpdatePackageDB) {
		record.Outcomes = append(record.Outcomes, o.updatePackageDB(ctx))
	}

	common := o.commonArgs()
	for _, action := range decision.Actions.InOrder() {
		if action == UpdatePackageDB {
			continue
		}
		record.Outcomes = append(record.Outcomes, o.runRepair(ctx, utility, common, action))
	}

	record.FinishedAt = o.clock()
	if o.journal != nil {
		if err := o.journal.Record(ctx, record); err != nil {
			o.logger.Debug("cannot record maintenance run", slog.Any("error", err))
		}
	}
	return StatusRepaired, nil
}

func (o *Orchestrator) updatePackageDB(ctx context.Context) ActionOutcome {
	outcome := ActionOutcome{Action: UpdatePackageDB.String()}
	if o.updater == nil {
		o.logger.Debug("no package database updater configured")
		outcome.Err = "no updater configured"
		return outcome
	}
	o.logger.Info("refreshing user package database from cache")
	if err := o.updater.UpdateFromCache(ctx); err != nil {
		o.logger.Error("package database update failed", slog.Any("error", err))
		outcome.Err = err.Error()
	}
	return outcome
}

func (o *Orchestrator) runRepair(ctx context.Context, utility string, common []string, action Action) ActionOutcome {
	outcome := ActionOutcome{Action: action.String()}
	args := append(append([]string{}, common...), action.UtilityArgs()...)

	o.logger.Info("running repair utility",
		slog.String("action", action.String()),
		slog.String("utility", utility))

	res, err := o.runner.Run(ctx, utility, args)
	if err != nil {
		o.logger.Error("repair utility could not be started",
			slog.String("action", action.String()),
			slog.String("utility", utility),
			slog.Any("error", err))
		outcome.Err = err.Error()
		return outcome
	}
	outcome.ExitCode = res.ExitCode
	if res.ExitCode != 0 {
		o.logger.Error("repair utility exited with an error",
			slog.String("action", action.String()),
			slog.Int("exit_code", res.ExitCode),
			slog.String("output", res.Output))
	}
	return outcome
}

// commonArgs builds the flag set shared by all repair invocations: the
// installer tri-state carried over from this process, the admin flag
// when running in admin scope, and quiet to suppress nested output.
func (o *Orchestrator) commonArgs() []string {
	var args []string
	switch o.installer {
	case True:
		args = append(args, "--enable-installer")
	case False:
		args = append(args, "--disable-installer")
	case Undetermined:
	}
	if o.env.AdminScope() {
		args = append(args, "--admin")
	}
	args = append(args, "--quiet")
	return args
}

func (o *Orchestrator) scopeName() string {
	if o.env.AdminScope() {
		return "admin"
	}
	return "user"
}

// flockLocker is the default Locker backed by OS advisory file locks.
type flockLocker struct{}

func (flockLocker) TryAcquire(path string) (Releaser, bool, error) {
	guard, ok, err := lockfile.TryAcquire(path)
	if guard == nil {
		return nil, ok, err
	}
	return guard, ok, err
}
