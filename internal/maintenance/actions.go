package maintenance

// Action is one unit of repair work. The declaration order is the
// execution order: the package database update must complete before the
// file-name database refresh, which in turn must precede font map
// generation. Language table configuration has no ordering constraint
// but runs within the same lock scope.
type Action uint8

const (
	UpdatePackageDB Action = iota
	RefreshFileDatabase
	ConfigureFontMaps
	ConfigureLanguageTables

	actionCount
)

func (a Action) String() string {
	switch a {
	case UpdatePackageDB:
		return "update-package-db"
	case RefreshFileDatabase:
		return "refresh-fndb"
	case ConfigureFontMaps:
		return "configure-fontmaps"
	case ConfigureLanguageTables:
		return "configure-languages"
	default:
		return "unknown"
	}
}

// UtilityArgs returns the repair-utility subcommand for the action, or
// nil for actions handled in-process.
func (a Action) UtilityArgs() []string {
	switch a {
	case RefreshFileDatabase:
		return []string{"fndb", "refresh"}
	case ConfigureFontMaps:
		return []string{"fontmaps", "configure"}
	case ConfigureLanguageTables:
		return []string{"languages", "configure"}
	default:
		return nil
	}
}

// ActionSet is a small set of repair actions.
type ActionSet struct {
	bits uint8
}

// Add inserts a into the set.
func (s *ActionSet) Add(a Action) {
	s.bits |= 1 << a
}

// Contains reports whether a is in the set.
func (s ActionSet) Contains(a Action) bool {
	return s.bits&(1<<a) != 0
}

// Empty reports whether no action is required.
func (s ActionSet) Empty() bool {
	return s.bits == 0
}

// Len returns the number of actions in the set.
func (s ActionSet) Len() int {
	n := 0
	for a := Action(0); a < actionCount; a++ {
		if s.Contains(a) {
			n++
		}
	}
	return n
}

// InOrder returns the set's actions in execution order.
func (s ActionSet) InOrder() []Action {
	actions := make([]Action, 0, s.Len())
	for a := Action(0); a < actionCount; a++ {
		if s.Contains(a) {
			actions = append(actions, a)
		}
	}
	return actions
}

// withDependencies computes the dependency closure of the set: an action
// whose output feeds another pulls that consumer in. Font map generation
// reads the file-name database, so a database refresh implies it.
func (s ActionSet) withDependencies() ActionSet {
	out := s
	if out.Contains(RefreshFileDatabase) {
		out.Add(ConfigureFontMaps)
	}
	return out
}
