package maintenance

// TriState represents an optional boolean whose default has not been
// decided yet. Undetermined values are resolved to a concrete state
// exactly once, at wiring time, from configuration; the orchestrator
// never re-resolves mid-run.
type TriState uint8

const (
	Undetermined TriState = iota
	False
	True
)

func (t TriState) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "undetermined"
	}
}

// ResolveTriState maps a configuration string ("yes"/"no"/empty) to a
// TriState.
func ResolveTriState(value string) TriState {
	switch value {
	case "yes", "true", "t", "1":
		return True
	case "no", "false", "f", "0":
		return False
	default:
		return Undetermined
	}
}
