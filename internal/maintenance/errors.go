package maintenance

import "errors"

// ErrSetupRequired reports a fresh, unconfigured installation. It is the
// only error the maintenance subsystem ever surfaces to the hosting
// tool; the caller should print SetupMessage and terminate with a
// non-zero status.
var ErrSetupRequired = errors.New("setup required: this looks like a fresh installation")

// SetupMessage is the user-facing text for ErrSetupRequired.
const SetupMessage = `It seems that this is a fresh texkit installation.
Please finish the setup before proceeding.
Run "texkit config --help" to review the configuration.`
