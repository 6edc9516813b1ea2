// Package maintenance implements the startup auto-maintenance core: it
// decides whether cached system artifacts (file-name database, package
// database, font maps, language tables) are stale relative to the last
// administrator or user maintenance pass, and if so performs a one-shot
// repair through the external repair utility, serialized across
// processes by a non-blocking file lock.
//
// The decision logic lives in Evaluate, a pure function, so it can be
// tested against arbitrary checkpoint and timestamp combinations. The
// Orchestrator wires it to the filesystem, the lock, and the subprocess
// runner; its RunIfNeeded is safe and cheap to call on every process
// startup. Repairs are opportunistic: every failure short of a fresh,
// unconfigured installation is logged and swallowed so the hosting tool
// can still attempt its real work.
package maintenance
