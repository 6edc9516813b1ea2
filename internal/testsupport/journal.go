package testsupport

import (
	"testing"

	"texkit/internal/config"
	"texkit/internal/history"
)

// MustOpenJournal opens the maintenance journal for tests and registers
// cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
