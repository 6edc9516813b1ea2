// Package lockfile provides the cross-process mutual-exclusion primitive
// used to serialize auto-maintenance. Locks are advisory OS file locks,
// so they exclude other processes, not just other goroutines.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// Guard is a held lock. Release is idempotent and must be called on every
// exit path; callers typically defer it immediately after acquisition.
type Guard struct {
	mu       sync.Mutex
	fl       *flock.Flock
	released bool
}

// Release drops the lock. Calling it more than once is a no-op.
func (g *Guard) Release() error {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return nil
	}
	g.released = true
	return g.fl.Unlock()
}

// Path returns the lock file path.
func (g *Guard) Path() string {
	return g.fl.Path()
}

// TryAcquire attempts a non-blocking acquisition of the lock at path.
// It returns (guard, true, nil) on success, (nil, false, nil) when the
// lock is held elsewhere, and an error only when the attempt itself
// failed (for example, the lock directory cannot be created).
func TryAcquire(path string) (*Guard, bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, fmt.Errorf("create lock directory: %w", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, false, nil
	}
	return &Guard{fl: fl}, true, nil
}
