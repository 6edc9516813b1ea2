// Package packagedb rebuilds the per-user package index from the cached
// package manifests. This is the in-process counterpart of the external
// repair actions: an administrator updating the shared package database
// leaves the per-user index stale, and the cheapest fix is to rebuild it
// from the manifests already on disk rather than spawn a subprocess.
package packagedb

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"texkit/internal/cfgfile"
	"texkit/internal/logging"
)

// Updater rebuilds the user package index from cached manifests.
type Updater struct {
	// ManifestsPath is the shared, administrator-maintained manifests file.
	ManifestsPath string
	// IndexPath is the per-user index derived from it.
	IndexPath string

	Logger *slog.Logger
}

// UpdateFromCache regenerates the user index. The manifests file must
// exist; staleness evaluation only requests this update when it does.
func (u *Updater) UpdateFromCache(ctx context.Context) error {
	logger := u.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	if _, err := os.Stat(u.ManifestsPath); err != nil {
		return fmt.Errorf("package manifests unavailable: %w", err)
	}
	manifests, err := cfgfile.Load(u.ManifestsPath)
	if err != nil {
		return fmt.Errorf("load package manifests: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	index := cfgfile.New(u.IndexPath)
	for _, section := range manifests.Sections() {
		for _, value := range section.Values() {
			index.Put(section.Name, value.Key, value.Value)
		}
	}
	index.Put("_index", "source_digest", manifests.Digest())

	if err := index.Write(); err != nil {
		return fmt.Errorf("write package index: %w", err)
	}
	logger.Info("package index rebuilt",
		slog.String("index", u.IndexPath),
		slog.Int("packages", len(manifests.Sections())))
	return nil
}
