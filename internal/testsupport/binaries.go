package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// StubBinaries creates executable shell stubs for the named programs in
// a temp directory and prepends it to PATH for the test's duration.
// Each stub exits zero. The directory path is returned so tests can
// inspect or replace individual stubs.
func StubBinaries(t testing.TB, names ...string) string {
	t.Helper()

	binDir := t.TempDir()
	for _, name := range names {
		WriteScript(t, filepath.Join(binDir, name), "#!/bin/sh\nexit 0\n")
	}

	oldPath := os.Getenv("PATH")
	newPath := binDir
	if oldPath != "" {
		newPath = binDir + string(os.PathListSeparator) + oldPath
	}
	t.Setenv("PATH", newPath)
	return binDir
}

// WriteScript writes an executable script at path, creating parent
// directories as needed.
func WriteScript(t testing.TB, path, body string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
