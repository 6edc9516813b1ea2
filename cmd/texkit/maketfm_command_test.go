package main

import (
	"os"
	"path/filepath"
	"testing"

	"texkit/internal/testsupport"
)

func TestMakeTFMPrintOnly(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithMaintenanceDisabled())

	out, _, err := runCLI(t, []string{"maketfm", "--print-only", "cmr10"}, env.configPath)
	if err != nil {
		t.Fatalf("maketfm --print-only: %v", err)
	}
	requireContains(t, out, "cmr10.tfm")
}

func TestMakeTFMBuildsFromMetafontSource(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithMaintenanceDisabled())

	// A source file on disk routes the build straight to mf; the stub
	// drops the metric file in its working directory like the real tool.
	sourcePath := filepath.Join(env.cfg.Paths.InstallRoot, "fonts", "source", "cmr10.mf")
	testsupport.WriteScript(t, sourcePath, "% metafont source\n")
	binDir := testsupport.StubBinaries(t, "mf")
	testsupport.WriteScript(t, filepath.Join(binDir, "mf"),
		"#!/bin/sh\necho metrics > cmr10.tfm\nexit 0\n")

	out, _, err := runCLI(t, []string{"maketfm", "cmr10"}, env.configPath)
	if err != nil {
		t.Fatalf("maketfm: %v", err)
	}

	wantPath := filepath.Join(env.cfg.Paths.UserDataDir, "fonts", "tfm", "public", "misc", "cmr10.tfm")
	if _, err := os.Stat(wantPath); err != nil {
		t.Fatalf("expected installed TFM at %s: %v", wantPath, err)
	}
	requireContains(t, out, wantPath)
}

func TestMakeTFMExistingDestination(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithMaintenanceDisabled())

	destPath := filepath.Join(env.cfg.Paths.UserDataDir, "fonts", "tfm", "public", "misc", "cmr10.tfm")
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(destPath, []byte("metrics"), 0o644); err != nil {
		t.Fatalf("write tfm: %v", err)
	}

	// No toolchain stubs exist, so a cache hit is the only way this passes.
	out, _, err := runCLI(t, []string{"maketfm", "cmr10"}, env.configPath)
	if err != nil {
		t.Fatalf("maketfm with existing TFM: %v", err)
	}
	requireContains(t, out, destPath)
}
