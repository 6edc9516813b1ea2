package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	results := CheckBinaries([]Requirement{{Name: "Blank", Command: "  "}})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Available {
		t.Fatal("expected blank command to be unavailable")
	}
	if results[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %s", results[0].Detail)
	}
}

func TestToolchainUsesConfiguredRepairUtility(t *testing.T) {
	reqs := Toolchain("mytexutil")
	if len(reqs) == 0 {
		t.Fatal("expected toolchain requirements")
	}
	if reqs[0].Command != "mytexutil" {
		t.Fatalf("expected repair utility command mytexutil, got %s", reqs[0].Command)
	}
	if reqs[0].Optional {
		t.Fatal("repair utility must not be optional")
	}
	for _, req := range reqs[1:] {
		if !req.Optional {
			t.Fatalf("expected %s to be optional", req.Name)
		}
	}
}

func TestCheckRepairUtilityInstallRoot(t *testing.T) {
	root := t.TempDir()
	binDir := filepath.Join(root, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	utilityPath := filepath.Join(binDir, executableName("texutil"))
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(utilityPath, script, 0o755); err != nil {
		t.Fatalf("write utility stub: %v", err)
	}

	status := CheckRepairUtility(root, "texutil")
	if !status.Available {
		t.Fatalf("expected repair utility to be available, got detail %q", status.Detail)
	}
	if status.Command != utilityPath {
		t.Fatalf("expected command %q, got %q", utilityPath, status.Command)
	}
}

func TestCheckRepairUtilityPathFallback(t *testing.T) {
	tmp := t.TempDir()
	binDir := filepath.Join(tmp, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	utilityPath := filepath.Join(binDir, executableName("texutil"))
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(utilityPath, script, 0o755); err != nil {
		t.Fatalf("write utility stub: %v", err)
	}
	oldPath := os.Getenv("PATH")
	newPath := binDir
	if oldPath != "" {
		newPath = binDir + string(os.PathListSeparator) + oldPath
	}
	t.Setenv("PATH", newPath)

	status := CheckRepairUtility(filepath.Join(tmp, "empty-root"), "texutil")
	if !status.Available {
		t.Fatalf("expected PATH fallback to succeed, got detail %q", status.Detail)
	}
	if status.Command != utilityPath {
		t.Fatalf("expected command %q, got %q", utilityPath, status.Command)
	}
}

func TestCheckRepairUtilityNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	status := CheckRepairUtility(t.TempDir(), "texutil")
	if status.Available {
		t.Fatal("expected resolution to fail")
	}
	if status.Detail == "" {
		t.Fatal("expected detail message when the utility is unavailable")
	}
}
