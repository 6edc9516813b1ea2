package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, env.configPath); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigSetGetListDigest(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"config", "set", "core", "paper", "a4"}, env.configPath); err != nil {
		t.Fatalf("config set: %v", err)
	}

	out, _, err := runCLI(t, []string{"config", "get", "core", "paper"}, env.configPath)
	if err != nil {
		t.Fatalf("config get: %v", err)
	}
	requireContains(t, out, "a4")

	out, _, err = runCLI(t, []string{"config", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("config list: %v", err)
	}
	requireContains(t, out, "paper")
	requireContains(t, out, "a4")

	digest1, _, err := runCLI(t, []string{"config", "digest"}, env.configPath)
	if err != nil {
		t.Fatalf("config digest: %v", err)
	}
	// Rewriting the same value restamps the change time but must not
	// change the content digest.
	if _, _, err := runCLI(t, []string{"config", "set", "core", "paper", "a4"}, env.configPath); err != nil {
		t.Fatalf("config set again: %v", err)
	}
	digest2, _, err := runCLI(t, []string{"config", "digest"}, env.configPath)
	if err != nil {
		t.Fatalf("config digest again: %v", err)
	}
	if digest1 != digest2 {
		t.Fatalf("digest changed: %q vs %q", digest1, digest2)
	}
}

func TestConfigGetMissingValue(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"config", "get", "core", "nosuchkey"}, env.configPath); err == nil {
		t.Fatal("expected error for missing value")
	}
}

func TestConfigSetAdminScope(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"--admin", "config", "set", "core", "shared", "yes"}, env.configPath); err != nil {
		t.Fatalf("admin config set: %v", err)
	}

	// The value lives in the shared store, not the user one.
	if _, _, err := runCLI(t, []string{"config", "get", "core", "shared"}, env.configPath); err == nil {
		t.Fatal("expected user-scope get to miss an admin-scope value")
	}
	out, _, err := runCLI(t, []string{"--admin", "config", "get", "core", "shared"}, env.configPath)
	if err != nil {
		t.Fatalf("admin config get: %v", err)
	}
	requireContains(t, out, "yes")
}
