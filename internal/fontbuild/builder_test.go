package fontbuild

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"texkit/internal/toolrun"
)

type fakeRunner struct {
	calls     [][]string
	exitCodes map[string]int
}

func (f *fakeRunner) Run(_ context.Context, program string, args []string) (toolrun.Result, error) {
	f.calls = append(f.calls, append([]string{program}, args...))
	return toolrun.Result{ExitCode: f.exitCodes[program]}, nil
}

type fakeFonts struct {
	supplier, typeface string
	known              bool
}

func (f fakeFonts) FontInfo(string) (string, string, bool) {
	return f.supplier, f.typeface, f.known
}

type fakeFinder struct {
	path  string
	found bool
}

func (f fakeFinder) FindFontSource(string) (string, bool) {
	return f.path, f.found
}

func newTestBuilder(t *testing.T, runner toolrun.Runner, finder SourceFinder, fonts FontInfoResolver) (*Builder, string) {
	t.Helper()
	destRoot := t.TempDir()
	b, err := New(Options{
		DestDirTemplate: filepath.Join(destRoot, "fonts", "tfm", "%s", "%t"),
		Runner:          runner,
		Finder:          finder,
		Fonts:           fonts,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return b, destRoot
}

func programs(calls [][]string) []string {
	names := make([]string, 0, len(calls))
	for _, call := range calls {
		names = append(names, call[0])
	}
	return names
}

func TestBuildRunsMetafontWhenSourceExists(t *testing.T) {
	runner := &fakeRunner{}
	b, _ := newTestBuilder(t, runner, fakeFinder{path: "/tex/cmr10.mf", found: true}, fakeFonts{})

	_, err := b.Build(context.Background(), "cmr10")
	if err == nil {
		t.Fatal("expected install failure without a staged TFM")
	}
	got := programs(runner.calls)
	if len(got) != 1 || got[0] != "mf" {
		t.Fatalf("expected a single mf invocation, got %v", got)
	}
	if !strings.Contains(runner.calls[0][1], "input cmr10") {
		t.Fatalf("mf program line missing input clause: %q", runner.calls[0][1])
	}
	if !strings.Contains(runner.calls[0][1], `\mode:=ljfour`) {
		t.Fatalf("mf program line missing mode: %q", runner.calls[0][1])
	}
}

func TestBuildPrintOnly(t *testing.T) {
	runner := &fakeRunner{}
	b, _ := newTestBuilder(t, runner, fakeFinder{}, fakeFonts{})
	b.opts.PrintOnly = true

	if _, err := b.Build(context.Background(), "logo10"); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("print-only mode must not execute tools, got %v", programs(runner.calls))
	}
}

func TestBuildFallsBackToHBF(t *testing.T) {
	runner := &fakeRunner{exitCodes: map[string]int{"makemf": 1}}
	b, _ := newTestBuilder(t, runner, fakeFinder{}, fakeFonts{})

	_, err := b.Build(context.Background(), "gbksong")
	if err == nil {
		t.Fatal("expected install failure without a staged TFM")
	}
	got := programs(runner.calls)
	want := []string{"makemf", "hbf2gf", "pltotf"}
	if len(got) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d = %s, want %s", i, got[i], want[i])
		}
	}

	hbfArgs := runner.calls[1][1:]
	if hbfArgs[0] != "-g" || hbfArgs[1] != "gbksong" || hbfArgs[2] != "300" {
		t.Fatalf("unexpected hbf2gf arguments: %v", hbfArgs)
	}
	plArgs := runner.calls[2][1:]
	if plArgs[0] != "gbksong.pl" || plArgs[1] != "gbksong.tfm" {
		t.Fatalf("unexpected pltotf arguments: %v", plArgs)
	}
}

func TestBuildNoCreationRule(t *testing.T) {
	runner := &fakeRunner{exitCodes: map[string]int{"makemf": 1, "hbf2gf": 1}}
	b, _ := newTestBuilder(t, runner, fakeFinder{}, fakeFonts{})

	_, err := b.Build(context.Background(), "nosuchfont")
	if err == nil || !strings.Contains(err.Error(), "no creation rule") {
		t.Fatalf("expected no-creation-rule error, got %v", err)
	}
}

func TestBuildPltotfFailureIsFatal(t *testing.T) {
	runner := &fakeRunner{exitCodes: map[string]int{"makemf": 1, "pltotf": 1}}
	b, _ := newTestBuilder(t, runner, fakeFinder{}, fakeFonts{})

	_, err := b.Build(context.Background(), "gbksong")
	if err == nil || !strings.Contains(err.Error(), "pltotf failed") {
		t.Fatalf("expected pltotf failure, got %v", err)
	}
}

func TestBuildSkipsExistingDestination(t *testing.T) {
	runner := &fakeRunner{}
	b, destRoot := newTestBuilder(t, runner, fakeFinder{found: true}, fakeFonts{supplier: "ams", typeface: "symbols", known: true})

	destDir := filepath.Join(destRoot, "fonts", "tfm", "ams", "symbols")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	destPath := filepath.Join(destDir, "msam10.tfm")
	if err := os.WriteFile(destPath, []byte("tfm"), 0o644); err != nil {
		t.Fatalf("write existing tfm: %v", err)
	}

	got, err := b.Build(context.Background(), "msam10")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got != destPath {
		t.Fatalf("expected %s, got %s", destPath, got)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no tool invocations, got %v", programs(runner.calls))
	}
}

func TestBuildDefaultsSupplierAndTypeface(t *testing.T) {
	runner := &fakeRunner{exitCodes: map[string]int{"makemf": 1, "hbf2gf": 1}}
	b, destRoot := newTestBuilder(t, runner, fakeFinder{}, fakeFonts{})

	_, _ = b.Build(context.Background(), "unknownfont")

	wantDir := filepath.Join(destRoot, "fonts", "tfm", "public", "misc")
	if _, err := os.Stat(wantDir); err != nil {
		t.Fatalf("expected destination directory %s: %v", wantDir, err)
	}
}

func TestBuildRejectsBadNames(t *testing.T) {
	runner := &fakeRunner{}
	b, _ := newTestBuilder(t, runner, fakeFinder{}, fakeFonts{})

	for _, name := range []string{"", "  ", "../evil", `sub\dir`} {
		if _, err := b.Build(context.Background(), name); err == nil {
			t.Errorf("expected error for font name %q", name)
		}
	}
}

func TestExpandTemplate(t *testing.T) {
	cases := []struct {
		tmpl string
		want string
	}{
		{"/tfm/%s/%t", "/tfm/public/misc"},
		{"%s-%t", "public-misc"},
		{"%%s", "%s"},
		{"plain", "plain"},
		{"trailing%", "trailing%"},
	}
	for _, tc := range cases {
		if got := expandTemplate(tc.tmpl, "public", "misc"); got != tc.want {
			t.Errorf("expandTemplate(%q) = %q, want %q", tc.tmpl, got, tc.want)
		}
	}
}
