// Package scriptrun dispatches registered maintenance scripts to their
// interpreter. Scripts are registered per engine in a registry file;
// the runner resolves the engine binary, assembles the option chain,
// and reports the script's exit code.
package scriptrun

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"texkit/internal/cfgfile"
	"texkit/internal/logging"
	"texkit/internal/toolrun"
)

var lookPath = exec.LookPath

// Script describes one registry entry.
type Script struct {
	Path          string
	EngineOptions []string
	Options       []string
}

// Runner executes registered scripts.
type Runner struct {
	registryPath string
	runner       toolrun.Runner
	logger       *slog.Logger
}

// New returns a Runner reading its registry from registryPath.
func New(registryPath string, runner toolrun.Runner, logger *slog.Logger) (*Runner, error) {
	if strings.TrimSpace(registryPath) == "" {
		return nil, fmt.Errorf("scriptrun: registry path is required")
	}
	if runner == nil {
		return nil, fmt.Errorf("scriptrun: runner is required")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{
		registryPath: registryPath,
		runner:       runner,
		logger:       logger.With(slog.String(logging.FieldComponent, "scriptrun")),
	}, nil
}

// Lookup reads the registry entry for engine and name.
//
// The registry groups scripts by engine section. The script path lives
// under the bare name; optional interpreter and script options live
// under "<name>.<engine>.options" and "<name>.options", split on
// whitespace.
func (r *Runner) Lookup(engine, name string) (Script, error) {
	registry, err := cfgfile.Load(r.registryPath)
	if err != nil {
		return Script{}, fmt.Errorf("read script registry: %w", err)
	}
	path, ok := registry.TryGet(engine, name)
	if !ok || strings.TrimSpace(path) == "" {
		return Script{}, fmt.Errorf("no %s script registered under %q", engine, name)
	}
	script := Script{Path: strings.TrimSpace(path)}
	if raw, ok := registry.TryGet(engine, name+"."+engine+".options"); ok {
		script.EngineOptions = strings.Fields(raw)
	}
	if raw, ok := registry.TryGet(engine, name+".options"); ok {
		script.Options = strings.Fields(raw)
	}
	return script, nil
}

// Run executes the script registered for engine and name with the
// given extra arguments and returns the script's exit code.
func (r *Runner) Run(ctx context.Context, engine, name string, args []string) (int, error) {
	script, err := r.Lookup(engine, name)
	if err != nil {
		return 0, err
	}

	enginePath, err := lookPath(engine)
	if err != nil {
		return 0, fmt.Errorf("script engine %q not found: %w", engine, err)
	}

	var cmdline []string
	cmdline = append(cmdline, script.EngineOptions...)
	if engine == "perl" {
		// Perl scripts commonly carry their modules next to the script.
		cmdline = append(cmdline, "-I"+filepath.Dir(script.Path))
	}
	cmdline = append(cmdline, script.Path)
	cmdline = append(cmdline, script.Options...)
	cmdline = append(cmdline, args...)

	r.logger.Debug("running script",
		slog.String("engine", enginePath),
		slog.String("script", script.Path))

	result, err := r.runner.Run(ctx, enginePath, cmdline)
	if err != nil {
		return 0, err
	}
	return result.ExitCode, nil
}
