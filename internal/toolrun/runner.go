// Package toolrun executes external toolchain programs with captured
// output. It distinguishes "the program could not be started" (returned
// as an error) from "the program ran and exited non-zero" (returned as a
// Result), because callers treat the two very differently.
package toolrun

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

var commandContext = exec.CommandContext

const defaultMaxOutput = 64 * 1024

// Result describes a completed subprocess.
type Result struct {
	ExitCode int
	// Output is the combined stdout and stderr, capped at the runner's
	// output limit.
	Output string
}

// Runner executes an external program. Implementations must return an
// error only when the process never started.
type Runner interface {
	Run(ctx context.Context, program string, args []string) (Result, error)
}

// ExecRunner runs programs via os/exec.
type ExecRunner struct {
	// Dir is the working directory for spawned processes; empty means
	// the caller's working directory.
	Dir string
	// MaxOutput caps captured output bytes; zero selects the default.
	MaxOutput int
}

// Run starts program with args and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, program string, args []string) (Result, error) {
	limit := r.MaxOutput
	if limit <= 0 {
		limit = defaultMaxOutput
	}
	buf := &cappedBuffer{limit: limit}

	cmd := commandContext(ctx, program, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = buf
	cmd.Stderr = buf

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("start %s: %w", program, err)
	}

	err := cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{ExitCode: exitErr.ExitCode(), Output: buf.String()}, nil
		}
		return Result{}, fmt.Errorf("wait for %s: %w", program, err)
	}
	return Result{ExitCode: 0, Output: buf.String()}, nil
}

// InDir returns a runner whose processes start in dir. Runners that do
// not support working directories are returned unchanged.
func InDir(r Runner, dir string) Runner {
	if execRunner, ok := r.(*ExecRunner); ok {
		scoped := *execRunner
		scoped.Dir = dir
		return &scoped
	}
	return r
}

type cappedBuffer struct {
	limit int
	data  []byte
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remaining := b.limit - len(b.data)
	if remaining > 0 {
		if len(p) > remaining {
			b.data = append(b.data, p[:remaining]...)
		} else {
			b.data = append(b.data, p...)
		}
	}
	// Report full consumption so the subprocess never blocks on a full pipe.
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return string(b.data)
}

var _ Runner = (*ExecRunner)(nil)
