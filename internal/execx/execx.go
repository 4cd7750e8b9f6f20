// Package execx abstracts external command execution so collaborator
// packages (tailscale CLI wrappers) can be unit-tested without a real
// binary on the host.
package execx

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Runner executes a command and returns its combined trimmed output.
// Implementations must honor ctx cancellation.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// OSRunner executes commands on the host via os/exec.
type OSRunner struct{}

func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

func (r *OSRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	out := strings.TrimSpace(buf.String())
	if err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		return out, err
	}
	return out, nil
}

// Func adapts a plain function to the Runner interface; used by tests to
// fake external tool output.
type Func func(ctx context.Context, name string, args ...string) (string, error)

func (f Func) Output(ctx context.Context, name string, args ...string) (string, error) {
	return f(ctx, name, args...)
}
