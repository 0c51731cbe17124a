package gitgen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes version-control commands. The default implementation
// shells out to a git binary; tests swap in a recorder.
type Runner interface {
	// Run executes git with args, appending extraEnv to the process
	// environment.
	Run(ctx context.Context, extraEnv []string, args ...string) error
	// Output executes git with args and returns trimmed stdout.
	Output(ctx context.Context, args ...string) (string, error)
}

// ExecRunner invokes a git binary in a working directory.
type ExecRunner struct {
	Bin string // git binary, "git" when empty
	Dir string // working directory, the process cwd when empty
}

func (r *ExecRunner) bin() string {
	if r.Bin == "" {
		return "git"
	}
	return r.Bin
}

func (r *ExecRunner) Run(ctx context.Context, extraEnv []string, args ...string) error {
	cmd := exec.CommandContext(ctx, r.bin(), args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), extraEnv...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (r *ExecRunner) Output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.bin(), args...)
	cmd.Dir = r.Dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}
