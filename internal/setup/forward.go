// Package setup forwards arguments to the external setup_solver
// operation. The forwarder is pure pass-through: it loads an environment
// file for the child, appends the caller's argv verbatim and propagates
// the child's exit status without interpreting anything.
package setup

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/HesslerY/Newton-Krylov-OOC/internal/config"
	"github.com/HesslerY/Newton-Krylov-OOC/internal/solver"
)

// Forwarder invokes the setup tool.
type Forwarder struct {
	// Argv is the setup command prefix from config.
	Argv []string

	// EnvFname is the optional environment file applied to the child.
	EnvFname string

	// Env is the execution context; entries already in Env.Extra win
	// over env-file entries.
	Env solver.ExecContext

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Forward runs the setup tool with the caller-supplied arguments
// appended unchanged, including the empty vector. It returns the child's
// exit code; err is non-nil only when the child could not be run at all.
func (f *Forwarder) Forward(ctx context.Context, args []string) (int, error) {
	if len(f.Argv) == 0 {
		return 1, fmt.Errorf("setup command not configured")
	}

	env := f.Env
	if f.EnvFname != "" {
		fileEnv, err := config.LoadEnvFile(f.EnvFname)
		if err != nil {
			return 1, fmt.Errorf("failed to load env file: %w", err)
		}
		merged := make(map[string]string, len(fileEnv)+len(env.Extra))
		for k, v := range fileEnv {
			merged[k] = v
		}
		for k, v := range env.Extra {
			merged[k] = v
		}
		env.Extra = merged
	}

	argv := append([]string{}, f.Argv...)
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = env.Environ()
	cmd.Stdin = f.Stdin
	cmd.Stdout = f.Stdout
	cmd.Stderr = f.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("setup failed to start: %w", err)
	}
	return 0, nil
}
