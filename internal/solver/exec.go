package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/HesslerY/Newton-Krylov-OOC/internal/artifact"
)

// ExitError reports a tool that ran and exited non-zero. The code is
// preserved so callers can propagate it.
type ExitError struct {
	Tool string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Tool, e.Code)
}

// ExitCode maps an error chain to a process exit code: 0 for nil, the
// tool's own code for ExitError, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// ExecModule invokes the solver module as a child process, one
// sub-command per call. Argv is the command prefix from config
// (e.g. ["python3", "-m", "nk_ooc.newton_fcn"]).
type ExecModule struct {
	Argv     []string
	FnameDir string
	CfgFname string
	Env      ExecContext

	// Stdout and Stderr receive the tool's output. Nil means the
	// harness's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// CompFcn runs the comp_fcn sub-command.
func (m *ExecModule) CompFcn(ctx context.Context, set artifact.Set) error {
	return m.run(ctx, "comp_fcn",
		"--hist_fname", set.Hist,
		"--in_fname", set.Iterate,
		"--res_fname", set.FcnEval,
	)
}

// GenPrecondJacobian runs the gen_precond_jacobian sub-command.
func (m *ExecModule) GenPrecondJacobian(ctx context.Context, set artifact.Set) error {
	return m.run(ctx, "gen_precond_jacobian",
		"--hist_fname", set.Hist,
		"--in_fname", set.Iterate,
		"--precond_fname", set.Precond,
	)
}

// ApplyPrecondJacobian runs the apply_precond_jacobian sub-command.
func (m *ExecModule) ApplyPrecondJacobian(ctx context.Context, set artifact.Set) error {
	return m.run(ctx, "apply_precond_jacobian",
		"--in_fname", set.FcnEval,
		"--precond_fname", set.Precond,
		"--res_fname", set.Correction,
	)
}

// run executes one solver sub-command and waits for it to exit.
func (m *ExecModule) run(ctx context.Context, subCmd string, fnameArgs ...string) error {
	if len(m.Argv) == 0 {
		return fmt.Errorf("solver command not configured")
	}

	args := append([]string{}, m.Argv[1:]...)
	args = append(args, subCmd,
		"--fname_dir", m.FnameDir,
		"--cfg_fname", m.CfgFname,
	)
	args = append(args, fnameArgs...)

	cmd := exec.CommandContext(ctx, m.Argv[0], args...)
	cmd.Env = m.Env.Environ()
	cmd.Stdout = m.Stdout
	cmd.Stderr = m.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &ExitError{Tool: subCmd, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("%s failed to start: %w", subCmd, err)
	}
	return nil
}

// ExecReducer invokes the external time-series reduction tool. Argv is
// the command prefix from config (e.g. ["ncks", "-O", "-d", "time,-1"]);
// the history path and output path are appended, matching the tool's
// positional input/output convention.
type ExecReducer struct {
	Argv []string
	Env  ExecContext

	Stdout io.Writer
	Stderr io.Writer
}

// LastTimeSlice extracts the final time record of histPath into outPath.
func (r *ExecReducer) LastTimeSlice(ctx context.Context, histPath, outPath string) error {
	if len(r.Argv) == 0 {
		return fmt.Errorf("reducer command not configured")
	}

	args := append([]string{}, r.Argv[1:]...)
	args = append(args, histPath, outPath)

	cmd := exec.CommandContext(ctx, r.Argv[0], args...)
	cmd.Env = r.Env.Environ()
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &ExitError{Tool: "reducer", Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("reducer failed to start: %w", err)
	}
	return nil
}
