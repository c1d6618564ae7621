package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/HesslerY/Newton-Krylov-OOC/internal/config"
	"github.com/HesslerY/Newton-Krylov-OOC/internal/setup"
	"github.com/HesslerY/Newton-Krylov-OOC/internal/solver"
)

var setupCmd = &cobra.Command{
	Use:   "setup [solver args...]",
	Short: "Forward arguments to the external setup_solver tool",
	Long: `Loads the solver environment file and invokes the configured setup
command with all arguments passed through unchanged. The setup tool's
exit status is propagated as nkooc's own.

Flag parsing is disabled for this command so that flags intended for the
setup tool are never interpreted here; even --help reaches the setup
tool. Use 'nkooc help setup' for this text. The harness config is read
from newton_krylov.yaml, or from the NKOOC_CONFIG environment variable.`,
	DisableFlagParsing: true,
	RunE:               runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// --config is unavailable with flag parsing disabled; fall back to
	// the env var, then the default path. A missing file is fine here.
	cfg, err := config.LoadOrDefault(os.Getenv("NKOOC_CONFIG"))
	if err != nil {
		return err
	}

	f := &setup.Forwarder{
		Argv:     cfg.Commands.Setup,
		EnvFname: cfg.Env.EnvFname,
		Env: solver.ExecContext{
			PathVar: cfg.Env.PathVar,
			Paths:   cfg.Env.Paths,
		},
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}

	code, err := f.Forward(ctx, args)
	if err != nil {
		return err
	}
	if code != 0 {
		return &solver.ExitError{Tool: "setup_solver", Code: code}
	}
	return nil
}
