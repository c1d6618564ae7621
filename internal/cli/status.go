package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/HesslerY/Newton-Krylov-OOC/internal/config"
	"github.com/HesslerY/Newton-Krylov-OOC/internal/journal"
)

// readJournal loads the run journal from a working directory. It can be
// overridden in tests.
var readJournal = journal.Read

var statusCmd = &cobra.Command{
	Use:   "status [workdir]",
	Short: "Show the journal of a fixed-point run",
	Long: `Reads the run journal from a working directory and prints per-step
outcomes. Without arguments the configured working directory is used.

Failed runs keep their partial artifacts, so the journal plus the
working directory contents are the post-mortem record of where the run
stopped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	workdir := ""
	if len(args) == 1 {
		workdir = args[0]
	} else {
		cfg, err := config.LoadOrDefault(rootConfigFname)
		if err != nil {
			return err
		}
		workdir = cfg.Run.Workdir
	}

	run, err := readJournal(workdir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:     %s\n", run.RunID)
	fmt.Fprintf(out, "Model:   %s\n", run.Model)
	fmt.Fprintf(out, "FPCnt:   %d\n", run.FPCnt)
	fmt.Fprintf(out, "Started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "Status:  %s\n\n", colorRunStatus(run.Status))

	if len(run.Steps) == 0 {
		fmt.Fprintln(out, "No steps recorded.")
		return nil
	}

	nameWidth := len("STEP")
	statusWidth := len("STATUS")
	for _, step := range run.Steps {
		if len(step.Name) > nameWidth {
			nameWidth = len(step.Name)
		}
		if len(step.Status) > statusWidth {
			statusWidth = len(step.Status)
		}
	}

	fmt.Fprintf(out, "%-6s  %-*s  %-*s  %s\n", "FP_IND", nameWidth, "STEP", statusWidth, "STATUS", "ERROR")
	for _, step := range run.Steps {
		errText := strings.TrimSpace(step.Error)
		// Pad before colorizing; escape bytes would count toward %-*s.
		pad := strings.Repeat(" ", statusWidth-len(step.Status))
		fmt.Fprintf(out, "%-6d  %-*s  %s%s  %s\n",
			step.Ind, nameWidth, step.Name, colorStepStatus(step.Status), pad, errText)
	}
	return nil
}

func colorRunStatus(status string) string {
	switch status {
	case journal.RunSucceeded:
		return color.New(color.FgGreen).Sprint(status)
	case journal.RunFailed:
		return color.New(color.FgRed).Sprint(status)
	default:
		return color.New(color.FgYellow).Sprint(status)
	}
}

func colorStepStatus(status string) string {
	switch status {
	case journal.StepOK:
		return color.New(color.FgGreen).Sprint(status)
	case journal.StepFailed:
		return color.New(color.FgRed).Sprint(status)
	default:
		return color.New(color.FgYellow).Sprint(status)
	}
}
