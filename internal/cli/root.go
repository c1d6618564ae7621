package cli

import (
	"github.com/spf13/cobra"

	"github.com/HesslerY/Newton-Krylov-OOC/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	rootConfigFname string
	rootVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "nkooc",
	Short: "Harness for the Newton-Krylov out-of-core solver",
	Long: `nkooc drives the external Newton-Krylov solver tools. The fp-iterate
command runs the fixed-point iteration loop that bootstraps an initial
iterate for the full solver; setup forwards arguments to the solver's
setup tool; status inspects the journal a run left behind.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if rootVerbose {
			logging.SetLevel(logging.LevelDebug)
		}
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("nkooc version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootConfigFname, "config", "",
		"path to harness config (default "+`"newton_krylov.yaml")`)
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
