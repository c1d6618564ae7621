package main

import (
	"fmt"
	"os"

	"github.com/HesslerY/Newton-Krylov-OOC/internal/cli"
	"github.com/HesslerY/Newton-Krylov-OOC/internal/solver"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(solver.ExitCode(err))
	}
}
