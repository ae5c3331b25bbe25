// Command worker runs offline jobs on saved project snapshots: ARXML export, invariant
// checks, composition graphs and requirement replay.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/platform/logger"
)

func main() {
	logger.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "worker",
		Short:         "Offline jobs for SWC studio project snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExportCmd(), newValidateCmd(), newDotCmd(), newInterpretCmd())
	return root
}
