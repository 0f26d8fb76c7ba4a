// Package cmd wires the command-line surface of the reconciler. The core
// packages never touch files or flags; everything filesystem- and CLI-shaped
// lives here.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "formulary-reconciler",
	Short: "Reconcile EHHapp formulary prices against invoice costs",
	Long: `formulary-reconciler compares the EHHapp formulary against a monthly
invoice, updates cost-per-dose values where the invoice disagrees, and emits a
regenerated formulary document. Invoice costs are treated as ground truth;
everything else in the formulary is preserved.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
