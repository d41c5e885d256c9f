// Package cli provides the command-line interface for orderscan.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/orderscan/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orderscan",
		Short: "Extract order data from order confirmation documents",
		Long: `orderscan reads order confirmation documents (PDF or text) and extracts,
for every ordered model:

  - the order number (branch code plus digits, e.g. HH4711)
  - the model name
  - the order confirmation number (144... or 145...)
  - the desired delivery week as WWYY

Values that could not be determined reliably are highlighted for review.
Results are written as a text table, JSON or an Excel workbook.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewExtractCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
