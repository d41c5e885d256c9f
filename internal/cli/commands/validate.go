package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/orderscan/pkg/config"
	"github.com/ccollicutt/orderscan/pkg/source"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate an orderscan configuration file without extracting anything.

Checks:
  - YAML syntax
  - Strategy, output format and sheet name
  - Reference table overrides (branch codes, models, keywords)
  - Webhook URLs and triggers
  - Input existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	// Load and validate config
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Report what we found
	tables := cfg.Tables()
	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Strategy:    %s\n", cfg.StrategyEnum())
	fmt.Fprintf(w, "  Concurrency: %d\n", cfg.Concurrency)
	fmt.Fprintf(w, "  Output:      %s\n", describeOutput(cfg))
	fmt.Fprintf(w, "  Reference:   %d branches, %d models, %d keywords\n",
		len(tables.Branches()), len(tables.Models()), len(tables.Keywords()))
	fmt.Fprintf(w, "  Webhooks:    %d\n", len(cfg.Webhooks))
	fmt.Fprintf(w, "  Inputs:      %d pattern(s)\n", len(cfg.Inputs))

	if len(cfg.Inputs) == 0 {
		fmt.Fprintf(w, "\nNo inputs configured; pass them to extract on the command line.\n")
		return nil
	}

	// Check if inputs exist (warnings only)
	files, err := source.ExpandInputs(cfg.Inputs)
	if err != nil {
		fmt.Fprintf(w, "\nWarning: Error expanding input patterns: %v\n", err)
	} else if len(files) == 0 {
		fmt.Fprintf(w, "\nWarning: No documents match input patterns\n")
	} else {
		fmt.Fprintf(w, "\nDocuments matched: %d\n", len(files))
		for _, f := range files {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}

	return nil
}

func describeOutput(cfg *config.Config) string {
	if cfg.Output.Path == "" {
		return cfg.Output.Format + " (stdout)"
	}
	return fmt.Sprintf("%s -> %s", cfg.Output.Format, cfg.Output.Path)
}
