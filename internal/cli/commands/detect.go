package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/orderscan/pkg/config"
	"github.com/ccollicutt/orderscan/pkg/detector"
	"github.com/ccollicutt/orderscan/pkg/output"
	"github.com/ccollicutt/orderscan/pkg/source"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	ConfigPath  string
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <document>...",
		Short: "Detect the layout of order documents",
		Long: `Analyze documents to recommend an extraction strategy.

Samples lines from each document and scores them against the signals of
each layout:
  positions - position numbers (010, 020, ...), WUNSCHLIEFERTERMIN/WOCHE
              labels, "Bestellung" order labels
  stream    - confirmation numbers leading a line, "KW 05.2024" idioms,
              trailing week.year tokens

Optionally generates a starter config file with --write-config.

Example:
  orderscan detect orders/AB-1451234567.pdf
  orderscan detect --all incoming/*.txt
  orderscan detect -w orderscan.yaml orders/sample.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (reference tables, pdftotext)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 200, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show every scored layout, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

// documentDetection pairs a document with its detection result.
type documentDetection struct {
	Path   string
	Result *detector.DetectionResult
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	cfg, err := loadConfig(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	files, err := source.ExpandInputs(args)
	if err != nil {
		return fmt.Errorf("expanding inputs: %w", err)
	}

	logger, err := newLogger(LogFormatText, false, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	loader := source.NewLoader(cfg.SourceConfig(), logger)
	d := detector.New(cfg.Tables(), detector.WithSampleSize(opts.SampleSize))

	detections := make([]documentDetection, 0, len(files))
	for _, path := range files {
		text, err := loader.Load(ctx, path)
		if err != nil {
			return fmt.Errorf("detection failed: %w", err)
		}
		detections = append(detections, documentDetection{Path: path, Result: d.DetectFromText(text)})
	}

	// Write config file if requested
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(detections, opts.WriteConfig, cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	if opts.Output == "json" {
		return outputDetectJSON(detections, opts, cmd.OutOrStdout())
	}
	outputDetectText(detections, opts, cmd.OutOrStdout())
	return nil
}

func outputDetectText(detections []documentDetection, opts *DetectOptions, w io.Writer) {
	fmt.Fprintln(w, "=== Layout Detection ===")

	for _, det := range detections {
		result := det.Result
		fmt.Fprintln(w)
		fmt.Fprintf(w, "File: %s\n", det.Path)
		fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)

		if !result.HasMatch() {
			fmt.Fprintln(w, "No layout signal found; extraction would use positions.")
			continue
		}

		best := result.BestMatch()
		fmt.Fprintf(w, "Recommended strategy: %s\n", best.Strategy)
		fmt.Fprintf(w, "Score: %.1f%% (%d/%d lines matched)\n",
			best.Score*100, best.MatchCount, result.SampledLines)
		fmt.Fprintf(w, "Signals: %s\n", strings.Join(best.Signals, ", "))
		fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)

		if result.AmbiguityNote != "" {
			fmt.Fprintf(w, "Note: %s\n", result.AmbiguityNote)
		}

		// Show alternatives if requested
		if opts.ShowAll && len(result.Matches) > 1 {
			fmt.Fprintln(w, "Other layouts:")
			for _, m := range result.Matches[1:] {
				fmt.Fprintf(w, "  %s (%.1f%%, %d lines)\n", m.Strategy, m.Score*100, m.MatchCount)
			}
		}
	}
}

// JSONMatch represents a scored layout in JSON output.
type JSONMatch struct {
	Strategy   string   `json:"strategy"`
	Score      float64  `json:"score"`
	MatchCount int      `json:"match_count"`
	Signals    []string `json:"signals"`
	SampleLine string   `json:"sample_line"`
}

// JSONDetection represents one document in JSON output.
type JSONDetection struct {
	File          string      `json:"file"`
	Recommended   string      `json:"recommended"`
	Matches       []JSONMatch `json:"matches"`
	SampledLines  int         `json:"sampled_lines"`
	AmbiguityNote string      `json:"ambiguity_note,omitempty"`
}

func outputDetectJSON(detections []documentDetection, opts *DetectOptions, w io.Writer) error {
	out := make([]JSONDetection, 0, len(detections))

	for _, det := range detections {
		result := det.Result
		entry := JSONDetection{
			File:          det.Path,
			Recommended:   recommended(result),
			SampledLines:  result.SampledLines,
			AmbiguityNote: result.AmbiguityNote,
			Matches:       make([]JSONMatch, 0),
		}

		matches := result.Matches
		if !opts.ShowAll && len(matches) > 1 {
			matches = matches[:1] // Only show best match
		}
		for _, m := range matches {
			entry.Matches = append(entry.Matches, JSONMatch{
				Strategy:   string(m.Strategy),
				Score:      m.Score,
				MatchCount: m.MatchCount,
				Signals:    m.Signals,
				SampleLine: m.SampleLine,
			})
		}
		out = append(out, entry)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// recommended mirrors detector.Recommend for an existing result.
func recommended(result *detector.DetectionResult) string {
	if best := result.BestMatch(); best != nil {
		return string(best.Strategy)
	}
	return config.DefaultStrategy
}

// writeStarterConfig generates a starter config file. The strategy is the one
// every document agrees on, or auto when they differ.
func writeStarterConfig(detections []documentDetection, configPath string, w io.Writer) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	strategy := ""
	inputs := make([]string, 0, len(detections))
	for _, det := range detections {
		rec := recommended(det.Result)
		switch strategy {
		case "":
			strategy = rec
		case rec:
		default:
			strategy = "auto"
		}

		abs := det.Path
		if p, err := filepath.Abs(det.Path); err == nil {
			abs = p
		}
		inputs = append(inputs, abs)
	}
	if strategy == "" {
		strategy = config.DefaultStrategy
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(generateStarterConfig(strategy, inputs)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(strategy string, inputs []string) string {
	var b strings.Builder

	b.WriteString("# orderscan configuration\n# Generated by: orderscan detect\n\ninputs:\n")
	for _, in := range inputs {
		fmt.Fprintf(&b, "  - %q\n", in)
	}
	fmt.Fprintf(&b, `  # Add directories or globs:
  # - /srv/orders/incoming/*.pdf

strategy: %s
concurrency: 1

output:
  format: xlsx
  path: orders.xlsx
  sheet: %q

text_extraction:
  pdftotext: %s
  layout: false
  timeout: %s

# reference:
#   branches: [HH, BE, KI]
#   extra_models: [DX30]
#   keywords: [nicht bekannt, Auslauf]

# webhooks:
#   - name: erp
#     url: "https://erp.example.com/hooks/orders"
#     token: "${ORDERSCAN_WEBHOOK_TOKEN}"
#     trigger: on_highlights
`, strategy, output.DefaultSheet, config.DefaultPdftotext, config.DefaultExtractionTimeout)

	return b.String()
}
