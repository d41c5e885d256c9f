package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/orderscan/pkg/batch"
	"github.com/ccollicutt/orderscan/pkg/config"
	"github.com/ccollicutt/orderscan/pkg/detector"
	"github.com/ccollicutt/orderscan/pkg/extract"
	"github.com/ccollicutt/orderscan/pkg/output"
	"github.com/ccollicutt/orderscan/pkg/source"
	"github.com/ccollicutt/orderscan/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ExtractOptions holds command-line options for the extract command.
type ExtractOptions struct {
	ConfigPath  string
	Strategy    string
	Output      string
	OutPath     string
	Concurrency int
	Verbose     bool
	Quiet       bool
	LogFormat   string

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	opts := &ExtractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [inputs...]",
		Short: "Extract order records from documents",
		Long: `Extract order number, model, confirmation number and desired delivery
week from order confirmation documents (PDF or plain text).

Inputs are files, directories or glob patterns. When none are given the
inputs listed in the configuration file are used.

Strategies:
  positions - position blocks (010, 020, ...) with labelled dates
  stream    - token stream keyed by confirmation numbers
  auto      - pick per document from its layout

Exit codes:
  0 - All records extracted cleanly
  1 - Some values need review or some documents failed
  2 - Configuration or runtime error`,
		Example: `  orderscan extract orders/
  orderscan extract -s stream -o xlsx --out orders.xlsx 'incoming/*.pdf'
  orderscan extract -c orderscan.yaml -j 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file")
	cmd.Flags().StringVarP(&opts.Strategy, "strategy", "s", "", "Extraction strategy (positions|stream|auto)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json|xlsx)")
	cmd.Flags().StringVar(&opts.OutPath, "out", "", "Write the report to this file instead of stdout")
	cmd.Flags().IntVarP(&opts.Concurrency, "concurrency", "j", 0, "Documents processed in parallel")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show per-document details and debug logs")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", LogFormatText, "Log format on stderr (text|json)")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnHighlights),
		"When to fire webhook (on_highlights|always|never)")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string, opts *ExtractOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := newLogger(opts.LogFormat, opts.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyExtractFlags(cfg, opts); err != nil {
		return err
	}

	if output.IsBinary(cfg.Output.Format) && cfg.Output.Path == "" {
		return fmt.Errorf("%s output needs a file: pass --out or set output.path", cfg.Output.Format)
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.Inputs
	}
	if len(patterns) == 0 {
		return errors.New("no inputs: pass files or directories, or set inputs in the config file")
	}

	files, err := source.ExpandInputs(patterns)
	if err != nil {
		return fmt.Errorf("expanding inputs: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no documents matched inputs: %v", patterns)
	}

	tables := cfg.Tables()
	extractor := extract.New(tables, extract.WithLayoutDetector(detector.New(tables)))
	loader := source.NewLoader(cfg.SourceConfig(), logger)

	runner := batch.New(extractor, loader,
		batch.WithStrategy(cfg.StrategyEnum()),
		batch.WithConcurrency(cfg.Concurrency),
		batch.WithLogger(logger),
		batch.WithProgress(func(done, total int) {
			logger.Debug("extract.progress", "done", done, "total", total)
		}),
	)

	result, err := runner.Run(ctx, files)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	report := output.NewReport(result, opts.ConfigPath)

	formatter, err := output.NewFormatter(cfg.Output.Format, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
		Sheet:   cfg.Output.Sheet,
	})
	if err != nil {
		return err
	}

	if err := writeReport(ctx, formatter, report, cfg.Output.Path, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	if cfg.Output.Path != "" {
		logger.Info("extract.report.written",
			"path", cfg.Output.Path,
			"format", formatter.Name(),
			"records", report.Summary.Records,
		)
	}

	// Send webhooks (errors logged but don't fail the run)
	sendWebhooks(ctx, logger, cfg.Webhooks, report)

	// Set exit code based on results
	if report.HasIssues() {
		ExitCode = 1
	}

	return nil
}

// loadConfig reads the configuration file, or the defaults when path is empty.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		return config.LoadDefault(ctx)
	}
	return config.Load(ctx, path)
}

// applyExtractFlags lets command-line flags override the configuration and
// validates the result again.
func applyExtractFlags(cfg *config.Config, opts *ExtractOptions) error {
	if opts.Strategy != "" {
		cfg.Strategy = opts.Strategy
	}
	if opts.Output != "" {
		cfg.Output.Format = opts.Output
	}
	if opts.OutPath != "" {
		cfg.Output.Path = opts.OutPath
	}
	if opts.Concurrency != 0 {
		cfg.Concurrency = opts.Concurrency
	}
	if opts.WebhookURL != "" {
		cfg.Webhooks = append(cfg.Webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: config.WebhookTrigger(opts.WebhookTrigger),
		})
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// writeReport renders the report to path, or to stdout when path is empty.
func writeReport(ctx context.Context, f output.Formatter, report *output.Report, path string, stdout io.Writer) (err error) {
	if path == "" {
		return f.Format(ctx, report, stdout)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	// #nosec G304 - path is provided by user via CLI or config
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	return f.Format(ctx, report, file)
}

// sendWebhooks sends the report to every webhook whose trigger fires.
// Failures are logged but don't fail the run.
func sendWebhooks(ctx context.Context, logger *slog.Logger, webhooks []config.WebhookConfig, report *output.Report) {
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !wh.Trigger.ShouldFire(report.HasIssues()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			logger.Info("webhook.sent", "webhook", name, "status", resp.StatusCode, "duration", resp.Duration)
		} else {
			logger.Warn("webhook.failed", "webhook", name, "status", resp.StatusCode, "error", resp.Error)
		}
	}
}
