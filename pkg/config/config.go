package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/orderscan/pkg/extract"
	"github.com/ccollicutt/orderscan/pkg/output"
)

// maxSheetName is the Excel limit on sheet name length.
const maxSheetName = 31

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadDefault returns the validated default configuration with environment
// overrides applied. It is used when no configuration file is given.
func LoadDefault(_ context.Context) (*Config, error) {
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors, fills defaults and builds the
// reference tables.
func Validate(cfg *Config) error {
	strategy, err := extract.ParseStrategy(cfg.Strategy)
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	cfg.strategy = strategy

	if cfg.Concurrency < 0 {
		return fmt.Errorf("concurrency: must be >= 1, got %d", cfg.Concurrency)
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	for i, in := range cfg.Inputs {
		if strings.TrimSpace(in) == "" {
			return fmt.Errorf("inputs[%d]: empty path", i)
		}
	}

	if err := validateOutput(&cfg.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	if err := validateTextExtraction(&cfg.TextExtraction); err != nil {
		return fmt.Errorf("text_extraction: %w", err)
	}

	tables, err := cfg.Reference.Build()
	if err != nil {
		return fmt.Errorf("reference.%w", err)
	}
	cfg.tables = tables

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateOutput(out *OutputConfig) error {
	if out.Format == "" {
		out.Format = DefaultOutputFormat
	}
	out.Format = strings.ToLower(out.Format)

	switch out.Format {
	case output.FormatText, output.FormatJSON, output.FormatXLSX:
		// Valid
	default:
		return fmt.Errorf("invalid format %q (must be text, json, or xlsx)", out.Format)
	}

	if out.Sheet == "" {
		out.Sheet = output.DefaultSheet
	}
	if utf8.RuneCountInString(out.Sheet) > maxSheetName {
		return fmt.Errorf("sheet name %q is longer than %d characters", out.Sheet, maxSheetName)
	}
	if strings.ContainsAny(out.Sheet, `[]:*?/\`) {
		return fmt.Errorf("sheet name %q contains one of []:*?/\\", out.Sheet)
	}

	return nil
}

func validateTextExtraction(te *TextExtractionConfig) error {
	if te.Pdftotext == "" {
		te.Pdftotext = DefaultPdftotext
	}

	if te.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", te.Timeout)
	}
	if te.Timeout == 0 {
		te.Timeout = DefaultExtractionTimeout
	}

	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	// Validate URL format
	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	// Expand environment variables in token
	wh.Token = expandEnvVar(wh.Token)

	// Validate trigger if specified
	if wh.Trigger != "" {
		switch wh.Trigger {
		case WebhookTriggerOnHighlights, WebhookTriggerAlways, WebhookTriggerNever:
			// Valid
		default:
			return fmt.Errorf("invalid trigger %q (must be on_highlights, always, or never)", wh.Trigger)
		}
	} else {
		wh.Trigger = WebhookTriggerOnHighlights
	}

	// Default timeout
	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}
