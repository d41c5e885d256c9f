package config

import (
	"os"
	"time"

	"github.com/ccollicutt/orderscan/pkg/extract"
	"github.com/ccollicutt/orderscan/pkg/output"
)

// Default values for configuration.
const (
	DefaultStrategy          = string(extract.StrategyPositions)
	DefaultConcurrency       = 1
	DefaultOutputFormat      = output.FormatText
	DefaultPdftotext         = "pdftotext"
	DefaultExtractionTimeout = 2 * time.Minute
	DefaultWebhookTimeout    = 10 * time.Second
)

// Environment variable names.
const (
	EnvStrategy  = "ORDERSCAN_STRATEGY"
	EnvPdftotext = "ORDERSCAN_PDFTOTEXT"
	EnvOutput    = "ORDERSCAN_OUTPUT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Inputs:      []string{},
		Strategy:    DefaultStrategy,
		Concurrency: DefaultConcurrency,
		Output: OutputConfig{
			Format: DefaultOutputFormat,
			Sheet:  output.DefaultSheet,
		},
		TextExtraction: TextExtractionConfig{
			Pdftotext: DefaultPdftotext,
			Timeout:   DefaultExtractionTimeout,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if s := os.Getenv(EnvStrategy); s != "" {
		c.Strategy = s
	}
	if bin := os.Getenv(EnvPdftotext); bin != "" {
		c.TextExtraction.Pdftotext = bin
	}
	if format := os.Getenv(EnvOutput); format != "" {
		c.Output.Format = format
	}
}
