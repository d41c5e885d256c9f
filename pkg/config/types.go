// Package config provides configuration loading and validation for orderscan.
package config

import (
	"time"

	"github.com/ccollicutt/orderscan/pkg/extract"
	"github.com/ccollicutt/orderscan/pkg/reference"
	"github.com/ccollicutt/orderscan/pkg/source"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Inputs are files, directories or glob patterns. Command-line arguments
	// take precedence.
	Inputs []string `yaml:"inputs"`

	// Strategy is positions, stream or auto.
	Strategy string `yaml:"strategy"`

	// Concurrency is the number of documents processed at once.
	Concurrency int `yaml:"concurrency,omitempty"`

	Output         OutputConfig         `yaml:"output"`
	TextExtraction TextExtractionConfig `yaml:"text_extraction"`

	// Reference overrides the built-in branch, model and keyword tables.
	Reference reference.Overrides `yaml:"reference,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`

	// Populated during validation
	strategy extract.Strategy
	tables   *reference.Tables
}

// StrategyEnum returns the validated strategy.
func (c *Config) StrategyEnum() extract.Strategy {
	return c.strategy
}

// Tables returns the reference tables built during validation.
func (c *Config) Tables() *reference.Tables {
	return c.tables
}

// SourceConfig returns the loader settings.
func (c *Config) SourceConfig() source.Config {
	return source.Config{
		Pdftotext: c.TextExtraction.Pdftotext,
		Layout:    c.TextExtraction.Layout,
		Timeout:   c.TextExtraction.Timeout,
	}
}

// OutputConfig controls the report.
type OutputConfig struct {
	// Format is text, json or xlsx.
	Format string `yaml:"format"`

	// Path is the output file. Empty writes text and json to stdout.
	Path string `yaml:"path,omitempty"`

	// Sheet names the xlsx data sheet.
	Sheet string `yaml:"sheet,omitempty"`
}

// TextExtractionConfig controls how PDF text is obtained.
type TextExtractionConfig struct {
	// Pdftotext is the binary name or absolute path.
	Pdftotext string `yaml:"pdftotext,omitempty"`

	// Layout passes -layout to pdftotext.
	Layout bool `yaml:"layout,omitempty"`

	// Timeout limits a single pdftotext run.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnHighlights fires when records need review or documents
	// failed (default).
	WebhookTriggerOnHighlights WebhookTrigger = "on_highlights"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// ShouldFire reports whether a webhook with this trigger fires for a run.
func (t WebhookTrigger) ShouldFire(hasIssues bool) bool {
	switch t {
	case WebhookTriggerAlways:
		return true
	case WebhookTriggerNever:
		return false
	default:
		return hasIssues
	}
}

// WebhookConfig defines a webhook endpoint for sending extraction reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_highlights" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
