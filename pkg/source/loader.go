// Package source turns input files into document text for extraction.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnsupportedFormat is returned for files that are neither text nor PDF.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Supported extensions, lower case.
const (
	ExtPDF  = ".pdf"
	ExtText = ".txt"
)

// IsSupported reports whether path has an extension the loader can read.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtPDF, ExtText:
		return true
	}
	return false
}

// Document is the text of one input file.
type Document struct {
	Path string
	Text string
}

// Loader returns the normalized text of a document.
type Loader interface {
	Load(ctx context.Context, path string) (string, error)
}

// Config controls text extraction.
type Config struct {
	Pdftotext string        // binary name or absolute path; if empty -> "pdftotext"
	Layout    bool          // pass -layout to keep the physical column layout
	Timeout   time.Duration // per document; 0 = no limit
}

// FileLoader reads .txt files directly and converts .pdf files with pdftotext.
type FileLoader struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// LoaderOption configures a FileLoader.
type LoaderOption func(*FileLoader)

// WithRunner replaces the command runner used for pdftotext.
func WithRunner(r Runner) LoaderOption {
	return func(l *FileLoader) {
		if r != nil {
			l.runner = r
		}
	}
}

// NewLoader creates a FileLoader.
func NewLoader(cfg Config, logger *slog.Logger, opts ...LoaderOption) *FileLoader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	l := &FileLoader{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load picks a reader based on file extension and returns normalized text.
func (l *FileLoader) Load(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l.logger.Debug("source.load.start", "path", path, "ext", ext)

	var (
		text string
		err  error
	)
	switch ext {
	case ExtText:
		text, err = readText(path)
	case ExtPDF:
		text, err = l.pdfToText(ctx, path)
	default:
		return "", fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", err
	}
	return Normalize(text), nil
}

func readText(path string) (string, error) {
	// #nosec G304 - path is provided by user via CLI
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func (l *FileLoader) pdfToText(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if l.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.cfg.Timeout)
		defer cancel()
	}

	// pdftotext [-layout] -enc UTF-8 -eol unix <path> -
	args := []string{"-enc", "UTF-8", "-eol", "unix", path, "-"}
	if l.cfg.Layout {
		args = append([]string{"-layout"}, args...)
	}

	out, errb, err := l.runner.Run(ctx, l.cfg.Pdftotext, args...)
	if err != nil {
		l.logger.Warn("source.pdftotext.failed", "path", path, "error", err)
		if msg := strings.TrimSpace(string(errb)); msg != "" {
			return "", fmt.Errorf("pdftotext %s: %w: %s", path, err, truncate(msg, 512))
		}
		return "", fmt.Errorf("pdftotext %s: %w", path, err)
	}

	l.logger.Debug("source.pdftotext.ok", "path", path, "pages", 1+strings.Count(string(out), "\f"))
	return string(out), nil
}

// LoadAll loads every path in order and stops at the first failure.
func LoadAll(ctx context.Context, loader Loader, paths []string) ([]Document, error) {
	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := loader.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Path: path, Text: text})
	}
	return docs, nil
}
