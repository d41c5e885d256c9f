package output

import (
	"context"
	"fmt"
	"io"
)

// Format names.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Formatter renders extraction results in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json, xlsx).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose enables per-document details.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool

	// Sheet names the xlsx data sheet (default "Extracted Data").
	Sheet string
}

// NewFormatter returns the formatter for a format name.
func NewFormatter(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case FormatText:
		return NewTextFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	case FormatXLSX:
		return NewXLSXFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text, json or xlsx)", name)
	}
}

// IsBinary reports whether a format must be written to a file.
func IsBinary(name string) bool {
	return name == FormatXLSX
}
