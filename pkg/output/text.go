package output

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ccollicutt/orderscan/pkg/extract"
)

// highlightMark follows values that need manual review.
const highlightMark = "!"

// TextFormatter formats reports as a human-readable table.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return FormatText
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "orderscan: %d documents, %d failed, %d records, %d highlighted models, %d highlighted dates\n",
		report.Summary.Documents,
		report.Summary.FailedDocuments,
		report.Summary.Records,
		report.Summary.HighlightedModels,
		report.Summary.HighlightedDates)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	// Header
	fmt.Fprintln(w, "=== orderscan Extraction Report ===")
	fmt.Fprintln(w)

	if f.opts.Verbose {
		f.formatDocuments(report, w)
	}
	f.formatFailures(report, w)

	if len(report.Rows) == 0 {
		fmt.Fprintln(w, "No records extracted")
		fmt.Fprintln(w)
	} else if err := f.formatRows(report.Rows, w); err != nil {
		return err
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d documents (%d failed), %d records, %d highlighted models, %d highlighted dates\n",
		report.Summary.Documents,
		report.Summary.FailedDocuments,
		report.Summary.Records,
		report.Summary.HighlightedModels,
		report.Summary.HighlightedDates)

	if report.Summary.HighlightedModels+report.Summary.HighlightedDates > 0 {
		fmt.Fprintf(w, "Values marked %s need review\n", highlightMark)
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Run: %s\n", report.Metadata.RunID)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatRows(rows []extract.Record, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tMODEL\tCONFIRMATION\tDESIRED DATE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			orDash(r.OrderNumber),
			mark(r.Model, r.HighlightModel),
			orDash(r.ConfirmationNumber),
			mark(r.DesiredDate, r.HighlightDate))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

func (f *TextFormatter) formatDocuments(report *Report, w io.Writer) {
	for _, d := range report.Documents {
		if d.Error != "" {
			continue
		}
		fmt.Fprintf(w, "[%s] %s: %d record(s)\n", d.Strategy, d.Path, d.Records)
	}
	if len(report.Documents) > 0 {
		fmt.Fprintln(w)
	}
}

func (f *TextFormatter) formatFailures(report *Report, w io.Writer) {
	if report.Summary.FailedDocuments == 0 {
		return
	}
	fmt.Fprintf(w, "Failed: %d document(s)\n", report.Summary.FailedDocuments)
	for _, d := range report.Documents {
		if d.Error != "" {
			fmt.Fprintf(w, "  - %s\n", d.Error)
		}
	}
	fmt.Fprintln(w)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func mark(s string, highlighted bool) string {
	if highlighted {
		return s + highlightMark
	}
	return s
}
