// Package output provides formatting and output generation for extraction results.
package output

import (
	"time"

	"github.com/ccollicutt/orderscan/pkg/batch"
	"github.com/ccollicutt/orderscan/pkg/extract"
)

// Report is the complete extraction output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Rows contains every extracted record, in document order.
	Rows []extract.Record `json:"rows"`

	// Documents describes each input document.
	Documents []DocumentSummary `json:"documents"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Documents is the number of input documents.
	Documents int `json:"documents"`

	// FailedDocuments is the number of documents that could not be read.
	FailedDocuments int `json:"failed_documents"`

	// Records is the total number of extracted records.
	Records int `json:"records"`

	// HighlightedModels counts records whose model is a guess.
	HighlightedModels int `json:"highlighted_models"`

	// HighlightedDates counts records whose date needs review.
	HighlightedDates int `json:"highlighted_dates"`
}

// DocumentSummary is the per-document part of a report.
type DocumentSummary struct {
	Path     string           `json:"path"`
	Strategy extract.Strategy `json:"strategy,omitempty"`
	Records  int              `json:"records"`
	Error    string           `json:"error,omitempty"`
}

// Metadata provides context about the extraction run.
type Metadata struct {
	// RunID identifies the batch run.
	RunID string `json:"run_id"`

	// ConfigFile is the path to the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// Strategy is the requested strategy.
	Strategy extract.Strategy `json:"strategy"`

	// Sources lists the documents that were processed.
	Sources []string `json:"sources"`

	// ExtractedAt is when the run completed.
	ExtractedAt time.Time `json:"extracted_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from batch results.
func NewReport(result *batch.Result, configFile string) *Report {
	report := &Report{
		Rows:      result.Records(),
		Documents: make([]DocumentSummary, 0, len(result.Documents)),
		Metadata: Metadata{
			RunID:       result.Metadata.RunID,
			ConfigFile:  configFile,
			Strategy:    result.Metadata.Strategy,
			Sources:     result.Metadata.Sources,
			ExtractedAt: result.Metadata.EndTime,
			Duration:    result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
		Summary: Summary{
			Documents:       len(result.Documents),
			FailedDocuments: result.Failed(),
		},
	}

	for _, d := range result.Documents {
		ds := DocumentSummary{
			Path:     d.Path,
			Strategy: d.Strategy,
			Records:  len(d.Records),
		}
		if d.Err != nil {
			ds.Error = d.Err.Error()
		}
		report.Documents = append(report.Documents, ds)
	}

	report.Summary.Records = len(report.Rows)
	for _, r := range report.Rows {
		if r.HighlightModel {
			report.Summary.HighlightedModels++
		}
		if r.HighlightDate {
			report.Summary.HighlightedDates++
		}
	}

	return report
}

// HasIssues returns true if any record is highlighted or any document failed.
func (r *Report) HasIssues() bool {
	return r.Summary.FailedDocuments > 0 ||
		r.Summary.HighlightedModels > 0 ||
		r.Summary.HighlightedDates > 0
}
