// Package batch runs extraction over many documents.
package batch

import (
	"time"

	"github.com/ccollicutt/orderscan/pkg/extract"
)

// DocumentResult is the outcome for one input document.
type DocumentResult struct {
	// Path is the input path as given.
	Path string

	// Strategy is the parser actually used. Empty when loading failed.
	Strategy extract.Strategy

	// Records are the extracted rows in document order.
	Records []extract.Record

	// Err is the load failure, if any. Records is empty when set.
	Err error

	// Duration is the time spent loading and extracting.
	Duration time.Duration
}

// Failed returns true if the document could not be processed.
func (d *DocumentResult) Failed() bool {
	return d.Err != nil
}

// Result contains the complete batch output.
type Result struct {
	// Documents holds one entry per input path, in input order.
	Documents []DocumentResult

	// Metadata provides context about the run.
	Metadata Metadata
}

// Metadata provides context about a batch run.
type Metadata struct {
	// RunID identifies the run in logs, reports and webhooks.
	RunID string

	// Strategy is the requested strategy (may be auto).
	Strategy extract.Strategy

	// Sources lists the input paths.
	Sources []string

	// StartTime is when the run began.
	StartTime time.Time

	// EndTime is when the run completed.
	EndTime time.Time
}

// Records returns all records of all documents, in document order.
func (r *Result) Records() []extract.Record {
	var n int
	for i := range r.Documents {
		n += len(r.Documents[i].Records)
	}
	records := make([]extract.Record, 0, n)
	for i := range r.Documents {
		records = append(records, r.Documents[i].Records...)
	}
	return records
}

// Failed returns the count of documents that could not be processed.
func (r *Result) Failed() int {
	count := 0
	for i := range r.Documents {
		if r.Documents[i].Failed() {
			count++
		}
	}
	return count
}
