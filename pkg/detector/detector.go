// Package detector provides automatic layout detection for order documents.
package detector

import (
	"sort"
	"strings"

	"github.com/ccollicutt/orderscan/pkg/extract"
	"github.com/ccollicutt/orderscan/pkg/reference"
)

// closeCall is the score gap below which both layouts are reported as plausible.
const closeCall = 0.1

// DetectionResult holds the result of analyzing a document.
type DetectionResult struct {
	Matches       []LayoutMatch // Layouts that scored, sorted by score descending
	SampledLines  int           // Number of non-empty lines sampled
	AmbiguityNote string        // Warning when both layouts score closely
}

// LayoutMatch represents a layout that matched with its score.
type LayoutMatch struct {
	Strategy   extract.Strategy
	Score      float64  // 0.0 to 1.0 (weighted share of sampled lines)
	MatchCount int      // Number of lines carrying at least one signal
	Signals    []string // Names of the signals seen, in definition order
	SampleLine string   // First line that matched
}

// Detector analyzes document text to identify its layout.
type Detector struct {
	tables     *reference.Tables
	signals    []*LayoutSignal
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 200).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with the default signals. A nil tables value
// selects reference.Default().
func New(tables *reference.Tables, opts ...Option) *Detector {
	if tables == nil {
		tables = reference.Default()
	}
	d := &Detector{
		tables:     tables,
		signals:    DefaultSignals(),
		sampleSize: 200,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromText samples the leading lines of text and scores each layout.
func (d *Detector) DetectFromText(text string) *DetectionResult {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if len(lines) >= d.sampleSize {
			break
		}
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return d.DetectFromLines(lines)
}

// DetectFromLines scores a slice of document lines. Blank lines are ignored.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	type layoutStats struct {
		weight     float64
		matchCount int
		signals    map[string]bool
		sampleLine string
	}

	stats := make(map[extract.Strategy]*layoutStats)

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.SampledLines++

		// Best signal weight per layout on this line
		best := make(map[extract.Strategy]float64)
		for _, sig := range d.signals {
			if !sig.matches(d.tables, line) {
				continue
			}
			s := stats[sig.Strategy]
			if s == nil {
				s = &layoutStats{signals: make(map[string]bool), sampleLine: strings.TrimSpace(line)}
				stats[sig.Strategy] = s
			}
			s.signals[sig.Name] = true
			if sig.Weight > best[sig.Strategy] {
				best[sig.Strategy] = sig.Weight
			}
		}
		for strategy, w := range best {
			stats[strategy].weight += w
			stats[strategy].matchCount++
		}
	}

	if result.SampledLines == 0 {
		return result
	}

	for strategy, s := range stats {
		var names []string
		for _, sig := range d.signals {
			if s.signals[sig.Name] {
				names = append(names, sig.Name)
			}
		}
		result.Matches = append(result.Matches, LayoutMatch{
			Strategy:   strategy,
			Score:      s.weight / float64(result.SampledLines),
			MatchCount: s.matchCount,
			Signals:    names,
			SampleLine: s.sampleLine,
		})
	}

	// Sort by score descending; on a tie positions wins
	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].Score != result.Matches[j].Score {
			return result.Matches[i].Score > result.Matches[j].Score
		}
		return result.Matches[i].Strategy == extract.StrategyPositions
	})

	if len(result.Matches) > 1 && result.Matches[0].Score-result.Matches[1].Score < closeCall {
		result.AmbiguityNote = "Both layouts scored closely. " +
			"Verify the result or pass the strategy explicitly (--strategy positions|stream)."
	}

	return result
}

// Recommend returns the best scoring layout for text, or positions when no
// signal matched. It implements extract.LayoutDetector.
func (d *Detector) Recommend(text string) extract.Strategy {
	if best := d.DetectFromText(text).BestMatch(); best != nil {
		return best.Strategy
	}
	return extract.StrategyPositions
}

// BestMatch returns the highest scoring match, or nil if none found.
func (r *DetectionResult) BestMatch() *LayoutMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one layout matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
