package detector

import (
	"regexp"
	"strings"

	"github.com/ccollicutt/orderscan/pkg/extract"
	"github.com/ccollicutt/orderscan/pkg/reference"
)

// LayoutSignal is a line-level hint that a document uses a given layout.
type LayoutSignal struct {
	Name       string           // Human-readable name
	Strategy   extract.Strategy // Layout the signal points to
	Pattern    *regexp.Regexp   // Compiled regex (set during init)
	PatternStr string           // Pattern string
	Weight     float64          // Contribution of a matching line, 0..1
	Examples   []string         // Example lines

	// accept optionally rejects a regex match using the reference tables.
	accept func(tables *reference.Tables, match []string) bool
}

// DefaultSignals returns the built-in layout signals.
func DefaultSignals() []*LayoutSignal {
	signals := []*LayoutSignal{
		// Position number opening a block
		{
			Name:       "Position line",
			Strategy:   extract.StrategyPositions,
			PatternStr: `^\s*\d{3}\b`,
			Weight:     1,
			Examples:   []string{"010 DX24 weiss 2 Stk"},
		},
		// Labelled delivery date
		{
			Name:       "Labelled date",
			Strategy:   extract.StrategyPositions,
			PatternStr: `(?i)(?:WUNSCHLIEFERTERMIN|WOCHE)\s*:?\s*\d{1,2}\.\d{1,2}(?:\.\d{4})?`,
			Weight:     1,
			Examples:   []string{"WUNSCHLIEFERTERMIN: 3.11.2024", "WOCHE 5.2025"},
		},
		// Order label with a branch-prefixed number
		{
			Name:       "Order label",
			Strategy:   extract.StrategyPositions,
			PatternStr: `(?i)\b(?:Bestellung|Bestelltext)\s+(\S{2})\S{3,4}`,
			Weight:     1,
			Examples:   []string{"Bestellung HH4711"},
			accept: func(tables *reference.Tables, match []string) bool {
				return tables.IsValidBranch(strings.ToUpper(match[1]))
			},
		},
		// Confirmation number leading a line
		{
			Name:       "Leading confirmation number",
			Strategy:   extract.StrategyStream,
			PatternStr: `^\s*(?:144|145)\d{6,8}\b`,
			Weight:     1,
			Examples:   []string{"144100001 HH100 DX24 KW 05.2024"},
		},
		// Calendar week idiom
		{
			Name:       "KW week",
			Strategy:   extract.StrategyStream,
			PatternStr: `(?i)\bKW\s*\d{1,2}\.\d{4}\b`,
			Weight:     1,
			Examples:   []string{"KW 05.2024"},
		},
		// Week and year as the last token of a line. Labelled dates look the
		// same, hence the lower weight.
		{
			Name:       "Trailing week",
			Strategy:   extract.StrategyStream,
			PatternStr: `(?:^|\s)\d{1,2}\.\d{4}\s*$`,
			Weight:     0.5,
			Examples:   []string{"WT44 12.2024"},
		},
	}

	for _, s := range signals {
		s.Pattern = regexp.MustCompile(s.PatternStr)
	}

	return signals
}

// matches reports whether line carries the signal.
func (s *LayoutSignal) matches(tables *reference.Tables, line string) bool {
	m := s.Pattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	return s.accept == nil || s.accept(tables, m)
}
