package extract

import (
	"fmt"

	"github.com/ccollicutt/orderscan/pkg/reference"
)

// Extractor selects a parser per call and runs it. It keeps no state
// between calls.
type Extractor struct {
	positions *PositionParser
	stream    *StreamParser
	detector  LayoutDetector
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLayoutDetector sets the detector consulted for StrategyAuto.
// Without one, StrategyAuto uses the positions parser.
func WithLayoutDetector(d LayoutDetector) Option {
	return func(e *Extractor) {
		e.detector = d
	}
}

// New creates an Extractor over the given reference tables. A nil tables value
// selects reference.Default().
func New(tables *reference.Tables, opts ...Option) *Extractor {
	if tables == nil {
		tables = reference.Default()
	}
	e := &Extractor{
		positions: NewPositionParser(tables),
		stream:    NewStreamParser(tables),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses text with the stream parser when useStream is set and with
// the positions parser otherwise.
func (e *Extractor) Extract(text string, useStream bool) []Record {
	if useStream {
		return e.stream.Extract(text)
	}
	return e.positions.Extract(text)
}

// ExtractWith parses text with the named strategy.
func (e *Extractor) ExtractWith(text string, s Strategy) ([]Record, error) {
	p, err := e.Resolve(text, s)
	if err != nil {
		return nil, err
	}
	return p.Extract(text), nil
}

// Parser returns the parser for a concrete strategy.
func (e *Extractor) Parser(s Strategy) (Parser, error) {
	switch s {
	case StrategyPositions:
		return e.positions, nil
	case StrategyStream:
		return e.stream, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, s)
	}
}

// Resolve returns the parser that ExtractWith would use for text.
func (e *Extractor) Resolve(text string, s Strategy) (Parser, error) {
	if s == StrategyAuto {
		if e.detector == nil {
			return e.positions, nil
		}
		s = e.detector.Recommend(text)
	}
	return e.Parser(s)
}
