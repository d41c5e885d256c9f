// Package extract turns the text of an order confirmation into order records.
//
// Two parsers implement the same Parser contract because the source documents
// come in two layouts: PositionParser reads documents organised in 3-digit
// position blocks, StreamParser reads documents where each line carries a
// confirmation number, a contract number, model names and a trailing week.
package extract

import (
	"errors"
	"fmt"
	"strings"
)

// Record is one extracted row: a single model of a single order.
type Record struct {
	// OrderNumber is the contract or order identifier. Empty when absent.
	OrderNumber string `json:"order_number,omitempty"`

	// Model is the catalog model name, or a best-effort guess.
	Model string `json:"model"`

	// ConfirmationNumber is the 144/145-prefixed confirmation code. Empty when absent.
	ConfirmationNumber string `json:"confirmation_number,omitempty"`

	// DesiredDate is a WWYY week code, a raw literal, a lifecycle keyword,
	// or the sentinel date. Never empty.
	DesiredDate string `json:"desired_date"`

	// HighlightModel is set when Model did not come from the catalog.
	HighlightModel bool `json:"highlight_model"`

	// HighlightDate is set when DesiredDate is the sentinel or a lifecycle keyword.
	HighlightDate bool `json:"highlight_date"`
}

// ModelEntry is a model found inside a position block.
type ModelEntry struct {
	Name string

	// Guess marks the first word after a position number that is not in the
	// catalog.
	Guess bool
}

// Strategy selects a parser.
type Strategy string

const (
	// StrategyPositions parses position blocks.
	StrategyPositions Strategy = "positions"

	// StrategyStream parses the token stream layout.
	StrategyStream Strategy = "stream"

	// StrategyAuto picks a parser per document through a LayoutDetector.
	StrategyAuto Strategy = "auto"
)

// ErrUnknownStrategy is returned for a strategy name that names no parser.
var ErrUnknownStrategy = errors.New("unknown strategy")

// ParseStrategy converts a name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case StrategyPositions, StrategyStream, StrategyAuto:
		return s, nil
	default:
		return "", fmt.Errorf("%w %q (must be positions, stream, or auto)", ErrUnknownStrategy, name)
	}
}

// Parser extracts records from the full text of one document.
// Implementations are stateless between calls and safe for concurrent use.
type Parser interface {
	// Strategy returns the strategy this parser implements.
	Strategy() Strategy

	// Extract parses text and returns records in document order.
	// It never fails; text without anything recognisable yields no records.
	Extract(text string) []Record
}

// LayoutDetector recommends a concrete strategy for a document.
type LayoutDetector interface {
	Recommend(text string) Strategy
}
