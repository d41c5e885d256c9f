package extract

import (
	"regexp"
	"strings"

	"github.com/ccollicutt/orderscan/pkg/reference"
	"github.com/ccollicutt/orderscan/pkg/weekcode"
)

// weekMarker precedes a D.YYYY token in the stream layout ("KW 05.2024").
const weekMarker = "KW"

// discontinuedMarker followed by a bare "*" forms one terminal token.
const discontinuedMarker = "auslauf"

// weekToken matches a merged week token.
var weekToken = regexp.MustCompile(`(?i)^KW\s+\d{1,2}\.\d{4}$`)

// terminalTokens end a line's model list in place of a week (case-insensitive).
var terminalTokens = []string{"auslauf", "auslauf*", "*auslauf", "²", "neuanlauf"}

// StreamParser extracts records from the token stream layout. It keeps the
// current confirmation and contract numbers across lines and buffers model
// names until a week or terminal token closes them.
type StreamParser struct {
	tables *reference.Tables

	// contractCheck decides whether the token after a confirmation number is
	// taken as the contract number.
	contractCheck func(token string) bool
}

// NewStreamParser creates a StreamParser. A nil tables value selects
// reference.Default().
func NewStreamParser(tables *reference.Tables) *StreamParser {
	if tables == nil {
		tables = reference.Default()
	}
	return &StreamParser{tables: tables, contractCheck: acceptAnyContract}
}

// acceptAnyContract accepts every token as a contract number.
func acceptAnyContract(string) bool { return true }

// Strategy returns StrategyStream.
func (p *StreamParser) Strategy() Strategy {
	return StrategyStream
}

// Extract scans text line by line. Records are emitted in model discovery
// order. Stream records are never highlighted.
func (p *StreamParser) Extract(text string) []Record {
	st := &streamState{records: []Record{}}

	for _, line := range lineSplit.Split(text, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		p.scanLine(st, MergeTokens(line))
	}

	st.endOfInput()
	return st.records
}

func (p *StreamParser) scanLine(st *streamState, tokens []string) {
	var date string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case IsConfirmationNumber(tok):
			contract := ""
			if i+1 < len(tokens) && p.contractCheck(tokens[i+1]) {
				contract = tokens[i+1]
				i++
			}
			st.newConfirmation(tok, contract)
		case isStreamDate(tok):
			date = tok
		case p.tables.IsKnownModel(tok):
			st.models = append(st.models, tok)
		}
	}
	if date != "" {
		st.dateToken(date)
	}
}

// MergeTokens splits a line on whitespace and joins the two-token idioms of
// the stream layout: "KW" plus a D.YYYY token, and "auslauf" plus "*".
func MergeTokens(line string) []string {
	raw := strings.Fields(line)
	merged := make([]string, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		if i+1 < len(raw) {
			next := raw[i+1]
			if strings.EqualFold(tok, weekMarker) && weekcode.IsWeekYear(next) {
				merged = append(merged, weekMarker+" "+next)
				i++
				continue
			}
			if strings.EqualFold(tok, discontinuedMarker) && next == "*" {
				merged = append(merged, "Auslauf*")
				i++
				continue
			}
		}
		merged = append(merged, tok)
	}
	return merged
}

func isStreamDate(tok string) bool {
	if weekcode.IsWeekYear(tok) || weekToken.MatchString(tok) {
		return true
	}
	for _, t := range terminalTokens {
		if strings.EqualFold(tok, t) {
			return true
		}
	}
	return false
}

// streamState is the running state of a StreamParser scan. Every flush emits
// one record per buffered model and clears the buffer.
type streamState struct {
	confirmation string
	contract     string
	models       []string
	records      []Record
}

// newConfirmation flushes the buffer under the previous numbers without a
// date, then switches to the new numbers.
func (st *streamState) newConfirmation(confirmation, contract string) {
	st.flush("")
	st.confirmation = confirmation
	st.contract = contract
}

// dateToken flushes the buffer with date attached. The current numbers are kept.
func (st *streamState) dateToken(date string) {
	st.flush(date)
}

// endOfInput flushes whatever is still buffered, without a date.
func (st *streamState) endOfInput() {
	st.flush("")
}

func (st *streamState) flush(date string) {
	desired := weekcode.Sentinel
	if date != "" {
		desired = weekcode.FromWeekToken(date)
	}
	for _, m := range st.models {
		st.records = append(st.records, Record{
			OrderNumber:        st.contract,
			Model:              m,
			ConfirmationNumber: st.confirmation,
			DesiredDate:        desired,
		})
	}
	st.models = st.models[:0]
}
