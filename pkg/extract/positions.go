package extract

import (
	"regexp"
	"strings"

	"github.com/ccollicutt/orderscan/pkg/reference"
	"github.com/ccollicutt/orderscan/pkg/weekcode"
)

var (
	positionPattern = regexp.MustCompile(`^\s*(\d{3})\b`)
	lineSplit       = regexp.MustCompile(`\r?\n`)
)

// PositionParser extracts records from documents organised in position blocks.
// A block starts at a line beginning with a 3-digit position number and runs
// until the next such line.
type PositionParser struct {
	tables     *reference.Tables
	normalizer *weekcode.Normalizer
}

// NewPositionParser creates a PositionParser. A nil tables value selects
// reference.Default().
func NewPositionParser(tables *reference.Tables) *PositionParser {
	if tables == nil {
		tables = reference.Default()
	}
	return &PositionParser{tables: tables, normalizer: weekcode.New(tables)}
}

// Strategy returns StrategyPositions.
func (p *PositionParser) Strategy() Strategy {
	return StrategyPositions
}

// Extract parses text into one record per model entry per block. The order
// and confirmation numbers are looked up once for the whole document and
// attached to every record.
func (p *PositionParser) Extract(text string) []Record {
	blocks := p.Blocks(text)
	if len(blocks) == 0 {
		return []Record{}
	}

	orderNumber, _ := FindOrderNumber(text, p.tables)
	confirmation, _ := FindConfirmationNumber(text)

	records := make([]Record, 0, len(blocks))
	for _, b := range blocks {
		date := p.normalizer.Normalize(b.DesiredDate)
		highlightDate := p.normalizer.IsExceptional(date)
		for _, m := range b.Models {
			records = append(records, Record{
				OrderNumber:        orderNumber,
				Model:              m.Name,
				ConfirmationNumber: confirmation,
				DesiredDate:        date,
				HighlightModel:     m.Guess,
				HighlightDate:      highlightDate,
			})
		}
	}
	return records
}

// PositionBlock is a finalized position block.
type PositionBlock struct {
	// Position is the 3-digit position number.
	Position string

	// Models lists the models found in the block, in discovery order.
	Models []ModelEntry

	// DesiredDate is the raw date token, a lifecycle keyword, or the sentinel.
	DesiredDate string

	// Lines are the raw lines of the block, starting with the opening line.
	Lines []string
}

// Blocks splits text into finalized position blocks. Lines before the first
// position line belong to no block.
func (p *PositionParser) Blocks(text string) []PositionBlock {
	s := positionScanner{tables: p.tables}
	for _, line := range lineSplit.Split(text, -1) {
		s.scan(line)
	}
	s.finish()
	return s.blocks
}

// positionScanner walks lines and holds at most one open block.
type positionScanner struct {
	tables *reference.Tables
	active *PositionBlock
	blocks []PositionBlock
}

func (s *positionScanner) scan(line string) {
	if loc := positionPattern.FindStringSubmatchIndex(line); loc != nil {
		s.open(line[loc[2]:loc[3]])
		s.addFirstWord(line[loc[1]:])
	}
	if s.active == nil {
		return
	}
	s.active.Lines = append(s.active.Lines, line)
	for _, name := range s.tables.ModelsInLine(line) {
		s.active.Models = append(s.active.Models, ModelEntry{Name: name})
	}
	if date, ok := weekcode.FindDateToken(line); ok {
		s.active.DesiredDate = date
	}
}

// open closes the active block, if any, and starts a new one.
func (s *positionScanner) open(position string) {
	s.close()
	s.active = &PositionBlock{Position: position}
}

// addFirstWord records the first word after the position number as a guess
// when it is not a catalog model. Catalog models are picked up by the line scan.
func (s *positionScanner) addFirstWord(rest string) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return
	}
	if !s.tables.IsKnownModel(fields[0]) {
		s.active.Models = append(s.active.Models, ModelEntry{Name: fields[0], Guess: true})
	}
}

// close finalizes the active block: a block without a usable date takes the
// first lifecycle keyword found in its lines, or the sentinel.
func (s *positionScanner) close() {
	if s.active == nil {
		return
	}
	b := s.active
	if b.DesiredDate == "" || b.DesiredDate == weekcode.Sentinel {
		b.DesiredDate = weekcode.Sentinel
		for _, l := range b.Lines {
			if kw, ok := s.tables.FindKeyword(l); ok {
				b.DesiredDate = kw
				break
			}
		}
	}
	s.blocks = append(s.blocks, *b)
	s.active = nil
}

func (s *positionScanner) finish() {
	s.close()
}
