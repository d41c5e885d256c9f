// Package weekcode normalizes delivery dates found in order confirmations into
// the four-digit week code WWYY (ISO week, two-digit year).
package weekcode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ccollicutt/orderscan/pkg/reference"
)

// Sentinel marks a date that could not be determined.
const Sentinel = "00.00.0000"

var (
	// labelledDatePattern captures a date after one of the two accepted labels.
	labelledDatePattern = regexp.MustCompile(`(?i)(?:WUNSCHLIEFERTERMIN|WOCHE)\s*:?\s*(\d{1,2}\.\d{1,2}\.\d{4}|\d{1,2}\.\d{4})`)

	fullDatePattern = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`)
	weekYearPattern = regexp.MustCompile(`^\d{1,2}\.\d{4}$`)
)

// fullDateLayout accepts one or two digit day and month and a four digit year.
const fullDateLayout = "2.1.2006"

// FindDateToken returns the first labelled date in line.
func FindDateToken(line string) (string, bool) {
	m := labelledDatePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsWeekYear reports whether s has the D.YYYY shape.
func IsWeekYear(s string) bool {
	return weekYearPattern.MatchString(s)
}

// Normalizer converts raw date tokens into week codes. Keywords come from the
// reference tables and pass through unchanged.
type Normalizer struct {
	tables *reference.Tables
}

// New creates a Normalizer. A nil tables value selects reference.Default().
func New(tables *reference.Tables) *Normalizer {
	if tables == nil {
		tables = reference.Default()
	}
	return &Normalizer{tables: tables}
}

// Normalize converts raw into WWYY when it is a full date or a week-year token.
// Everything else, including values that fail to parse, is returned unchanged.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" || raw == Sentinel {
		return raw
	}
	if n.tables.IsExceptionalKeyword(raw) {
		return raw
	}
	if fullDatePattern.MatchString(raw) {
		return fromFullDate(raw)
	}
	if weekYearPattern.MatchString(raw) {
		return fromWeekYear(raw)
	}
	return raw
}

// IsExceptional reports whether a normalized value should be flagged: the
// sentinel or a lifecycle keyword.
func (n *Normalizer) IsExceptional(normalized string) bool {
	return normalized == Sentinel || n.tables.IsExceptionalKeyword(normalized)
}

func fromFullDate(raw string) string {
	d, err := time.Parse(fullDateLayout, raw)
	if err != nil {
		return raw
	}
	_, week := d.ISOWeek()
	return fmt.Sprintf("%02d%02d", week, d.Year()%100)
}

func fromWeekYear(raw string) string {
	weekStr, yearStr, ok := strings.Cut(raw, ".")
	if !ok {
		return raw
	}
	week, err := strconv.Atoi(weekStr)
	if err != nil {
		return raw
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return raw
	}
	return fmt.Sprintf("%02d%02d", week, year%100)
}

// FromWeekToken converts a stream-layout date token ("KW 05.2024" or
// "5.2024") into WWYY. Other tokens, such as lifecycle markers, are returned
// unchanged.
func FromWeekToken(token string) string {
	trimmed := strings.TrimSpace(token)
	if len(trimmed) >= 3 && strings.EqualFold(trimmed[:3], "kw ") {
		trimmed = strings.TrimSpace(trimmed[3:])
	}
	if !weekYearPattern.MatchString(trimmed) {
		return token
	}
	return fromWeekYear(trimmed)
}
