package extract

import (
	"regexp"
	"strings"

	"github.com/ccollicutt/orderscan/pkg/reference"
)

var (
	orderPattern = regexp.MustCompile(`(?i)(Bestellung|Bestelltext)\s+(\S{5,6})`)

	// confirmationPattern finds a confirmation number inside running text.
	confirmationPattern = regexp.MustCompile(`\b(144|145)\d{6,8}\b`)

	// confirmationToken matches a whole token that is a confirmation number.
	confirmationToken = regexp.MustCompile(`^(144|145)\d{6,8}$`)
)

// FindOrderNumber returns the first 5-6 character token following
// "Bestellung" or "Bestelltext" whose first two characters are a valid branch.
func FindOrderNumber(text string, tables *reference.Tables) (string, bool) {
	for _, m := range orderPattern.FindAllStringSubmatch(text, -1) {
		candidate := m[2]
		runes := []rune(candidate)
		if len(runes) < 2 {
			continue
		}
		if tables.IsValidBranch(strings.ToUpper(string(runes[:2]))) {
			return candidate, true
		}
	}
	return "", false
}

// FindConfirmationNumber returns the first confirmation number in text.
func FindConfirmationNumber(text string) (string, bool) {
	m := confirmationPattern.FindString(text)
	return m, m != ""
}

// IsConfirmationNumber reports whether token is exactly a confirmation number.
func IsConfirmationNumber(token string) bool {
	return confirmationToken.MatchString(token)
}
