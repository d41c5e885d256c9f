// Package reference holds the static lookup tables used by the extractors:
// valid branch codes, the device model catalog and the lifecycle keywords
// that stand in for a delivery date.
package reference

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Tables is an immutable set of reference data.
// It is safe for concurrent use once constructed.
type Tables struct {
	branches []string
	models   []string
	keywords []string

	branchSet  map[string]struct{}
	modelSet   map[string]struct{}
	keywordSet map[string]struct{}

	// modelPatterns[i] matches models[i] as a whole word, case-insensitively.
	modelPatterns []*regexp.Regexp
}

// New builds tables from the given lists. Entries are kept in the given order,
// which decides tie-breaks in FindKeyword and ModelsInLine.
func New(branches, models, keywords []string) (*Tables, error) {
	if len(branches) == 0 {
		return nil, errors.New("branches: at least one branch code is required")
	}
	if len(models) == 0 {
		return nil, errors.New("models: at least one model is required")
	}
	if len(keywords) == 0 {
		return nil, errors.New("keywords: at least one keyword is required")
	}

	t := &Tables{
		branchSet:  make(map[string]struct{}, len(branches)),
		modelSet:   make(map[string]struct{}, len(models)),
		keywordSet: make(map[string]struct{}, len(keywords)),
	}

	for i, b := range branches {
		b = strings.TrimSpace(b)
		if utf8.RuneCountInString(b) != 2 {
			return nil, fmt.Errorf("branches[%d]: %q must be exactly 2 characters", i, b)
		}
		t.branches = append(t.branches, b)
		t.branchSet[strings.ToUpper(b)] = struct{}{}
	}

	for i, m := range models {
		m = strings.TrimSpace(m)
		if m == "" {
			return nil, fmt.Errorf("models[%d]: empty model name", i)
		}
		key := strings.ToLower(m)
		if _, dup := t.modelSet[key]; dup {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(m) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("models[%d]: %w", i, err)
		}
		t.models = append(t.models, m)
		t.modelSet[key] = struct{}{}
		t.modelPatterns = append(t.modelPatterns, re)
	}

	for i, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			return nil, fmt.Errorf("keywords[%d]: empty keyword", i)
		}
		if _, dup := t.keywordSet[k]; dup {
			continue
		}
		t.keywords = append(t.keywords, k)
		t.keywordSet[k] = struct{}{}
	}

	return t, nil
}

// IsValidBranch reports whether code is a known branch code (case-insensitive).
func (t *Tables) IsValidBranch(code string) bool {
	_, ok := t.branchSet[strings.ToUpper(code)]
	return ok
}

// IsKnownModel reports whether token is exactly a catalog model (case-insensitive).
func (t *Tables) IsKnownModel(token string) bool {
	_, ok := t.modelSet[strings.ToLower(token)]
	return ok
}

// IsExceptionalKeyword reports whether text is exactly one of the lifecycle
// keywords (case-insensitive).
func (t *Tables) IsExceptionalKeyword(text string) bool {
	_, ok := t.keywordSet[strings.ToLower(text)]
	return ok
}

// FindKeyword returns the first keyword, in table order, contained anywhere
// in line.
func (t *Tables) FindKeyword(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, k := range t.keywords {
		if strings.Contains(lower, k) {
			return k, true
		}
	}
	return "", false
}

// ModelsInLine returns every catalog model occurring as a whole word in line.
// Each model is reported at most once, in catalog order and catalog spelling.
func (t *Tables) ModelsInLine(line string) []string {
	var found []string
	for i, re := range t.modelPatterns {
		if re.MatchString(line) {
			found = append(found, t.models[i])
		}
	}
	return found
}

// Branches returns a copy of the branch codes.
func (t *Tables) Branches() []string { return append([]string(nil), t.branches...) }

// Models returns a copy of the model catalog.
func (t *Tables) Models() []string { return append([]string(nil), t.models...) }

// Keywords returns a copy of the lifecycle keywords (lower case).
func (t *Tables) Keywords() []string { return append([]string(nil), t.keywords...) }
