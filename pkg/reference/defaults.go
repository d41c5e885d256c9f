package reference

import "sync"

// DefaultBranches are the two-character branch prefixes of valid order numbers.
var DefaultBranches = []string{
	"AU", "BE", "BI", "BO", "BR", "DO", "DR", "DU", "ER", "ES",
	"FR", "HA", "HB", "HH", "HN", "KA", "KI", "KO", "LE", "LU",
	"MA", "MD", "MS", "MU", "NU", "OS", "RE", "RO", "SB", "ST",
	"UL", "WI", "WU",
}

// DefaultModels is the built-in device model catalog.
var DefaultModels = []string{
	"BK1200", "BK1400", "BK1600",
	"CM450", "CM470", "CM490",
	"DX22", "DX24", "DX26", "DX28",
	"EW600", "EW700", "EW800",
	"FG510", "FG520",
	"KG3650", "KG3670", "KG3890",
	"TW710", "TW730", "TW750",
	"WA814", "WA816", "WA914",
	"WT44", "WT46", "WT48",
}

// DefaultKeywords are the lifecycle statuses that may replace a delivery date.
// Order matters for FindKeyword: longer keywords that contain shorter ones
// come first.
var DefaultKeywords = []string{
	"auslauf",
	"neuanlauf",
	"ersatzlos",
	"ausgelaufen",
	"bezugsberechtigung",
	"nicht bezogen",
	"berechtigung",
	"nicht bekannt",
	"unbekannt",
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the built-in tables. The value is shared and must not be
// modified.
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := New(DefaultBranches, DefaultModels, DefaultKeywords)
		if err != nil {
			panic("reference: invalid built-in tables: " + err.Error())
		}
		defaultTables = t
	})
	return defaultTables
}

// Overrides describes reference data supplied by configuration.
// Replacement lists take precedence over the defaults; Extra lists are appended.
type Overrides struct {
	Branches    []string `yaml:"branches,omitempty"`
	Models      []string `yaml:"models,omitempty"`
	ExtraModels []string `yaml:"extra_models,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
}

// IsZero reports whether no override is set.
func (o Overrides) IsZero() bool {
	return len(o.Branches) == 0 && len(o.Models) == 0 && len(o.ExtraModels) == 0 && len(o.Keywords) == 0
}

// Build merges the overrides with the defaults.
func (o Overrides) Build() (*Tables, error) {
	if o.IsZero() {
		return Default(), nil
	}

	branches := DefaultBranches
	if len(o.Branches) > 0 {
		branches = o.Branches
	}

	models := DefaultModels
	if len(o.Models) > 0 {
		models = o.Models
	}
	if len(o.ExtraModels) > 0 {
		models = append(append([]string(nil), models...), o.ExtraModels...)
	}

	keywords := DefaultKeywords
	if len(o.Keywords) > 0 {
		keywords = o.Keywords
	}

	return New(branches, models, keywords)
}
