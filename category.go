package summary

import (
	"fmt"
	"strings"
)

// Category identifies which kind of object a summary vector describes.
type Category int

const (
	CategoryInvalid Category = iota
	CategoryField
	CategoryAquifer
	CategoryNetwork
	CategoryMisc
	CategoryRegion
	CategoryRegion2Region
	CategoryWellGroup
	CategoryWell
	CategoryWellCompletion
	CategoryWellLGR
	CategoryWellCompletionLGR
	CategoryWellSegment
	CategoryBlock
	CategoryBlockLGR
	CategoryCalculated
	CategoryImported
	CategoryEnsembleStatistics
)

var categoryNames = [...]string{
	CategoryInvalid:            "INVALID",
	CategoryField:              "FIELD",
	CategoryAquifer:            "AQUIFER",
	CategoryNetwork:            "NETWORK",
	CategoryMisc:               "MISC",
	CategoryRegion:             "REGION",
	CategoryRegion2Region:      "REGION_2_REGION",
	CategoryWellGroup:          "WELL_GROUP",
	CategoryWell:               "WELL",
	CategoryWellCompletion:     "WELL_COMPLETION",
	CategoryWellLGR:            "WELL_LGR",
	CategoryWellCompletionLGR:  "WELL_COMPLETION_LGR",
	CategoryWellSegment:        "WELL_SEGMENT",
	CategoryBlock:              "BLOCK",
	CategoryBlockLGR:           "BLOCK_LGR",
	CategoryCalculated:         "CALCULATED",
	CategoryImported:           "IMPORTED",
	CategoryEnsembleStatistics: "ENSEMBLE_STATISTICS",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// LookupCategory returns the category with the given name, as produced
// by String, or CategoryInvalid.
func LookupCategory(name string) Category {
	name = strings.ToUpper(name)
	for c, s := range categoryNames {
		if s == name {
			return Category(c)
		}
	}
	return CategoryInvalid
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	*c = LookupCategory(string(b))
	if *c == CategoryInvalid && string(b) != "INVALID" {
		return fmt.Errorf("unknown summary category %q", b)
	}
	return nil
}

// Mnemonics that are always classified as MISC regardless of their
// first letter.
var miscMnemonics = map[string]struct{}{
	"NEWTON":   {},
	"NLINEARS": {},
	"ELAPSED":  {},
	"MAXDPR":   {},
	"MAXDSO":   {},
	"MAXDSG":   {},
	"MAXDSW":   {},
	"STEPTYPE": {},
}

// CategoryFromMnemonic classifies a simulator quantity mnemonic by its
// prefix.  Mnemonics matching no rule are CategoryInvalid.
func CategoryFromMnemonic(word string) Category {
	if word == "" {
		return CategoryInvalid
	}
	if _, ok := miscMnemonics[word]; ok {
		return CategoryMisc
	}
	if len(word) > 1 && word[0] == 'L' {
		switch word[1] {
		case 'B':
			return CategoryBlockLGR
		case 'C':
			return CategoryWellCompletionLGR
		case 'W':
			return CategoryWellLGR
		}
	}
	switch word[0] {
	case 'A':
		return CategoryAquifer
	case 'B':
		return CategoryBlock
	case 'C':
		return CategoryWellCompletion
	case 'F':
		return CategoryField
	case 'G':
		return CategoryWellGroup
	case 'N':
		return CategoryNetwork
	case 'R':
		if (len(word) == 3 && word[2] == 'F') || (len(word) == 4 && word[3] == 'F') {
			return CategoryRegion2Region
		}
		return CategoryRegion
	case 'S':
		return CategoryWellSegment
	case 'W':
		return CategoryWell
	}
	return CategoryInvalid
}
