package summary

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBadTextAddress = errors.New("malformed text address")

const errorPrefix = "ERR:"

// TextAddress renders a in the compact colon-separated form used on
// command lines and as the general lookup key of a summary header, e.g.
// "WOPR:P1", "BPR:10,2,3" or "RGFT:1-2".
func (a Address) TextAddress() string {
	var b strings.Builder
	if a.Error {
		b.WriteString(errorPrefix)
	}
	b.WriteString(a.Quantity)
	switch a.Category {
	case CategoryRegion:
		fmt.Fprintf(&b, ":%d", a.Region)
	case CategoryRegion2Region:
		fmt.Fprintf(&b, ":%d-%d", a.Region, a.Region2)
	case CategoryWellGroup:
		b.WriteString(":" + a.WellGroup)
	case CategoryWell:
		b.WriteString(":" + a.Well)
	case CategoryWellCompletion:
		fmt.Fprintf(&b, ":%s:%s", a.Well, a.ijkText(","))
	case CategoryWellLGR:
		fmt.Fprintf(&b, ":%s:%s", a.LGR, a.Well)
	case CategoryWellCompletionLGR:
		fmt.Fprintf(&b, ":%s:%s:%s", a.LGR, a.Well, a.ijkText(","))
	case CategoryWellSegment:
		fmt.Fprintf(&b, ":%s:%d", a.Well, a.Segment)
	case CategoryBlock:
		b.WriteString(":" + a.ijkText(","))
	case CategoryBlockLGR:
		fmt.Fprintf(&b, ":%s:%s", a.LGR, a.ijkText(","))
	case CategoryAquifer:
		fmt.Fprintf(&b, ":%d", a.Aquifer)
	}
	return b.String()
}

// FromTextAddress parses the form produced by TextAddress.  The category
// is derived from the quantity mnemonic.  A bare quantity whose mnemonic
// is not classified is taken to be a MISC vector.
func FromTextAddress(s string) (Address, error) {
	text := strings.TrimSpace(s)
	isErr := strings.HasPrefix(text, errorPrefix)
	text = strings.TrimPrefix(text, errorPrefix)
	tokens := strings.Split(text, ":")
	for k := range tokens {
		tokens[k] = strings.TrimSpace(tokens[k])
	}
	quantity := tokens[0]
	if quantity == "" {
		return Address{}, fmt.Errorf("%w: %q", ErrBadTextAddress, s)
	}
	c := CategoryFromMnemonic(quantity)
	if c == CategoryInvalid && len(tokens) == 1 {
		c = CategoryMisc
	}
	a, err := fromTokens(c, quantity, tokens[1:])
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %w", ErrBadTextAddress, s, err)
	}
	return a.WithError(isErr), nil
}

func fromTokens(c Category, quantity string, tokens []string) (Address, error) {
	want := map[Category]int{
		CategoryField:             0,
		CategoryMisc:              0,
		CategoryNetwork:           0,
		CategoryRegion:            1,
		CategoryRegion2Region:     1,
		CategoryWellGroup:         1,
		CategoryWell:              1,
		CategoryWellCompletion:    2,
		CategoryWellLGR:           2,
		CategoryWellCompletionLGR: 3,
		CategoryWellSegment:       2,
		CategoryBlock:             1,
		CategoryBlockLGR:          2,
		CategoryAquifer:           1,
	}
	n, ok := want[c]
	if !ok {
		return Address{}, fmt.Errorf("unsupported category %s", c)
	}
	if len(tokens) != n {
		return Address{}, fmt.Errorf("%s expects %d identifiers, got %d", c, n, len(tokens))
	}
	ids := map[Identifier]string{IdentifierVectorName: quantity}
	switch c {
	case CategoryRegion:
		ids[IdentifierRegionNumber] = tokens[0]
	case CategoryRegion2Region:
		r1, r2, ok := strings.Cut(tokens[0], "-")
		if !ok {
			return Address{}, fmt.Errorf("region pair %q", tokens[0])
		}
		ids[IdentifierRegionNumber] = strings.TrimSpace(r1)
		ids[IdentifierRegion2Number] = strings.TrimSpace(r2)
	case CategoryWellGroup:
		ids[IdentifierWellGroupName] = tokens[0]
	case CategoryWell:
		ids[IdentifierWellName] = tokens[0]
	case CategoryWellCompletion:
		ids[IdentifierWellName] = tokens[0]
		ids[IdentifierCellIJK] = stripSpace(tokens[1])
	case CategoryWellLGR:
		ids[IdentifierLGRName] = tokens[0]
		ids[IdentifierWellName] = tokens[1]
	case CategoryWellCompletionLGR:
		ids[IdentifierLGRName] = tokens[0]
		ids[IdentifierWellName] = tokens[1]
		ids[IdentifierCellIJK] = stripSpace(tokens[2])
	case CategoryWellSegment:
		ids[IdentifierWellName] = tokens[0]
		ids[IdentifierSegmentNumber] = tokens[1]
	case CategoryBlock:
		ids[IdentifierCellIJK] = stripSpace(tokens[0])
	case CategoryBlockLGR:
		ids[IdentifierLGRName] = tokens[0]
		ids[IdentifierCellIJK] = stripSpace(tokens[1])
	case CategoryAquifer:
		ids[IdentifierAquiferNumber] = tokens[0]
	}
	return Parse(c, ids)
}

func stripSpace(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
