// Package summary provides the addressing scheme for reservoir
// simulation summary vectors.
//
// An Address identifies one vector: a quantity (e.g. WOPR) plus the
// object it is measured on (a well, a region, a grid cell, ...).  The
// Category tag decides which identifier fields are meaningful.  Addresses
// built with the constructors in this package or with Parse populate only
// the fields relevant to their category.  Other addresses, such as struct
// literals, should be passed through Normalize before they are compared
// with == or used as map keys.
package summary

import (
	"cmp"
	"fmt"
	"strings"
)

type Address struct {
	Category  Category
	Quantity  string
	Region    int
	Region2   int
	WellGroup string
	Well      string
	LGR       string
	Segment   int
	I         int
	J         int
	K         int
	Aquifer   int
	ID        int
	Error     bool
}

func newAddress(c Category, quantity string) Address {
	return Address{
		Category: c,
		Quantity: quantity,
		Region:   -1,
		Region2:  -1,
		Segment:  -1,
		I:        -1,
		J:        -1,
		K:        -1,
		Aquifer:  -1,
		ID:       -1,
	}
}

func Field(quantity string) Address {
	return newAddress(CategoryField, quantity)
}

func Misc(quantity string) Address {
	return newAddress(CategoryMisc, quantity)
}

func Network(quantity string) Address {
	return newAddress(CategoryNetwork, quantity)
}

func Imported(quantity string) Address {
	return newAddress(CategoryImported, quantity)
}

func EnsembleStatistics(quantity string) Address {
	return newAddress(CategoryEnsembleStatistics, quantity)
}

func Aquifer(quantity string, n int) Address {
	a := newAddress(CategoryAquifer, quantity)
	a.Aquifer = n
	return a
}

func Region(quantity string, n int) Address {
	a := newAddress(CategoryRegion, quantity)
	a.Region = n
	return a
}

func Region2Region(quantity string, n1, n2 int) Address {
	a := newAddress(CategoryRegion2Region, quantity)
	a.Region = n1
	a.Region2 = n2
	return a
}

func WellGroup(quantity, group string) Address {
	a := newAddress(CategoryWellGroup, quantity)
	a.WellGroup = group
	return a
}

func Well(quantity, well string) Address {
	a := newAddress(CategoryWell, quantity)
	a.Well = well
	return a
}

func WellCompletion(quantity, well string, i, j, k int) Address {
	a := newAddress(CategoryWellCompletion, quantity)
	a.Well = well
	a.I, a.J, a.K = i, j, k
	return a
}

func WellLGR(quantity, lgr, well string) Address {
	a := newAddress(CategoryWellLGR, quantity)
	a.LGR = lgr
	a.Well = well
	return a
}

func WellCompletionLGR(quantity, lgr, well string, i, j, k int) Address {
	a := newAddress(CategoryWellCompletionLGR, quantity)
	a.LGR = lgr
	a.Well = well
	a.I, a.J, a.K = i, j, k
	return a
}

// WellSegment addresses a segment of a multi-segment well.  A segment
// carries no cell location.
func WellSegment(quantity, well string, segment int) Address {
	a := newAddress(CategoryWellSegment, quantity)
	a.Well = well
	a.Segment = segment
	return a
}

func Block(quantity string, i, j, k int) Address {
	a := newAddress(CategoryBlock, quantity)
	a.I, a.J, a.K = i, j, k
	return a
}

func BlockLGR(quantity, lgr string, i, j, k int) Address {
	a := newAddress(CategoryBlockLGR, quantity)
	a.LGR = lgr
	a.I, a.J, a.K = i, j, k
	return a
}

// Calculated addresses the result of a user calculation.  The id
// disambiguates calculations that share a name.
func Calculated(quantity string, id int) Address {
	a := newAddress(CategoryCalculated, quantity)
	a.ID = id
	return a
}

// WithError returns a copy of a flagged as the error (uncertainty)
// vector of the quantity it names.
func (a Address) WithError(flag bool) Address {
	a.Error = flag
	return a
}

func (a Address) IsValid() bool {
	return a.Category != CategoryInvalid && a.Quantity != ""
}

func (a Address) Equal(b Address) bool {
	return Compare(a, b) == 0
}

// Normalize returns a with every field not meaningful to its category
// reset to the value the constructors use, so that Normalize(a) ==
// Normalize(b) exactly when Compare(a, b) == 0.
func (a Address) Normalize() Address {
	var n Address
	switch a.Category {
	case CategoryRegion:
		n = Region(a.Quantity, a.Region)
	case CategoryRegion2Region:
		n = Region2Region(a.Quantity, a.Region, a.Region2)
	case CategoryWellGroup:
		n = WellGroup(a.Quantity, a.WellGroup)
	case CategoryWell:
		n = Well(a.Quantity, a.Well)
	case CategoryWellCompletion:
		n = WellCompletion(a.Quantity, a.Well, a.I, a.J, a.K)
	case CategoryWellLGR:
		n = WellLGR(a.Quantity, a.LGR, a.Well)
	case CategoryWellCompletionLGR:
		n = WellCompletionLGR(a.Quantity, a.LGR, a.Well, a.I, a.J, a.K)
	case CategoryWellSegment:
		n = WellSegment(a.Quantity, a.Well, a.Segment)
	case CategoryBlock:
		n = Block(a.Quantity, a.I, a.J, a.K)
	case CategoryBlockLGR:
		n = BlockLGR(a.Quantity, a.LGR, a.I, a.J, a.K)
	case CategoryAquifer:
		n = Aquifer(a.Quantity, a.Aquifer)
	case CategoryCalculated:
		n = Calculated(a.Quantity, a.ID)
	default:
		n = newAddress(a.Category, a.Quantity)
	}
	n.Error = a.Error
	return n
}

// Compare orders addresses by category, then quantity, then by the
// identifiers meaningful to the category, and finally by the error flag.
func Compare(a, b Address) int {
	if c := cmp.Compare(a.Category, b.Category); c != 0 {
		return c
	}
	if c := strings.Compare(a.Quantity, b.Quantity); c != 0 {
		return c
	}
	if c := compareIdentifiers(a, b); c != 0 {
		return c
	}
	switch {
	case a.Error == b.Error:
		return 0
	case !a.Error:
		return -1
	default:
		return 1
	}
}

func compareIdentifiers(a, b Address) int {
	switch a.Category {
	case CategoryRegion:
		return cmp.Compare(a.Region, b.Region)
	case CategoryRegion2Region:
		return cmp.Or(cmp.Compare(a.Region, b.Region), cmp.Compare(a.Region2, b.Region2))
	case CategoryWellGroup:
		return strings.Compare(a.WellGroup, b.WellGroup)
	case CategoryWell:
		return strings.Compare(a.Well, b.Well)
	case CategoryWellCompletion:
		return cmp.Or(strings.Compare(a.Well, b.Well), compareIJK(a, b))
	case CategoryWellLGR:
		return cmp.Or(strings.Compare(a.LGR, b.LGR), strings.Compare(a.Well, b.Well))
	case CategoryWellCompletionLGR:
		return cmp.Or(strings.Compare(a.LGR, b.LGR), strings.Compare(a.Well, b.Well), compareIJK(a, b))
	case CategoryWellSegment:
		return cmp.Or(strings.Compare(a.Well, b.Well), cmp.Compare(a.Segment, b.Segment))
	case CategoryBlock:
		return compareIJK(a, b)
	case CategoryBlockLGR:
		return cmp.Or(strings.Compare(a.LGR, b.LGR), compareIJK(a, b))
	case CategoryAquifer:
		return cmp.Compare(a.Aquifer, b.Aquifer)
	case CategoryCalculated:
		return cmp.Compare(a.ID, b.ID)
	}
	return 0
}

func compareIJK(a, b Address) int {
	return cmp.Or(cmp.Compare(a.I, b.I), cmp.Compare(a.J, b.J), cmp.Compare(a.K, b.K))
}

// UIText renders a for display, e.g. "WOPR:P1" or "COFR:P1:10, 2, 3".
func (a Address) UIText() string {
	var b strings.Builder
	if a.Error {
		b.WriteString("ERR:")
	}
	b.WriteString(a.Quantity)
	switch a.Category {
	case CategoryRegion:
		fmt.Fprintf(&b, ":%d", a.Region)
	case CategoryRegion2Region:
		fmt.Fprintf(&b, ":%d - %d", a.Region, a.Region2)
	case CategoryWellGroup:
		b.WriteString(":" + a.WellGroup)
	case CategoryWell:
		b.WriteString(":" + a.Well)
	case CategoryWellCompletion:
		fmt.Fprintf(&b, ":%s:%s", a.Well, a.ijkText(", "))
	case CategoryWellLGR:
		fmt.Fprintf(&b, ":%s:%s", a.LGR, a.Well)
	case CategoryWellCompletionLGR:
		fmt.Fprintf(&b, ":%s:%s:%s", a.LGR, a.Well, a.ijkText(", "))
	case CategoryWellSegment:
		fmt.Fprintf(&b, ":%s:%d", a.Well, a.Segment)
	case CategoryBlock:
		b.WriteString(":" + a.ijkText(", "))
	case CategoryBlockLGR:
		fmt.Fprintf(&b, ":%s:%s", a.LGR, a.ijkText(", "))
	case CategoryAquifer:
		fmt.Fprintf(&b, ":%d", a.Aquifer)
	}
	return b.String()
}

func (a Address) String() string {
	return a.UIText()
}

func (a Address) ijkText(sep string) string {
	return fmt.Sprintf("%d%s%d%s%d", a.I, sep, a.J, sep, a.K)
}

// IsHistorical reports whether the quantity is the observed history
// counterpart of a simulated quantity (e.g. WOPRH for WOPR).
func (a Address) IsHistorical() bool {
	return len(a.Quantity) > 1 && strings.HasSuffix(a.Quantity, "H")
}

var rateQuantities = []string{"OPR", "GPR", "WPR", "LPR", "OIR", "GIR", "WIR", "LIR", "GOR", "WCT", "OFR", "GFR", "WFR"}

var totalQuantities = []string{
	"OPT", "GPT", "WPT", "GIT", "WIT", "OPTF", "OPTS", "OIT", "OVPT", "OVIT", "MWT",
	"WVPT", "WVIT", "GMT", "GPTF", "SGT", "GST", "FGT", "GCT", "GIMT",
	"WGPT", "WGIT", "EGT", "EXGT", "GVPT", "GVIT", "LPT", "VPT", "VIT", "NPT", "NIT",
	"CPT", "CIT",
}

var segmentTotalQuantities = []string{"OFT", "GFT", "WFT"}

// IsRate reports whether the quantity is a flow rate.  The leading
// category letter is ignored and a trailing H is allowed.
func (a Address) IsRate() bool {
	return hasStem(a.Quantity, rateQuantities)
}

// IsTotal reports whether the quantity is a cumulative total.
func (a Address) IsTotal() bool {
	switch a.Category {
	case CategoryWell, CategoryWellGroup, CategoryField, CategoryRegion, CategoryWellCompletion:
		return hasStem(a.Quantity, totalQuantities)
	case CategoryWellSegment:
		return hasStem(a.Quantity, segmentTotalQuantities)
	}
	return false
}

func hasStem(quantity string, stems []string) bool {
	if len(quantity) < 2 {
		return false
	}
	rest := quantity[1:]
	for _, s := range stems {
		if strings.HasPrefix(rest, s) {
			return true
		}
	}
	return false
}
