package smspec

import (
	"fmt"

	"github.com/brimdata/summary"
)

// DummyWell is the well name ECLIPSE writes where a name does not apply.
const DummyWell = ":+:+:+:+"

// Node is one stored quantity of a summary header.
type Node struct {
	// ID is the node's position in the header's arena.
	ID int
	// Params is the offset of the quantity in each PARAMS record.
	Params  int
	Keyword string
	WGName  string
	Num     int
	Unit    string
	Address summary.Address
	// Valid is false for nodes that occupy a params slot but are not
	// indexed, e.g. well quantities written for the dummy well.
	Valid   bool
	Default float64
	LGR     LGR
}

// Key returns the node's primary lookup key, e.g. "WOPR:P1".
func (n *Node) Key() string {
	return n.Address.TextAddress()
}

// SecondaryKey returns the alternative key under which block, completion
// and region-to-region nodes are also indexed, using the raw NUMS value
// in place of decoded coordinates.  It is empty for other nodes.
func (n *Node) SecondaryKey() string {
	switch n.Address.Category {
	case summary.CategoryBlock, summary.CategoryRegion2Region:
		return fmt.Sprintf("%s:%d", n.Keyword, n.Num)
	case summary.CategoryWellCompletion:
		return fmt.Sprintf("%s:%s:%d", n.Keyword, n.WGName, n.Num)
	}
	return ""
}

// Grid holds the dimensions used to convert a global cell number into
// 1-based I, J, K.
type Grid struct {
	NX, NY, NZ int
}

// IJK converts a 1-based global cell number to 1-based cell coordinates.
func (g Grid) IJK(global int) (int, int, int) {
	if g.NX <= 0 || g.NY <= 0 || global <= 0 {
		return -1, -1, -1
	}
	g0 := global - 1
	k := g0 / (g.NX * g.NY)
	rest := g0 - k*g.NX*g.NY
	j := rest / g.NX
	i := rest - j*g.NX
	return i + 1, j + 1, k + 1
}

// Global is the inverse of IJK.
func (g Grid) Global(i, j, k int) int {
	return i + (j-1)*g.NX + (k-1)*g.NX*g.NY
}

// Region2Region decodes the NUMS value of a region-to-region quantity.
func Region2Region(num int) (int, int) {
	r1 := num % 32768
	r2 := (num-r1)/32768 - 10
	return r1, r2
}

// EncodeRegion2Region is the inverse of Region2Region.
func EncodeRegion2Region(r1, r2 int) int {
	return r1 + (r2+10)*32768
}

// LGR carries the local grid of an LGR quantity.
type LGR struct {
	Name    string
	I, J, K int
}

// MakeAddress resolves a raw header entry into an address.  The second
// result is false when the entry is not a quantity that can be indexed:
// a well or group quantity without a real name, a numbered quantity
// without a number, or a network quantity.  Mnemonics that cannot be
// classified are treated as MISC.
func MakeAddress(keyword, wgname string, num int, grid Grid, lgr LGR) (summary.Address, bool) {
	if keyword == "" {
		return summary.Address{}, false
	}
	category := summary.CategoryFromMnemonic(keyword)
	if category == summary.CategoryInvalid {
		category = summary.CategoryMisc
	}
	named := wgname != "" && wgname != DummyWell
	switch category {
	case summary.CategoryField:
		return summary.Field(keyword), true
	case summary.CategoryMisc:
		return summary.Misc(keyword), true
	case summary.CategoryWell:
		return summary.Well(keyword, wgname), named
	case summary.CategoryWellGroup:
		return summary.WellGroup(keyword, wgname), named
	case summary.CategoryWellLGR:
		return summary.WellLGR(keyword, lgr.Name, wgname), named
	case summary.CategoryWellCompletionLGR:
		return summary.WellCompletionLGR(keyword, lgr.Name, wgname, lgr.I, lgr.J, lgr.K), named
	case summary.CategoryBlockLGR:
		return summary.BlockLGR(keyword, lgr.Name, lgr.I, lgr.J, lgr.K), true
	case summary.CategoryWellCompletion:
		i, j, k := grid.IJK(num)
		return summary.WellCompletion(keyword, wgname, i, j, k), wgname != DummyWell && num >= 0
	case summary.CategoryWellSegment:
		return summary.WellSegment(keyword, wgname, num), wgname != DummyWell && num >= 0
	case summary.CategoryRegion:
		return summary.Region(keyword, num), num >= 0
	case summary.CategoryRegion2Region:
		r1, r2 := Region2Region(num)
		return summary.Region2Region(keyword, r1, r2), num >= 0
	case summary.CategoryBlock:
		i, j, k := grid.IJK(num)
		return summary.Block(keyword, i, j, k), num >= 0
	case summary.CategoryAquifer:
		return summary.Aquifer(keyword, num), num >= 0
	}
	return summary.Network(keyword), false
}
