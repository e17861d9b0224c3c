package smspec

import (
	"maps"
	"slices"

	"github.com/brimdata/summary"
)

type multimap[K comparable] map[K][]int

func (m multimap[K]) add(k K, id int) {
	m[k] = append(m[k], id)
}

type completionKey struct {
	well string
	num  int
}

// Index holds the nodes of a header in one arena and maps partial keys
// onto node ids.  The general key map covers every indexed node; each
// category with a dedicated lookup table is also reachable through
// exactly one of the specific maps.
type Index struct {
	nodes      []Node
	byKey      map[string]int
	byAddress  map[summary.Address]int
	wells      multimap[string]
	groups     multimap[string]
	regions    multimap[int]
	blocks     multimap[int]
	completion multimap[completionKey]
	misc       map[string]int
	field      map[string]int
}

func NewIndex() *Index {
	return &Index{
		byKey:      make(map[string]int),
		byAddress:  make(map[summary.Address]int),
		wells:      make(multimap[string]),
		groups:     make(multimap[string]),
		regions:    make(multimap[int]),
		blocks:     make(multimap[int]),
		completion: make(multimap[completionKey]),
		misc:       make(map[string]int),
		field:      make(map[string]int),
	}
}

// add appends n to the arena and, if it is valid, registers it in the
// general map and its category map.  A later node with the same key
// replaces an earlier one.
func (x *Index) add(n Node) int {
	n.ID = len(x.nodes)
	x.nodes = append(x.nodes, n)
	if n.Valid {
		x.register(n.ID)
	}
	return n.ID
}

func (x *Index) register(id int) {
	n := &x.nodes[id]
	x.byKey[n.Key()] = id
	if key := n.SecondaryKey(); key != "" {
		x.byKey[key] = id
	}
	n.Address = n.Address.Normalize()
	x.byAddress[n.Address] = id
	switch n.Address.Category {
	case summary.CategoryWell:
		x.wells.add(n.WGName, id)
	case summary.CategoryWellGroup:
		x.groups.add(n.WGName, id)
	case summary.CategoryRegion:
		x.regions.add(n.Num, id)
	case summary.CategoryBlock:
		x.blocks.add(n.Num, id)
	case summary.CategoryWellCompletion:
		x.completion.add(completionKey{n.WGName, n.Num}, id)
	case summary.CategoryMisc:
		x.misc[n.Keyword] = id
	case summary.CategoryField:
		x.field[n.Keyword] = id
	}
}

// Len returns the number of nodes in the arena, indexed or not.
func (x *Index) Len() int {
	return len(x.nodes)
}

// At returns the node with the given id.
func (x *Index) At(id int) *Node {
	return &x.nodes[id]
}

// Nodes returns the indexed nodes in header order.
func (x *Index) Nodes() []*Node {
	var out []*Node
	for k := range x.nodes {
		if n := &x.nodes[k]; n.Valid && x.byAddress[n.Address] == k {
			out = append(out, n)
		}
	}
	return out
}

func (x *Index) lookup(id int, ok bool) (*Node, bool) {
	if !ok {
		return nil, false
	}
	return &x.nodes[id], true
}

// Node finds the node for an address.
func (x *Index) Node(a summary.Address) (*Node, bool) {
	id, ok := x.byAddress[a.Normalize()]
	return x.lookup(id, ok)
}

// Key finds a node by its primary or secondary general key.
func (x *Index) Key(key string) (*Node, bool) {
	id, ok := x.byKey[key]
	return x.lookup(id, ok)
}

func (x *Index) find(ids []int, keyword string) (*Node, bool) {
	// Scan backwards so the latest duplicate wins, as in the general map.
	for k := len(ids) - 1; k >= 0; k-- {
		if n := &x.nodes[ids[k]]; n.Keyword == keyword {
			return n, true
		}
	}
	return nil, false
}

func (x *Index) WellVar(well, keyword string) (*Node, bool) {
	return x.find(x.wells[well], keyword)
}

func (x *Index) GroupVar(group, keyword string) (*Node, bool) {
	return x.find(x.groups[group], keyword)
}

func (x *Index) RegionVar(region int, keyword string) (*Node, bool) {
	return x.find(x.regions[region], keyword)
}

// BlockVar looks up a block quantity by global cell number.
func (x *Index) BlockVar(global int, keyword string) (*Node, bool) {
	return x.find(x.blocks[global], keyword)
}

// CompletionVar looks up a completion quantity by well and global cell
// number.
func (x *Index) CompletionVar(well string, global int, keyword string) (*Node, bool) {
	return x.find(x.completion[completionKey{well, global}], keyword)
}

func (x *Index) MiscVar(keyword string) (*Node, bool) {
	id, ok := x.misc[keyword]
	return x.lookup(id, ok)
}

func (x *Index) FieldVar(keyword string) (*Node, bool) {
	id, ok := x.field[keyword]
	return x.lookup(id, ok)
}

// Wells returns the sorted names of wells with at least one quantity.
func (x *Index) Wells() []string {
	return slices.Sorted(maps.Keys(x.wells))
}

func (x *Index) Groups() []string {
	return slices.Sorted(maps.Keys(x.groups))
}
