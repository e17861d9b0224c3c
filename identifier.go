package summary

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrBadCellIJK = errors.New("malformed cell IJK")
	ErrBadNumber  = errors.New("malformed number")
)

// Identifier names one of the raw identifier fields accepted by Parse.
type Identifier int

const (
	IdentifierVectorName Identifier = iota
	IdentifierWellName
	IdentifierWellGroupName
	IdentifierCellIJK
	IdentifierRegionNumber
	IdentifierRegion2Number
	IdentifierSegmentNumber
	IdentifierLGRName
	IdentifierAquiferNumber
	IdentifierID
)

// Parse builds an address of category c from raw identifier strings.
// Only the identifiers relevant to c are consulted; the others are
// ignored.  A missing identifier leaves its field unset.
func Parse(c Category, ids map[Identifier]string) (Address, error) {
	a := newAddress(c, ids[IdentifierVectorName])
	var err error
	switch c {
	case CategoryRegion:
		a.Region, err = number(ids, IdentifierRegionNumber)
	case CategoryRegion2Region:
		if a.Region, err = number(ids, IdentifierRegionNumber); err == nil {
			a.Region2, err = number(ids, IdentifierRegion2Number)
		}
	case CategoryWellGroup:
		a.WellGroup = ids[IdentifierWellGroupName]
	case CategoryWell:
		a.Well = ids[IdentifierWellName]
	case CategoryWellCompletion:
		a.Well = ids[IdentifierWellName]
		a.I, a.J, a.K, err = cellIJK(ids)
	case CategoryWellLGR:
		a.LGR = ids[IdentifierLGRName]
		a.Well = ids[IdentifierWellName]
	case CategoryWellCompletionLGR:
		a.LGR = ids[IdentifierLGRName]
		a.Well = ids[IdentifierWellName]
		a.I, a.J, a.K, err = cellIJK(ids)
	case CategoryWellSegment:
		a.Well = ids[IdentifierWellName]
		a.Segment, err = number(ids, IdentifierSegmentNumber)
	case CategoryBlock:
		a.I, a.J, a.K, err = cellIJK(ids)
	case CategoryBlockLGR:
		a.LGR = ids[IdentifierLGRName]
		a.I, a.J, a.K, err = cellIJK(ids)
	case CategoryAquifer:
		a.Aquifer, err = number(ids, IdentifierAquiferNumber)
	case CategoryCalculated:
		a.ID, err = number(ids, IdentifierID)
	}
	if err != nil {
		return Address{}, fmt.Errorf("%s address %q: %w", c, a.Quantity, err)
	}
	return a, nil
}

func number(ids map[Identifier]string, id Identifier) (int, error) {
	s, ok := ids[id]
	if !ok {
		return -1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1, fmt.Errorf("%w: %q", ErrBadNumber, s)
	}
	return n, nil
}

func cellIJK(ids map[Identifier]string) (int, int, int, error) {
	s, ok := ids[IdentifierCellIJK]
	if !ok {
		return -1, -1, -1, nil
	}
	return ParseIJK(s)
}

// ParseIJK splits a string of the form "I,J,K" into its three integers.
func ParseIJK(s string) (int, int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return -1, -1, -1, fmt.Errorf("%w: %q", ErrBadCellIJK, s)
	}
	var ijk [3]int
	for k, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return -1, -1, -1, fmt.Errorf("%w: %q", ErrBadCellIJK, s)
		}
		ijk[k] = n
	}
	return ijk[0], ijk[1], ijk[2], nil
}
