// Package calcio serves the results of a calculation collection for one
// summary case.
package calcio

import (
	"github.com/brimdata/summary"
	"github.com/brimdata/summary/calc"
	"github.com/brimdata/summary/sio"
)

// Reader answers only CALCULATED addresses.  Every other address is
// reported as not found.
type Reader struct {
	collection *calc.Collection
	caseID     string
}

var _ sio.Reader = (*Reader)(nil)

func NewReader(collection *calc.Collection, caseID string) *Reader {
	return &Reader{collection: collection, caseID: caseID}
}

func (r *Reader) result(a summary.Address) (*calc.Calculation, calc.Result, bool) {
	if a.Category != summary.CategoryCalculated || a.Error {
		return nil, calc.Result{}, false
	}
	c, err := r.collection.Find(a.ID)
	if err != nil || c.Address() != a {
		return nil, calc.Result{}, false
	}
	result, ok := c.Result(r.caseID)
	return c, result, ok
}

func (r *Reader) AllResultAddresses() []summary.Address {
	return sio.SortAddresses(r.collection.AddressesForCase(r.caseID))
}

func (r *Reader) Values(a summary.Address) ([]float64, bool) {
	_, result, ok := r.result(a)
	if !ok {
		return nil, false
	}
	return result.Values, true
}

func (r *Reader) TimeSteps(a summary.Address) []int64 {
	_, result, _ := r.result(a)
	return result.Times
}

func (r *Reader) UnitName(a summary.Address) string {
	c, _, ok := r.result(a)
	if !ok {
		return ""
	}
	return c.Unit
}

func (r *Reader) HasAddress(a summary.Address) bool {
	_, _, ok := r.result(a)
	return ok
}
