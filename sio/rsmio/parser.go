// Package rsmio reads RSM-style column text tables: one or more tables,
// each a block of header lines (column names, units, multipliers and
// well or region labels) followed by whitespace-separated data rows.
package rsmio

import (
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/brimdata/summary"
	"go.uber.org/zap"
)

type Column struct {
	// Name is the column's header token, e.g. "WOPR" or "TIME".
	Name       string
	Address    summary.Address
	Unit       string
	IsVector   bool
	Multiplier float64
	Values     []float64
}

type Table struct {
	Columns    []Column
	TimeColumn int
	// Times holds the table's time steps in seconds since the Unix
	// epoch.
	Times []int64
}

type Options struct {
	// Origin is the time that time column offsets are measured from.
	Origin time.Time
	Logger *zap.Logger
}

// ParseTables reads every table of an RSM text stream.  A table starts
// at a line naming a time column (TIME, DATE, DAYS or YEARS); text before
// such a line, like a run title, is skipped.
func ParseTables(r io.Reader, opts Options) ([]Table, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &parser{lines: newLines(r), origin: opts.Origin, logger: logger}
	var tables []Table
	for {
		t, err := p.table()
		if err != nil {
			return nil, err
		}
		if t == nil {
			return tables, nil
		}
		tables = append(tables, *t)
	}
}

type parser struct {
	lines  *lines
	origin time.Time
	logger *zap.Logger
}

func skipLine(line string) bool {
	return line == "" || line == "1" || isComment(line) || strings.Contains(line, "SUMMARY")
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "--")
}

func isTimeLabel(tok string) bool {
	switch tok {
	case "TIME", "DATE", "DAYS", "YEARS":
		return true
	}
	return false
}

// timeColumn returns the index of the first time label in toks or -1.
func timeColumn(toks []string) int {
	for k, tok := range toks {
		if isTimeLabel(tok) {
			return k
		}
	}
	return -1
}

// skipped logs text passed over while looking for a table header.
func (p *parser) skipped(first string, n int) {
	if n > 0 {
		p.logger.Debug("skipping text before table header",
			zap.Int("line", p.lines.Line()-n+1),
			zap.Int("lines", n),
			zap.String("text", first))
	}
}

func isMultiplier(tok string) bool {
	return strings.HasPrefix(tok, "*10**")
}

// table parses the next table, returning nil at end of input.
func (p *parser) table() (*Table, error) {
	var t *Table
	var nvec int
	unitsSeen := false
	var labels [][]string
	var first string
	var nskipped int
	for {
		line, err := p.lines.Peek()
		if err != nil {
			return nil, err
		}
		if line == nil {
			if t == nil {
				p.skipped(first, nskipped)
				return nil, nil
			}
			break
		}
		trimmed := strings.TrimSpace(*line)
		if skipLine(trimmed) {
			p.lines.Read()
			continue
		}
		toks := strings.Fields(trimmed)
		if t == nil {
			p.lines.Read()
			k := timeColumn(toks)
			if k < 0 {
				if nskipped == 0 {
					first = trimmed
				}
				nskipped++
				continue
			}
			p.skipped(first, nskipped)
			t = newTable(toks)
			t.TimeColumn = k
			t.Columns[k].IsVector = false
			for _, c := range t.Columns {
				if c.IsVector {
					nvec++
				}
			}
			labels = make([][]string, nvec)
			continue
		}
		if p.isData(t, toks) {
			break
		}
		p.lines.Read()
		switch {
		case !unitsSeen && len(toks) == len(t.Columns):
			unitsSeen = true
			for k, tok := range toks {
				if tok != "-" {
					t.Columns[k].Unit = tok
				}
			}
		case len(toks) == nvec && isMultiplier(toks[0]):
			vectors(t, func(k int, c *Column) {
				if m, err := strconv.ParseFloat(strings.TrimPrefix(toks[k], "*10**"), 64); err == nil {
					c.Multiplier = math.Pow(10, m)
				}
			})
		case len(toks) == nvec:
			for k, tok := range toks {
				labels[k] = append(labels[k], tok)
			}
		}
	}
	var err error
	vectors(t, func(k int, c *Column) {
		if err == nil {
			c.Address, err = address(c.Name, labels[k])
		}
	})
	if err != nil {
		return nil, err
	}
	if err := p.data(t); err != nil {
		return nil, err
	}
	return t, nil
}

func newTable(names []string) *Table {
	t := &Table{Columns: make([]Column, len(names))}
	for k, name := range names {
		c := summary.CategoryFromMnemonic(name)
		t.Columns[k] = Column{
			Name:       name,
			IsVector:   c != summary.CategoryInvalid,
			Multiplier: 1,
		}
	}
	return t
}

// vectors calls fn for each vector column with its index among the
// vector columns.
func vectors(t *Table, fn func(int, *Column)) {
	var k int
	for i := range t.Columns {
		if c := &t.Columns[i]; c.IsVector {
			fn(k, c)
			k++
		}
	}
}

// address builds a vector column's address from its mnemonic and the
// label lines below it.  For named categories the first label is the
// well or group name and the second the number or cell; numeric
// categories take the first label as their number or cell.
func address(name string, labels []string) (summary.Address, error) {
	c := summary.CategoryFromMnemonic(name)
	ids := map[summary.Identifier]string{summary.IdentifierVectorName: name}
	var numeric summary.Identifier
	named := false
	switch c {
	case summary.CategoryWell, summary.CategoryWellLGR:
		named = true
		ids[summary.IdentifierWellName] = ""
	case summary.CategoryWellGroup:
		named = true
		ids[summary.IdentifierWellGroupName] = ""
	case summary.CategoryWellCompletion, summary.CategoryWellCompletionLGR:
		named, numeric = true, summary.IdentifierCellIJK
	case summary.CategoryWellSegment:
		named, numeric = true, summary.IdentifierSegmentNumber
	case summary.CategoryRegion, summary.CategoryRegion2Region:
		numeric = summary.IdentifierRegionNumber
	case summary.CategoryAquifer:
		numeric = summary.IdentifierAquiferNumber
	case summary.CategoryBlock, summary.CategoryBlockLGR:
		numeric = summary.IdentifierCellIJK
	}
	if named && len(labels) > 0 {
		if c == summary.CategoryWellGroup {
			ids[summary.IdentifierWellGroupName] = labels[0]
		} else {
			ids[summary.IdentifierWellName] = labels[0]
		}
		labels = labels[1:]
	}
	if numeric != summary.IdentifierVectorName && len(labels) > 0 {
		ids[numeric] = labels[0]
	}
	if c == summary.CategoryRegion2Region {
		if r1, r2, ok := strings.Cut(ids[numeric], "-"); ok {
			ids[summary.IdentifierRegionNumber] = r1
			ids[summary.IdentifierRegion2Number] = r2
		}
	}
	return summary.Parse(c, ids)
}

// isData reports whether toks is a data row for t: at least as many
// tokens as columns, each parsing as a number (or a date in a DATE time
// column).
func (p *parser) isData(t *Table, toks []string) bool {
	if len(toks) < len(t.Columns) {
		return false
	}
	for k, c := range t.Columns {
		if _, err := p.value(c, toks[k]); err != nil {
			return false
		}
	}
	return true
}

func (p *parser) value(c Column, tok string) (float64, error) {
	if !c.IsVector && strings.EqualFold(c.Unit, "DATE") {
		d, err := dateparse.ParseIn(tok, time.UTC)
		if err != nil {
			return 0, err
		}
		return float64(d.Unix()), nil
	}
	return strconv.ParseFloat(tok, 64)
}

// data appends rows to t until a line that is not a data row.  Blank
// and comment lines between rows are skipped.
func (p *parser) data(t *Table) error {
	for {
		line, err := p.lines.Peek()
		if err != nil {
			return err
		}
		if line == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*line)
		if trimmed == "" || isComment(trimmed) {
			p.lines.Read()
			continue
		}
		toks := strings.Fields(trimmed)
		if !p.isData(t, toks) {
			return nil
		}
		p.lines.Read()
		for k := range t.Columns {
			c := &t.Columns[k]
			v, _ := p.value(*c, toks[k])
			c.Values = append(c.Values, v*c.Multiplier)
		}
		tc := t.Columns[t.TimeColumn]
		t.Times = append(t.Times, p.seconds(tc, tc.Values[len(t.Times)]))
	}
}

func (p *parser) seconds(c Column, v float64) int64 {
	switch strings.ToUpper(c.Unit) {
	case "DATE":
		return int64(v)
	case "HOURS", "HOUR":
		return p.origin.Unix() + int64(math.Round(v*3600))
	case "YEARS", "YEAR":
		return p.origin.Unix() + int64(math.Round(v*365.25*86400))
	}
	return p.origin.Unix() + int64(math.Round(v*86400))
}
