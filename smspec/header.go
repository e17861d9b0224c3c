// Package smspec builds the index of a summary header: one node per
// stored quantity, resolved to a summary.Address and registered in the
// lookup tables of an Index.
package smspec

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/brimdata/summary/pkg/fortio"
)

var (
	ErrNoKeywords     = errors.New("summary header has no KEYWORDS")
	ErrNoStartDate    = errors.New("summary header has no STARTDAT")
	ErrNoTimeAxis     = errors.New("summary header has neither TIME nor DAY, MONTH and YEAR")
	ErrLengthMismatch = errors.New("summary header arrays differ in length")
	ErrLocked         = errors.New("summary header is locked")
)

const restartFields = 9

// Header is the parsed content of an SMSPEC file.
type Header struct {
	*Index
	StartTime time.Time
	Grid      Grid
	// Restart is the base name of the case this case continues, or empty.
	Restart     string
	RestartStep int
	time        TimeAxis
	locked      bool
}

// New returns an empty header for building a summary case in memory.
func New(start time.Time, grid Grid) *Header {
	return &Header{
		Index:     NewIndex(),
		StartTime: start,
		Grid:      grid,
		time:      TimeAxis{Time: -1, Day: -1, Month: -1, Year: -1},
	}
}

// AddNode appends a quantity to the header and returns its node id.
func (h *Header) AddNode(keyword, wgname string, num int, unit string, lgr LGR) (int, error) {
	if h.locked {
		return 0, fmt.Errorf("%w: cannot add %s", ErrLocked, keyword)
	}
	addr, valid := MakeAddress(keyword, wgname, num, h.Grid, lgr)
	id := h.add(Node{
		Params:  h.Len(),
		Keyword: keyword,
		WGName:  wgname,
		Num:     num,
		Unit:    unit,
		Address: addr,
		Valid:   valid,
		LGR:     lgr,
	})
	return id, nil
}

// Lock prevents further nodes from being added.  Data readers lock the
// header before the first time step is attached.
func (h *Header) Lock() error {
	if h.locked {
		return nil
	}
	axis, err := h.findTimeAxis()
	if err != nil {
		return err
	}
	h.time = axis
	h.locked = true
	return nil
}

func (h *Header) Locked() bool {
	return h.locked
}

// TimeAxis returns how time is derived from a PARAMS record.  It is only
// meaningful for a locked header.
func (h *Header) TimeAxis() TimeAxis {
	return h.time
}

// Build constructs and locks a header from the keywords of an SMSPEC
// file.
func Build(keywords []*fortio.Keyword) (*Header, error) {
	kw := make(map[string]*fortio.Keyword)
	for _, k := range keywords {
		if _, ok := kw[k.Name]; !ok {
			kw[k.Name] = k
		}
	}
	names := kw["KEYWORDS"]
	if names == nil {
		return nil, ErrNoKeywords
	}
	n := names.Len()
	startdat := kw["STARTDAT"]
	if startdat == nil || len(startdat.Ints) < 3 {
		return nil, ErrNoStartDate
	}
	wgnames := kw["WGNAMES"]
	if wgnames == nil {
		wgnames = kw["NAMES"]
	}
	arrays := []*fortio.Keyword{wgnames, kw["UNITS"], kw["NUMS"], kw["LGRS"], kw["NUMLX"], kw["NUMLY"], kw["NUMLZ"]}
	for _, a := range arrays {
		if a != nil && a.Len() != n {
			return nil, fmt.Errorf("%w: %s has %d entries, KEYWORDS has %d", ErrLengthMismatch, a.Name, a.Len(), n)
		}
	}
	var grid Grid
	restartStep := -1
	if dimens := kw["DIMENS"]; dimens != nil && len(dimens.Ints) >= 4 {
		grid = Grid{int(dimens.Ints[1]), int(dimens.Ints[2]), int(dimens.Ints[3])}
		if len(dimens.Ints) >= 6 {
			restartStep = int(dimens.Ints[5])
		}
	}
	h := New(startTime(startdat.Ints), grid)
	h.RestartStep = restartStep
	if restart := kw["RESTART"]; restart != nil {
		h.Restart = strings.TrimSpace(strings.Join(restart.Strings, ""))
	}
	keys := names.TrimmedStrings()
	wg := stringsOf(wgnames, n)
	units := stringsOf(kw["UNITS"], n)
	nums := intsOf(kw["NUMS"], n, -1)
	lgrs := stringsOf(kw["LGRS"], n)
	lx := intsOf(kw["NUMLX"], n, -1)
	ly := intsOf(kw["NUMLY"], n, -1)
	lz := intsOf(kw["NUMLZ"], n, -1)
	for i := range n {
		lgr := LGR{Name: lgrs[i], I: lx[i], J: ly[i], K: lz[i]}
		if _, err := h.AddNode(keys[i], wg[i], nums[i], units[i], lgr); err != nil {
			return nil, err
		}
	}
	if err := h.Lock(); err != nil {
		return nil, err
	}
	return h, nil
}

func stringsOf(k *fortio.Keyword, n int) []string {
	if k == nil {
		return make([]string, n)
	}
	return k.TrimmedStrings()
}

func intsOf(k *fortio.Keyword, n int, missing int) []int {
	out := make([]int, n)
	for i := range out {
		if k == nil {
			out[i] = missing
		} else {
			out[i] = int(k.Ints[i])
		}
	}
	return out
}

// startTime converts STARTDAT (day, month, year and optionally hour,
// minute, microsecond) to a UTC time.
func startTime(v []int32) time.Time {
	var hour, minute, usec int32
	if len(v) >= 6 {
		hour, minute, usec = v[3], v[4], v[5]
	}
	return time.Date(int(v[2]), time.Month(v[1]), int(v[0]), int(hour), int(minute), 0, int(usec)*1000, time.UTC)
}

// TimeAxis describes where the time of a PARAMS record is found.
type TimeAxis struct {
	// Time is the params index of the TIME quantity, or -1.
	Time int
	// Scale converts TIME values to seconds.
	Scale float64
	// Day, Month and Year are params indices used when there is no
	// TIME quantity.
	Day, Month, Year int
}

// Seconds returns the time of a PARAMS record in seconds since the Unix
// epoch.
func (t TimeAxis) Seconds(start time.Time, param func(int) float64) int64 {
	if t.Time >= 0 {
		return start.Unix() + int64(math.Round(param(t.Time)*t.Scale))
	}
	day, month, year := param(t.Day), param(t.Month), param(t.Year)
	return time.Date(int(year), time.Month(int(month)), int(day), 0, 0, 0, 0, time.UTC).Unix()
}

func (h *Header) findTimeAxis() (TimeAxis, error) {
	axis := TimeAxis{Time: -1, Day: -1, Month: -1, Year: -1}
	if n, ok := h.MiscVar("TIME"); ok {
		switch strings.ToUpper(n.Unit) {
		case "DAYS", "DAY":
			axis.Time, axis.Scale = n.Params, 86400
			return axis, nil
		case "HOURS", "HOUR":
			axis.Time, axis.Scale = n.Params, 3600
			return axis, nil
		}
	}
	day, okDay := h.MiscVar("DAY")
	month, okMonth := h.MiscVar("MONTH")
	year, okYear := h.MiscVar("YEAR")
	if okDay && okMonth && okYear {
		axis.Day, axis.Month, axis.Year = day.Params, month.Params, year.Params
		return axis, nil
	}
	return axis, ErrNoTimeAxis
}

// Compatible reports whether b may be linked as the restart ancestor of
// a (or vice versa): both must have the same quantities in the same
// order with the same units, the same start date and the same grid.
func Compatible(a, b *Header) bool {
	if a.Len() != b.Len() || !a.StartTime.Equal(b.StartTime) || a.Grid != b.Grid {
		return false
	}
	return slices.EqualFunc(a.nodes, b.nodes, func(x, y Node) bool {
		return x.Keyword == y.Keyword && x.Unit == y.Unit
	})
}

// Encode returns the keywords of an SMSPEC file describing h.
func (h *Header) Encode() []*fortio.Keyword {
	n := h.Len()
	keywords := make([]string, n)
	wgnames := make([]string, n)
	units := make([]string, n)
	nums := make([]int32, n)
	var hasLGR bool
	for k, node := range h.nodes {
		keywords[k] = node.Keyword
		wgnames[k] = node.WGName
		units[k] = node.Unit
		nums[k] = int32(node.Num)
		hasLGR = hasLGR || node.LGR.Name != ""
	}
	restart := make([]string, restartFields)
	for k := range restart {
		if off := k * 8; off < len(h.Restart) {
			restart[k] = h.Restart[off:min(off+8, len(h.Restart))]
		}
	}
	start := h.StartTime
	out := []*fortio.Keyword{
		fortio.NewStrings("RESTART", restart...),
		fortio.NewInts("DIMENS", int32(n), int32(h.Grid.NX), int32(h.Grid.NY), int32(h.Grid.NZ), 0, int32(h.RestartStep)),
		fortio.NewStrings("KEYWORDS", keywords...),
		fortio.NewStrings("WGNAMES", wgnames...),
		fortio.NewInts("NUMS", nums...),
		fortio.NewStrings("UNITS", units...),
		fortio.NewInts("STARTDAT", int32(start.Day()), int32(start.Month()), int32(start.Year()),
			int32(start.Hour()), int32(start.Minute()), int32(start.Nanosecond()/1000)),
	}
	if hasLGR {
		lgrs := make([]string, n)
		lx, ly, lz := make([]int32, n), make([]int32, n), make([]int32, n)
		for k, node := range h.nodes {
			lgrs[k] = node.LGR.Name
			lx[k], ly[k], lz[k] = int32(node.LGR.I), int32(node.LGR.J), int32(node.LGR.K)
		}
		out = append(out,
			fortio.NewStrings("LGRS", lgrs...),
			fortio.NewInts("NUMLX", lx...),
			fortio.NewInts("NUMLY", ly...),
			fortio.NewInts("NUMLZ", lz...))
	}
	return out
}
