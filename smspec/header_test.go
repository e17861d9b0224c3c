package smspec

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/pkg/fortio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeNodeHeader() []*fortio.Keyword {
	return []*fortio.Keyword{
		fortio.NewInts("DIMENS", 3, 10, 10, 5, 0, -1),
		fortio.NewStrings("KEYWORDS", "TIME", "WOPR", "WWCT"),
		fortio.NewStrings("WGNAMES", "", "P1", "P1"),
		fortio.NewStrings("UNITS", "DAYS", "SM3/DAY", "SM3/SM3"),
		fortio.NewInts("STARTDAT", 1, 1, 2020),
	}
}

func TestBuildThreeNodes(t *testing.T) {
	h, err := Build(threeNodeHeader())
	require.NoError(t, err)
	assert.Equal(t, 3, h.Len())
	assert.Len(t, h.Nodes(), 3)

	n, ok := h.WellVar("P1", "WOPR")
	require.True(t, ok)
	assert.Equal(t, 1, n.Params)
	assert.Equal(t, "SM3/DAY", n.Unit)
	assert.Equal(t, "WOPR:P1", n.Address.UIText())

	g, ok := h.Key("WOPR:P1")
	require.True(t, ok)
	assert.Same(t, n, g)

	byAddr, ok := h.Node(summary.Well("WOPR", "P1"))
	require.True(t, ok)
	assert.Same(t, n, byAddr)
	literal, ok := h.Node(summary.Address{Category: summary.CategoryWell, Quantity: "WOPR", Well: "P1"})
	require.True(t, ok, "fields other than the well are ignored")
	assert.Same(t, n, literal)

	misc, ok := h.MiscVar("TIME")
	require.True(t, ok)
	assert.Equal(t, summary.CategoryMisc, misc.Address.Category)

	assert.Equal(t, TimeAxis{Time: 0, Scale: 86400, Day: -1, Month: -1, Year: -1}, h.TimeAxis())
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), h.StartTime)
	assert.Equal(t, Grid{10, 10, 5}, h.Grid)
	assert.Equal(t, []string{"P1"}, h.Wells())
}

func TestBuildCategories(t *testing.T) {
	grid := Grid{10, 10, 5}
	keywords := []*fortio.Keyword{
		fortio.NewInts("DIMENS", 9, 10, 10, 5, 0, -1),
		fortio.NewStrings("KEYWORDS", "TIME", "BPR", "COFR", "RPR", "ROF", "GOPR", "WOPR", "FOPT", "SOFR"),
		fortio.NewStrings("WGNAMES", "", "", "P1", "", "", "G1", DummyWell, "", "P1"),
		fortio.NewInts("NUMS", 0, int32(grid.Global(3, 2, 4)), int32(grid.Global(1, 1, 1)), 2, int32(EncodeRegion2Region(1, 2)), 0, 0, 0, 7),
		fortio.NewStrings("UNITS", "HOURS", "BARSA", "SM3/DAY", "BARSA", "SM3", "SM3/DAY", "SM3/DAY", "SM3", "SM3/DAY"),
		fortio.NewInts("STARTDAT", 15, 6, 2021),
	}
	h, err := Build(keywords)
	require.NoError(t, err)
	assert.Equal(t, 9, h.Len())
	assert.Len(t, h.Nodes(), 8, "dummy well quantity is not indexed")
	assert.Equal(t, 3600.0, h.TimeAxis().Scale)

	bpr, ok := h.BlockVar(grid.Global(3, 2, 4), "BPR")
	require.True(t, ok)
	assert.Equal(t, summary.Block("BPR", 3, 2, 4), bpr.Address)
	n, ok := h.Key("BPR:3,2,4")
	require.True(t, ok)
	assert.Same(t, bpr, n)
	n, ok = h.Key("BPR:" + strconv.Itoa(grid.Global(3, 2, 4)))
	require.True(t, ok)
	assert.Same(t, bpr, n)

	cofr, ok := h.CompletionVar("P1", 1, "COFR")
	require.True(t, ok)
	assert.Equal(t, "COFR:P1:1, 1, 1", cofr.Address.UIText())

	rpr, ok := h.RegionVar(2, "RPR")
	require.True(t, ok)
	assert.Equal(t, summary.Region("RPR", 2), rpr.Address)

	rof, ok := h.Key("ROF:1-2")
	require.True(t, ok)
	assert.Equal(t, summary.Region2Region("ROF", 1, 2), rof.Address)

	_, ok = h.GroupVar("G1", "GOPR")
	assert.True(t, ok)
	_, ok = h.WellVar(DummyWell, "WOPR")
	assert.False(t, ok)
	_, ok = h.FieldVar("FOPT")
	assert.True(t, ok)

	sofr, ok := h.Node(summary.WellSegment("SOFR", "P1", 7))
	require.True(t, ok)
	assert.Equal(t, -1, sofr.Address.I)
}

func TestBuildLGR(t *testing.T) {
	keywords := append(threeNodeHeader()[:1:1],
		fortio.NewStrings("KEYWORDS", "TIME", "LBPR", "LWOPR"),
		fortio.NewStrings("WGNAMES", "", "", "P1"),
		fortio.NewStrings("UNITS", "DAYS", "BARSA", "SM3/DAY"),
		fortio.NewStrings("LGRS", "", "LGR1", "LGR1"),
		fortio.NewInts("NUMLX", 0, 2, 0),
		fortio.NewInts("NUMLY", 0, 3, 0),
		fortio.NewInts("NUMLZ", 0, 4, 0),
		fortio.NewInts("STARTDAT", 1, 1, 2020),
	)
	h, err := Build(keywords)
	require.NoError(t, err)
	_, ok := h.Node(summary.BlockLGR("LBPR", "LGR1", 2, 3, 4))
	assert.True(t, ok)
	_, ok = h.Key("LWOPR:LGR1:P1")
	assert.True(t, ok)
}

func TestBuildFatalErrors(t *testing.T) {
	noStart := threeNodeHeader()[:4]
	_, err := Build(noStart)
	assert.ErrorIs(t, err, ErrNoStartDate)

	noTime := threeNodeHeader()
	noTime[1] = fortio.NewStrings("KEYWORDS", "FOPT", "WOPR", "WWCT")
	_, err = Build(noTime)
	assert.ErrorIs(t, err, ErrNoTimeAxis)

	mismatch := threeNodeHeader()
	mismatch[3] = fortio.NewStrings("UNITS", "DAYS", "SM3/DAY")
	_, err = Build(mismatch)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Build(threeNodeHeader()[2:])
	assert.ErrorIs(t, err, ErrNoKeywords)
}

func TestDayMonthYearAxis(t *testing.T) {
	keywords := threeNodeHeader()
	keywords[1] = fortio.NewStrings("KEYWORDS", "DAY", "MONTH", "YEAR")
	keywords[2] = fortio.NewStrings("WGNAMES", "", "", "")
	keywords[3] = fortio.NewStrings("UNITS", "", "", "")
	h, err := Build(keywords)
	require.NoError(t, err)
	axis := h.TimeAxis()
	params := []float64{17, 3, 2022}
	got := axis.Seconds(h.StartTime, func(i int) float64 { return params[i] })
	assert.Equal(t, time.Date(2022, 3, 17, 0, 0, 0, 0, time.UTC).Unix(), got)
}

func TestLocked(t *testing.T) {
	h, err := Build(threeNodeHeader())
	require.NoError(t, err)
	_, err = h.AddNode("WGPR", "P1", 0, "SM3/DAY", LGR{})
	assert.ErrorIs(t, err, ErrLocked)
}

func TestEncodeRoundTrip(t *testing.T) {
	h := New(time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC), Grid{4, 4, 2})
	h.Restart = "BASE_CASE_WITH_A_LONG_NAME"
	for _, q := range [][3]string{{"TIME", "", "DAYS"}, {"WOPR", "P1", "SM3/DAY"}, {"WOPR", "P2", "SM3/DAY"}} {
		_, err := h.AddNode(q[0], q[1], 0, q[2], LGR{})
		require.NoError(t, err)
	}
	require.NoError(t, h.Lock())

	var buf bytes.Buffer
	w := fortio.NewWriter(&buf)
	for _, k := range h.Encode() {
		require.NoError(t, w.Write(k))
	}
	require.NoError(t, w.Flush())
	keywords, err := fortio.ReadAll(fortio.NewReader(&buf))
	require.NoError(t, err)
	h2, err := Build(keywords)
	require.NoError(t, err)
	assert.Equal(t, "BASE_CASE_WITH_A_LONG_NAME", h2.Restart)
	assert.True(t, Compatible(h, h2))
	assert.Equal(t, []string{"P1", "P2"}, h2.Wells())
}

func TestCompatible(t *testing.T) {
	a, err := Build(threeNodeHeader())
	require.NoError(t, err)
	b, err := Build(threeNodeHeader())
	require.NoError(t, err)
	assert.True(t, Compatible(a, b))

	other := threeNodeHeader()
	other[3] = fortio.NewStrings("UNITS", "DAYS", "STB/DAY", "SM3/SM3")
	c, err := Build(other)
	require.NoError(t, err)
	assert.False(t, Compatible(a, c))

	other = threeNodeHeader()
	other[4] = fortio.NewInts("STARTDAT", 2, 1, 2020)
	d, err := Build(other)
	require.NoError(t, err)
	assert.False(t, Compatible(a, d))

	other = threeNodeHeader()
	other[0] = fortio.NewInts("DIMENS", 3, 10, 10, 6, 0, -1)
	e, err := Build(other)
	require.NoError(t, err)
	assert.False(t, Compatible(a, e))
}

func TestGridIJK(t *testing.T) {
	g := Grid{7, 5, 3}
	for k := 1; k <= 3; k++ {
		for j := 1; j <= 5; j++ {
			for i := 1; i <= 7; i++ {
				gi, gj, gk := g.IJK(g.Global(i, j, k))
				assert.Equal(t, [3]int{i, j, k}, [3]int{gi, gj, gk})
			}
		}
	}
	r1, r2 := Region2Region(EncodeRegion2Region(5, 12))
	assert.Equal(t, 5, r1)
	assert.Equal(t, 12, r2)
}
