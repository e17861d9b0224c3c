package rsmio

import (
	"strings"
	"testing"
	"time"

	"github.com/brimdata/summary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var origin = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func TestParseSimpleTable(t *testing.T) {
	const text = `SUMMARY
TIME  WOPR  WWCT
DAYS  -     -
0.0   100.0 0.0
1.0   95.0  0.05
`
	tables, err := ParseTables(strings.NewReader(text), Options{Origin: origin})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	table := tables[0]
	require.Len(t, table.Columns, 3)
	assert.Equal(t, 0, table.TimeColumn)
	assert.False(t, table.Columns[0].IsVector)
	assert.Equal(t, "DAYS", table.Columns[0].Unit)
	wopr := table.Columns[1]
	assert.Equal(t, "WOPR", wopr.Name)
	assert.True(t, wopr.IsVector)
	assert.Equal(t, "", wopr.Unit)
	assert.Equal(t, []float64{100, 95}, wopr.Values)
	assert.Equal(t, []int64{origin.Unix(), origin.Unix() + 86400}, table.Times)
}

const twoTables = `1
 -------------------------------------------
 SUMMARY OF RUN CASE
 -------------------------------------------
 TIME      WOPR      WOPR      RPR
 DAYS      SM3/DAY   SM3/DAY   BARSA
           *10**3    *10**3    *10**0
           P1        P2        1
 -------------------------------------------
 0         1.5       2         100
 10        2         3         110

 TIME      FOPT
 HOURS     SM3
 0         0
 12        5
`

func TestReaderTables(t *testing.T) {
	r, err := NewReader(strings.NewReader(twoTables), Options{Origin: origin})
	require.NoError(t, err)
	require.Len(t, r.Tables(), 2)

	p1 := summary.Well("WOPR", "P1")
	p2 := summary.Well("WOPR", "P2")
	rpr := summary.Region("RPR", 1)
	fopt := summary.Field("FOPT")
	assert.Equal(t, []summary.Address{fopt, rpr, p1, p2}, r.AllResultAddresses())

	v, ok := r.Values(p1)
	require.True(t, ok)
	assert.Equal(t, []float64{1500, 2000}, v)
	v, ok = r.Values(rpr)
	require.True(t, ok)
	assert.Equal(t, []float64{100, 110}, v)
	assert.Equal(t, "SM3/DAY", r.UnitName(p2))
	assert.Equal(t, "BARSA", r.UnitName(rpr))
	assert.True(t, r.HasAddress(summary.Address{Category: summary.CategoryRegion, Quantity: "RPR", Region: 1}))
	assert.Equal(t, []int64{origin.Unix(), origin.Unix() + 864000}, r.TimeSteps(p1))
	assert.Equal(t, []int64{origin.Unix(), origin.Unix() + 43200}, r.TimeSteps(fopt))

	missing := summary.Well("WOPR", "P3")
	v, ok = r.Values(missing)
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Nil(t, r.TimeSteps(missing))
	assert.False(t, r.HasAddress(missing))
}

func TestSkipTableWithoutTime(t *testing.T) {
	const text = `WOPR  WWCT
1     2
TIME  FOPR
DAYS  SM3/DAY
0     1
`
	core, logs := observer.New(zapcore.DebugLevel)
	tables, err := ParseTables(strings.NewReader(text), Options{Origin: origin, Logger: zap.New(core)})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "FOPR", tables[0].Columns[1].Name)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "skipping text before table header", entry.Message)
	assert.EqualValues(t, 2, entry.ContextMap()["lines"])
}

func TestTitleBeforeHeader(t *testing.T) {
	const text = ` NORNE FULL FIELD RUN
 TIME  WOPR  WWCT
 DAYS  -     -
 0.0   100.0 0.0
 1.0   95.0  0.05
`
	tables, err := ParseTables(strings.NewReader(text), Options{Origin: origin})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	table := tables[0]
	require.Len(t, table.Columns, 3)
	assert.Equal(t, 0, table.TimeColumn)
	assert.Equal(t, "WOPR", table.Columns[1].Name)
	assert.Equal(t, []float64{100, 95}, table.Columns[1].Values)
	assert.Equal(t, []float64{0, 0.05}, table.Columns[2].Values)
}

func TestTimeColumnNotFirst(t *testing.T) {
	const text = `WOPR  TIME
SM3   DAYS
P1
5     0
6     1
`
	tables, err := ParseTables(strings.NewReader(text), Options{Origin: origin})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, 1, tables[0].TimeColumn)
	assert.Equal(t, []int64{origin.Unix(), origin.Unix() + 86400}, tables[0].Times)
	assert.Equal(t, summary.Well("WOPR", "P1"), tables[0].Columns[0].Address)
}

func TestCommentInData(t *testing.T) {
	const text = `TIME  WOPR
DAYS  SM3
      P1
0     1
-- restart
1     2

2     3
`
	tables, err := ParseTables(strings.NewReader(text), Options{Origin: origin})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, []float64{1, 2, 3}, tables[0].Columns[1].Values)
	assert.Len(t, tables[0].Times, 3)
}

func TestDateColumn(t *testing.T) {
	const text = `TIME        WOPR
DATE        SM3/DAY
2020-01-01  5
2020-02-01  6
`
	tables, err := ParseTables(strings.NewReader(text), Options{})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, []int64{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).Unix(),
		time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC).Unix(),
	}, tables[0].Times)
}

func TestBadLabel(t *testing.T) {
	const text = `TIME  BPR
DAYS  BARSA
      1,2
0     1
`
	_, err := ParseTables(strings.NewReader(text), Options{})
	assert.ErrorIs(t, err, summary.ErrBadCellIJK)
}
