package fortio

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeywords() []*Keyword {
	params := make([]float32, 2500)
	for i := range params {
		params[i] = float32(i) / 2
	}
	names := make([]string, 230)
	for i := range names {
		names[i] = "W" + strings.Repeat("X", i%7)
	}
	return []*Keyword{
		NewStrings("KEYWORDS", "TIME", "WOPR", "WWCT"),
		NewInts("DIMENS", 3, 10, 10, 5, 0, -1),
		NewFloats("PARAMS", params...),
		NewDoubles("DOUBLES", 1.5, -2.25e10),
		NewBools("LOGIHEAD", true, false, true),
		NewMessage("STARTSOL"),
		NewStrings("WGNAMES", names...),
	}
}

func TestUnformattedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, k := range testKeywords() {
		require.NoError(t, w.Write(k))
	}
	require.NoError(t, w.Flush())

	keywords, err := ReadAll(NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	require.Len(t, keywords, 7)
	assert.Equal(t, "KEYWORDS", keywords[0].Name)
	assert.Equal(t, []string{"TIME", "WOPR", "WWCT"}, keywords[0].TrimmedStrings())
	assert.Equal(t, []int32{3, 10, 10, 5, 0, -1}, keywords[1].Ints)
	assert.Len(t, keywords[2].Floats, 2500)
	assert.Equal(t, float32(1249.5), keywords[2].Floats[2499])
	assert.Equal(t, []float64{1.5, -2.25e10}, keywords[3].Doubles)
	assert.Equal(t, []bool{true, false, true}, keywords[4].Bools)
	assert.Equal(t, TypeMessage, keywords[5].Type)
	assert.Equal(t, 0, keywords[5].Len())
	assert.Len(t, keywords[6].Strings, 230)
	assert.Equal(t, "WXXXXXX", keywords[6].TrimmedStrings()[6])
}

func TestDeferredFloats(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, k := range testKeywords() {
		require.NoError(t, w.Write(k))
	}
	require.NoError(t, w.Flush())

	data := bytes.NewReader(buf.Bytes())
	r := NewReader(bytes.NewReader(buf.Bytes()))
	r.Defer("PARAMS")
	keywords, err := ReadAll(r)
	require.NoError(t, err)
	require.Len(t, keywords, 7)
	params := keywords[2]
	assert.Nil(t, params.Floats)
	assert.Equal(t, 2500, params.Len())
	for _, e := range []int{0, 1, 999, 1000, 1001, 2499} {
		v, err := params.ReadFloatAt(data, e)
		require.NoError(t, err)
		assert.Equal(t, float64(e)/2, v)
	}
	_, err = params.ReadFloatAt(data, 2500)
	assert.Error(t, err)
	// Keywords after the deferred one are still decoded.
	assert.Equal(t, []float64{1.5, -2.25e10}, keywords[3].Doubles)
}

func TestLittleEndian(t *testing.T) {
	var buf bytes.Buffer
	record := func(b []byte) {
		binary.Write(&buf, binary.LittleEndian, uint32(len(b)))
		buf.Write(b)
		binary.Write(&buf, binary.LittleEndian, uint32(len(b)))
	}
	header := make([]byte, 16)
	copy(header, "DIMENS  ")
	binary.LittleEndian.PutUint32(header[8:], 2)
	copy(header[12:], "INTE")
	record(header)
	data := make([]byte, 8)
	binary.LittleEndian.PutUint32(data, 7)
	binary.LittleEndian.PutUint32(data[4:], 9)
	record(data)

	k, err := NewReader(&buf).Read()
	require.NoError(t, err)
	assert.Equal(t, []int32{7, 9}, k.Ints)
}

func TestBadRecord(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(NewInts("DIMENS", 1, 2, 3)))
	require.NoError(t, w.Flush())
	truncated := buf.Bytes()[:buf.Len()-3]
	_, err := NewReader(bytes.NewReader(truncated)).Read()
	assert.ErrorIs(t, err, ErrBadRecord)

	_, err = NewReader(strings.NewReader("not a keyword file")).Read()
	assert.ErrorIs(t, err, ErrBadRecord)
}

func TestCorruptCounts(t *testing.T) {
	var buf bytes.Buffer
	header := make([]byte, 16)
	copy(header, "PARAMS  ")
	binary.BigEndian.PutUint32(header[8:], math.MaxInt32)
	copy(header[12:], "REAL")
	binary.Write(&buf, binary.BigEndian, uint32(16))
	buf.Write(header)
	binary.Write(&buf, binary.BigEndian, uint32(16))
	binary.Write(&buf, binary.BigEndian, uint32(4))
	buf.Write([]byte{0, 0, 0, 0})
	binary.Write(&buf, binary.BigEndian, uint32(4))
	_, err := NewReader(&buf).Read()
	assert.ErrorIs(t, err, ErrBadRecord, "declared element count exceeds the file")

	buf.Reset()
	binary.Write(&buf, binary.BigEndian, uint32(16))
	buf.Write(make([]byte, 16))
	binary.Write(&buf, binary.BigEndian, uint32(16))
	binary.Write(&buf, binary.BigEndian, uint32(math.MaxInt32))
	buf.Write([]byte("short"))
	r := NewReader(&buf)
	_, err = r.record()
	require.NoError(t, err)
	_, err = r.record()
	assert.ErrorIs(t, err, ErrBadRecord, "record length exceeds the file")

	_, err = ReadAll(NewFormattedReader(strings.NewReader(" 'DIMENS' 2000000000 'INTE'\n 1 2\n")))
	assert.ErrorIs(t, err, ErrFormattedSyntax)
}

func TestFormattedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewFormattedWriter(&buf)
	for _, k := range testKeywords() {
		require.NoError(t, w.Write(k))
	}
	require.NoError(t, w.Flush())

	keywords, err := ReadAll(NewFormattedReader(&buf))
	require.NoError(t, err)
	require.Len(t, keywords, 7)
	assert.Equal(t, []string{"TIME", "WOPR", "WWCT"}, keywords[0].TrimmedStrings())
	assert.Equal(t, []int32{3, 10, 10, 5, 0, -1}, keywords[1].Ints)
	assert.Equal(t, float32(1249.5), keywords[2].Floats[2499])
	assert.Equal(t, []float64{1.5, -2.25e10}, keywords[3].Doubles)
	assert.Equal(t, []bool{true, false, true}, keywords[4].Bools)
	assert.Equal(t, "STARTSOL", keywords[5].Name)
}

func TestFormattedParse(t *testing.T) {
	const text = ` 'STARTDAT'           3 'INTE'
           1           7        2020
 'UNITS   '           2 'CHAR'
 'DAYS    ' 'SM3/DAY '
 'PARAMS  '           2 'REAL'
   0.10000000E+01  -0.25000000E+00
`
	keywords, err := ReadAll(NewFormattedReader(strings.NewReader(text)))
	require.NoError(t, err)
	require.Len(t, keywords, 3)
	assert.Equal(t, []int32{1, 7, 2020}, keywords[0].Ints)
	assert.Equal(t, []string{"DAYS", "SM3/DAY"}, keywords[1].TrimmedStrings())
	assert.Equal(t, []float32{1, -0.25}, keywords[2].Floats)

	_, err = ReadAll(NewFormattedReader(strings.NewReader(" 'DIMENS' 3 'INTE'\n 1 2\n")))
	assert.ErrorIs(t, err, ErrFormattedSyntax)
}

func TestIsFormatted(t *testing.T) {
	assert.True(t, IsFormatted("/data/CASE.FSMSPEC"))
	assert.True(t, IsFormatted("CASE.FUNSMRY"))
	assert.False(t, IsFormatted("CASE.SMSPEC"))
	assert.False(t, IsFormatted("CASE"))
	assert.False(t, IsFormatted("CASE.F"))
}
