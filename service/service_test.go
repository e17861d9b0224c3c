package service_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brimdata/summary/api"
	"github.com/brimdata/summary/api/client"
	"github.com/brimdata/summary/service"
	"github.com/brimdata/summary/sio/anyio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var origin = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

type testService struct {
	*client.Connection
	url string
	dir string
}

func newTestService(t *testing.T) *testService {
	core, err := service.NewCore(t.Context(), service.Config{
		Reader:  anyio.ReaderOpts{Origin: origin},
		Version: "v1.2.3",
	})
	require.NoError(t, err)
	srv := httptest.NewServer(core)
	t.Cleanup(func() {
		srv.Close()
		core.Shutdown()
	})
	return &testService{
		Connection: client.NewConnectionTo(srv.URL),
		url:        srv.URL,
		dir:        t.TempDir(),
	}
}

func (s *testService) writeCase(t *testing.T, name, text string) string {
	path := filepath.Join(s.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func statusCode(t *testing.T, err error) int {
	var res *client.ErrorResponse
	require.True(t, errors.As(err, &res), "%v", err)
	return res.StatusCode
}

func TestCases(t *testing.T) {
	s := newTestService(t)
	ctx := t.Context()
	version, err := s.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", version)

	cases, err := s.Cases(ctx)
	require.NoError(t, err)
	assert.Empty(t, cases)

	path := s.writeCase(t, "a.csv", "DAYS,WOPR:P1,FOPT\nUNITS,SM3/DAY,SM3\n0,1,10\n1,2,20\n")
	info, err := s.AddCase(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "a", info.Name)
	assert.Equal(t, 2, info.Addresses)

	_, err = s.AddCase(ctx, path)
	assert.Equal(t, http.StatusConflict, statusCode(t, err))
	_, err = s.AddCase(ctx, filepath.Join(s.dir, "missing.csv"))
	assert.Equal(t, http.StatusNotFound, statusCode(t, err))

	addrs, err := s.Addresses(ctx, info.ID, "WOPR%")
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Equal(t, "WOPR:P1", addrs[0].Text)
	assert.Equal(t, "WELL", addrs[0].Category)
	assert.True(t, addrs[0].Rate)
	assert.False(t, addrs[0].Total)
	assert.False(t, addrs[0].Historical)

	addrs, err = s.Addresses(ctx, info.ID, "FOPT")
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.True(t, addrs[0].Total)
	assert.False(t, addrs[0].Rate)

	v, err := s.Values(ctx, "a", "WOPR:P1")
	require.NoError(t, err)
	assert.Equal(t, "SM3/DAY", v.Unit)
	assert.Equal(t, []int64{origin.Unix(), origin.Unix() + 86400}, v.Times)
	assert.Equal(t, []float64{1, 2}, v.Values)

	_, err = s.Values(ctx, "a", "WOPR:P2")
	require.Equal(t, http.StatusNotFound, statusCode(t, err))
	var apierr *api.Error
	require.True(t, errors.As(err, &apierr))
	assert.Contains(t, apierr.Suggestions, "WOPR:P1")

	_, err = s.Values(ctx, "nope", "WOPR:P1")
	assert.Equal(t, http.StatusNotFound, statusCode(t, err))

	require.NoError(t, s.DeleteCase(ctx, info.ID))
	cases, err = s.Cases(ctx)
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestCalculations(t *testing.T) {
	s := newTestService(t)
	ctx := t.Context()
	_, err := s.AddCase(ctx, s.writeCase(t, "a.csv", "DAYS,WOPR:P1\n0,1\n1,2\n"))
	require.NoError(t, err)
	b, err := s.AddCase(ctx, s.writeCase(t, "b.csv", "DAYS,WOPR:P1\n0,3\n1,4\n"))
	require.NoError(t, err)

	calc, err := s.Calculate(ctx, api.CalculationRequest{
		Expression: "X := A * 2",
		Unit:       "SM3/DAY",
		Variables:  []api.Variable{{Name: "A", Address: "WOPR:P1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calc.ID)
	assert.Len(t, calc.Cases, 2)
	assert.Empty(t, calc.Errors)

	v, err := s.CalculationValues(ctx, b.ID, calc.ID)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 8}, v.Values)
	assert.Equal(t, "SM3/DAY", v.Unit)

	_, err = s.Calculate(ctx, api.CalculationRequest{Expression: "X := "})
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))

	calcs, err := s.Calculations(ctx)
	require.NoError(t, err)
	require.Len(t, calcs, 1)
	require.NoError(t, s.DeleteCalculation(ctx, calc.ID))
	err = s.DeleteCalculation(ctx, calc.ID)
	assert.Equal(t, http.StatusNotFound, statusCode(t, err))
}

func TestStatistics(t *testing.T) {
	s := newTestService(t)
	ctx := t.Context()
	_, err := s.Statistics(ctx, "WOPR:P1")
	assert.Equal(t, http.StatusNotFound, statusCode(t, err))

	_, err = s.AddCase(ctx, s.writeCase(t, "a.csv", "DAYS,WOPR:P1\n0,1\n1,2\n"))
	require.NoError(t, err)
	_, err = s.AddCase(ctx, s.writeCase(t, "b.csv", "DAYS,WOPR:P1\n0,3\n1,4\n"))
	require.NoError(t, err)

	stats, err := s.Statistics(ctx, "WOPR:P1")
	require.NoError(t, err)
	require.Len(t, stats, 4)
	assert.Equal(t, "MEAN:WOPR:P1", stats[3].Address)
	assert.Equal(t, []float64{2, 3}, stats[3].Values)
}

func get(t *testing.T, url, accept string) (*http.Response, string) {
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, url, nil)
	require.NoError(t, err)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestFormatsAndAux(t *testing.T) {
	s := newTestService(t)
	_, err := s.AddCase(t.Context(), s.writeCase(t, "a.csv", "DAYS,WOPR:P1\n0,1\n1,2\n"))
	require.NoError(t, err)

	res, body := get(t, s.url+"/cases/a/values?address=WOPR:P1", api.MediaTypeCSV)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, api.MediaTypeCSV, res.Header.Get("Content-Type"))
	assert.Contains(t, body, "WOPR:P1")
	assert.NotEmpty(t, res.Header.Get(api.RequestIDHeader))

	res, _ = get(t, s.url+"/cases", "application/x-bogus")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body = get(t, s.url+"/status", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", body)

	_, body = get(t, s.url+"/metrics", "")
	assert.Contains(t, body, "summary_case_cache_misses_total 1")
}
