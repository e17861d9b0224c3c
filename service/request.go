package service

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/api"
	"github.com/brimdata/summary/calc"
	"github.com/brimdata/summary/expr"
	"github.com/brimdata/summary/service/srverr"
	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/sio/anyio"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Request struct {
	*http.Request
	Logger *zap.Logger
}

func newRequest(w http.ResponseWriter, r *http.Request, c *Core) (*ResponseWriter, *Request, bool) {
	req := &Request{Request: r}
	req.Logger = c.logger.With(zap.String("request_id", req.ID()))
	res := &ResponseWriter{
		ResponseWriter: w,
		Logger:         req.Logger,
		request:        req,
	}
	for _, mime := range strings.Split(r.Header.Get("Accept"), ",") {
		format, err := api.MediaTypeToFormat(mime, c.conf.DefaultResponseFormat)
		if err != nil {
			continue
		}
		res.Format = format
		return res, req, true
	}
	res.Error(srverr.ErrInvalid("could not find supported MIME type in Accept header"))
	return nil, nil, false
}

func (r *Request) ID() string {
	return api.RequestIDFromContext(r.Context())
}

func (r *Request) StringFromPath(w *ResponseWriter, arg string) (string, bool) {
	s, ok := mux.Vars(r.Request)[arg]
	if !ok {
		w.Error(srverr.ErrInvalid("no arg %q in path", arg))
		return "", false
	}
	return s, true
}

func (r *Request) IntFromPath(w *ResponseWriter, arg string) (int, bool) {
	s, ok := r.StringFromPath(w, arg)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		w.Error(srverr.ErrInvalid("invalid path param %q: %w", arg, err))
		return 0, false
	}
	return n, true
}

// AddressFromQuery parses the text address in query parameter param.
func (r *Request) AddressFromQuery(w *ResponseWriter, param string) (summary.Address, bool) {
	s := r.URL.Query().Get(param)
	if s == "" {
		w.Error(srverr.ErrInvalid("missing query param %q", param))
		return summary.Address{}, false
	}
	a, err := summary.FromTextAddress(s)
	if err != nil {
		w.Error(srverr.ErrInvalid("invalid query param %q: %w", param, err))
		return summary.Address{}, false
	}
	return a, true
}

func (r *Request) Unmarshal(w *ResponseWriter, body any) bool {
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		w.Error(srverr.ErrInvalid(err))
		return false
	}
	return true
}

type ResponseWriter struct {
	http.ResponseWriter
	Format  string
	Logger  *zap.Logger
	request *Request
	written int32
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if atomic.CompareAndSwapInt32(&w.written, 0, 1) {
		typ, err := api.FormatToMediaType(w.Format)
		if err != nil {
			return 0, err
		}
		w.Header().Set("Content-Type", typ)
	}
	return w.ResponseWriter.Write(b)
}

// Respond writes body as JSON regardless of the negotiated format.
func (w *ResponseWriter) Respond(status int, body any) bool {
	w.Format = "json"
	w.Header().Set("Content-Type", api.MediaTypeJSON)
	atomic.StoreInt32(&w.written, 1)
	w.WriteHeader(status)
	if err := json.NewEncoder(w.ResponseWriter).Encode(body); err != nil {
		w.Logger.Warn("Error writing response", zap.Error(err))
		return false
	}
	return true
}

// WriteVectors writes the vectors at addrs of r in the negotiated format.
func (w *ResponseWriter) WriteVectors(r sio.Reader, addrs []summary.Address) bool {
	if w.Format == "json" {
		return w.Respond(http.StatusOK, vectors(r, addrs))
	}
	typ, err := api.FormatToMediaType(w.Format)
	if err != nil {
		w.Error(srverr.ErrInvalid(err))
		return false
	}
	sw, err := anyio.NewWriter(sio.NopCloser(w), anyio.WriterOpts{Format: w.Format})
	if err != nil {
		w.Error(srverr.ErrInvalid(err))
		return false
	}
	w.Header().Set("Content-Type", typ)
	if err := sw.Write(r, addrs); err != nil {
		w.Error(err)
		return false
	}
	if err := sw.Close(); err != nil {
		w.Logger.Warn("Error writing response", zap.Error(err))
		return false
	}
	return true
}

func vectors(r sio.Reader, addrs []summary.Address) []api.Vector {
	out := make([]api.Vector, 0, len(addrs))
	for _, a := range addrs {
		values, _ := r.Values(a)
		out = append(out, api.Vector{
			Address: a.TextAddress(),
			Unit:    r.UnitName(a),
			Times:   r.TimeSteps(a),
			Values:  values,
		})
	}
	return out
}

func (w *ResponseWriter) Error(err error) {
	if errors.Is(err, context.Canceled) && errors.Is(w.request.Context().Err(), context.Canceled) {
		w.Logger.Info("Request context canceled")
		return
	}
	status, res := errorResponse(err)
	if status >= 500 {
		w.Logger.Warn("Error", zap.Int("status", status), zap.Error(err))
	}
	if atomic.CompareAndSwapInt32(&w.written, 0, 1) {
		w.Header().Set("Content-Type", api.MediaTypeJSON)
		w.WriteHeader(status)
		if err := json.NewEncoder(w.ResponseWriter).Encode(res); err != nil {
			w.Logger.Warn("Error writing response", zap.Error(err))
		}
	}
}

func errorResponse(e error) (status int, ae *api.Error) {
	status = http.StatusInternalServerError
	ae = &api.Error{Type: "Error"}

	var se *srverr.Error
	if !errors.As(e, &se) {
		se = &srverr.Error{Err: e}
	}
	switch {
	case errors.Is(e, calc.ErrNotFound) || errors.Is(e, fs.ErrNotExist):
		se.Kind = srverr.NotFound
	case errors.Is(e, calc.ErrNoAssignment) || errors.Is(e, calc.ErrNoVariables) ||
		errors.Is(e, expr.ErrSyntax) || errors.Is(e, anyio.ErrUnknownFormat):
		se.Kind = srverr.Invalid
	}

	switch se.Kind {
	case srverr.Invalid:
		status = http.StatusBadRequest
	case srverr.NotFound:
		status = http.StatusNotFound
	case srverr.Conflict:
		status = http.StatusConflict
	}
	ae.Kind = se.Kind.String()
	ae.Message = se.Message()
	ae.Suggestions = se.Suggestions
	return
}
