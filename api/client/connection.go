// Package client is a Go client for the summary query service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/brimdata/summary/api"
)

const (
	DefaultPort      = 9867
	DefaultUserAgent = "smry-client-golang"
)

type Connection struct {
	client        *http.Client
	defaultHeader http.Header
	hostURL       string
}

// NewConnection returns a connection to http://localhost:DefaultPort.
func NewConnection() *Connection {
	return NewConnectionTo("http://localhost:" + strconv.Itoa(DefaultPort))
}

func NewConnectionTo(hostURL string) *Connection {
	h := http.Header{
		"Accept":     []string{api.MediaTypeJSON},
		"User-Agent": []string{DefaultUserAgent},
	}
	return &Connection{
		client:        &http.Client{},
		defaultHeader: h,
		hostURL:       hostURL,
	}
}

func (c *Connection) ClientHostURL() string {
	return c.hostURL
}

// ErrorResponse is returned for responses with a non-2xx status.
type ErrorResponse struct {
	*http.Response
	Err error
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("status code %d: %v", e.StatusCode, e.Err)
}

func (e *ErrorResponse) Unwrap() error {
	return e.Err
}

func (c *Connection) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.hostURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header = c.defaultHeader.Clone()
	if body != nil {
		req.Header.Set("Content-Type", api.MediaTypeJSON)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return parseError(res)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// parseError parses an error from an http.Response with an error status
// code.
func parseError(r *http.Response) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	resErr := &ErrorResponse{Response: r}
	if r.Header.Get("Content-Type") == api.MediaTypeJSON {
		var apierr api.Error
		if err := json.Unmarshal(body, &apierr); err != nil {
			return err
		}
		resErr.Err = &apierr
	} else {
		resErr.Err = errors.New(string(body))
	}
	return resErr
}

func (c *Connection) DeleteCase(ctx context.Context, caseID string) error {
	return c.do(ctx, http.MethodDelete, "/cases/"+url.PathEscape(caseID), nil, nil, nil)
}

func (c *Connection) Cases(ctx context.Context) ([]api.Case, error) {
	var out []api.Case
	err := c.do(ctx, http.MethodGet, "/cases", nil, nil, &out)
	return out, err
}

func (c *Connection) AddCase(ctx context.Context, path string) (api.Case, error) {
	var out api.Case
	err := c.do(ctx, http.MethodPost, "/cases", nil, api.CasePostRequest{Path: path}, &out)
	return out, err
}

// Addresses lists the addresses of a case matching a SQL LIKE pattern.
func (c *Connection) Addresses(ctx context.Context, caseID, match string) ([]api.Address, error) {
	var q url.Values
	if match != "" {
		q = url.Values{"match": []string{match}}
	}
	var out []api.Address
	err := c.do(ctx, http.MethodGet, "/cases/"+url.PathEscape(caseID)+"/addresses", q, nil, &out)
	return out, err
}

func (c *Connection) Values(ctx context.Context, caseID, address string) (api.Vector, error) {
	var out api.Vector
	q := url.Values{"address": []string{address}}
	err := c.do(ctx, http.MethodGet, "/cases/"+url.PathEscape(caseID)+"/values", q, nil, &out)
	return out, err
}

// CalculationValues returns the result of a calculation for a case.
func (c *Connection) CalculationValues(ctx context.Context, caseID string, id int) (api.Vector, error) {
	var out api.Vector
	q := url.Values{"calculation": []string{strconv.Itoa(id)}}
	err := c.do(ctx, http.MethodGet, "/cases/"+url.PathEscape(caseID)+"/values", q, nil, &out)
	return out, err
}

func (c *Connection) Statistics(ctx context.Context, address string) ([]api.Vector, error) {
	var out []api.Vector
	q := url.Values{"address": []string{address}}
	err := c.do(ctx, http.MethodGet, "/statistics", q, nil, &out)
	return out, err
}

func (c *Connection) Calculations(ctx context.Context) ([]api.Calculation, error) {
	var out []api.Calculation
	err := c.do(ctx, http.MethodGet, "/calculations", nil, nil, &out)
	return out, err
}

func (c *Connection) Calculate(ctx context.Context, req api.CalculationRequest) (api.Calculation, error) {
	var out api.Calculation
	err := c.do(ctx, http.MethodPost, "/calculations", nil, req, &out)
	return out, err
}

func (c *Connection) DeleteCalculation(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/calculations/"+strconv.Itoa(id), nil, nil, nil)
}

func (c *Connection) Version(ctx context.Context) (string, error) {
	var out api.VersionResponse
	err := c.do(ctx, http.MethodGet, "/version", nil, nil, &out)
	return out.Version, err
}
