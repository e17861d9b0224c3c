// Package api defines the JSON messages of the summary query service.
package api

import (
	"context"
)

const RequestIDHeader = "X-Request-ID"

type contextKey struct{}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey{}).(string); ok {
		return v
	}
	return ""
}

type Error struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Message string `json:"error"`
	// Suggestions lists similar addresses when an address is unknown.
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e Error) Error() string {
	return e.Message
}

type VersionResponse struct {
	Version string `json:"version"`
}

type Case struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Addresses int    `json:"addresses"`
}

type CasePostRequest struct {
	Path string `json:"path"`
}

type Address struct {
	Text       string `json:"text"`
	UI         string `json:"ui"`
	Category   string `json:"category"`
	Historical bool   `json:"historical,omitempty"`
	Rate       bool   `json:"rate,omitempty"`
	Total      bool   `json:"total,omitempty"`
}

type Vector struct {
	Address string `json:"address"`
	Unit    string `json:"unit"`
	// Times are seconds since the Unix epoch.
	Times  []int64   `json:"times"`
	Values []float64 `json:"values"`
}

type Variable struct {
	Name    string `json:"name"`
	Case    string `json:"case"`
	Address string `json:"address"`
}

type CalculationRequest struct {
	Expression  string     `json:"expression"`
	Unit        string     `json:"unit,omitempty"`
	Interpolate bool       `json:"interpolate,omitempty"`
	Variables   []Variable `json:"variables"`
}

type Calculation struct {
	ID          int        `json:"id"`
	Description string     `json:"description"`
	Expression  string     `json:"expression"`
	Address     string     `json:"address"`
	Unit        string     `json:"unit,omitempty"`
	Variables   []Variable `json:"variables"`
	// Cases are the ids of the cases with a result.
	Cases []string `json:"cases"`
	// Errors maps case ids to calculation failures.
	Errors map[string]string `json:"errors,omitempty"`
}
