// Package calc manages user calculations: expressions over summary
// vectors that are aligned in time, evaluated, and published as
// calculated vectors, one result per summary case.
package calc

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/expr"
	"github.com/brimdata/summary/expr/function"
	"github.com/brimdata/summary/pkg/align"
	"github.com/brimdata/summary/sio"
)

var (
	ErrNoAssignment = errors.New("expression has no assignment")
	ErrNoVariables  = errors.New("expression references no variables")
	ErrUnbound      = errors.New("variable is not bound")
	ErrNoData       = errors.New("no data for variable")
	ErrNoOverlap    = errors.New("variables share no time steps")
)

// TargetCase binds a variable to whichever case the calculation is
// evaluated for, so one calculation can serve every ensemble member.
const TargetCase = "*"

// CaseResolver finds the reader of a summary case by id.
type CaseResolver interface {
	Reader(id string) (sio.Reader, bool)
}

type Variable struct {
	Name    string
	Case    string
	Address summary.Address
}

func (v *Variable) Bound() bool {
	return v.Case != "" && v.Address.IsValid()
}

func (v *Variable) String() string {
	if !v.Bound() {
		return v.Name
	}
	return v.Address.UIText()
}

type Result struct {
	Times  []int64
	Values []float64
}

type Calculation struct {
	ID          int
	Description string
	Expression  string
	Unit        string
	// Interpolate evaluates on every time step of the variables'
	// overlapping range rather than only on the steps all of them share.
	Interpolate bool
	Variables   []*Variable

	mu      sync.Mutex
	name    string
	rhs     expr.Node
	dirty   bool
	results map[string]Result
	// produced lists every address a result was published under, in
	// order of first use.  Renaming keeps earlier entries.
	produced []summary.Address
}

func New(expression string) (*Calculation, error) {
	c := &Calculation{}
	if _, err := c.ParseExpression(expression); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseExpression sets the calculation's expression, which has the form
// "NAME := expression".  Bindings of variables the new expression no
// longer references are removed; new variables get empty bindings.  It
// returns the referenced variable names in order of first use.
func (c *Calculation) ParseExpression(src string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parse(src)
}

func (c *Calculation) parse(src string) ([]string, error) {
	i := strings.LastIndex(src, ":=")
	if i < 0 {
		return nil, ErrNoAssignment
	}
	lhs := strings.Fields(src[:i])
	if len(lhs) == 0 {
		return nil, fmt.Errorf("%w: missing left-hand side", ErrNoAssignment)
	}
	name := lhs[len(lhs)-1]
	rhs, err := expr.Parse(src[i+2:])
	if err != nil {
		return nil, err
	}
	names := slices.DeleteFunc(expr.Variables(rhs), func(s string) bool {
		return s == name
	})
	if len(names) == 0 {
		return nil, ErrNoVariables
	}
	vars := make([]*Variable, 0, len(names))
	for _, n := range names {
		k := slices.IndexFunc(c.Variables, func(v *Variable) bool { return v.Name == n })
		if k >= 0 {
			vars = append(vars, c.Variables[k])
		} else {
			vars = append(vars, &Variable{Name: n})
		}
	}
	c.Expression = src
	c.Variables = vars
	c.name = name
	c.rhs = rhs
	c.dirty = true
	c.describe()
	return names, nil
}

// describe rebuilds the description as "NAME ( binding, ... )".
func (c *Calculation) describe() {
	parts := make([]string, len(c.Variables))
	for k, v := range c.Variables {
		parts[k] = v.String()
	}
	c.Description = fmt.Sprintf("%s ( %s )", c.name, strings.Join(parts, ", "))
}

// Bind sets the case and address of a variable.
func (c *Calculation) Bind(name, caseID string, a summary.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.Variables {
		if v.Name == name {
			v.Case, v.Address = caseID, a
			c.dirty = true
			c.describe()
			return nil
		}
	}
	return fmt.Errorf("calculation %d has no variable %q", c.ID, name)
}

func (c *Calculation) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// Dirty reports whether the calculation changed since it was last
// calculated.
func (c *Calculation) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Address is the calculated address under which results are published.
func (c *Calculation) Address() summary.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	return summary.Calculated(c.name, c.ID)
}

// Calculate evaluates the calculation for the case target and caches
// the result under target.  On failure the previous result for target is
// left in place.
func (c *Calculation) Calculate(ctx context.Context, resolver CaseResolver, target string) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rhs == nil {
		return Result{}, ErrNoAssignment
	}
	series := make([]align.Series[float64], len(c.Variables))
	for k, v := range c.Variables {
		if !v.Bound() {
			return Result{}, fmt.Errorf("%w: %s", ErrUnbound, v.Name)
		}
		caseID := v.Case
		if caseID == TargetCase {
			caseID = target
		}
		r, ok := resolver.Reader(caseID)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s refers to unknown case %q", ErrUnbound, v.Name, caseID)
		}
		values, ok := r.Values(v.Address)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s (%s in case %q)", ErrNoData, v.Name, v.Address, caseID)
		}
		series[k] = align.Series[float64]{Times: r.TimeSteps(v.Address), Values: values}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	mode := align.Common
	if c.Interpolate {
		mode = align.Interpolate
	}
	times, aligned := align.Align(mode, series...)
	if times == nil {
		return Result{}, ErrNoOverlap
	}
	vars := make(map[string][]float64, len(c.Variables))
	for k, v := range c.Variables {
		vars[v.Name] = aligned[k]
	}
	values, err := expr.NewEvaluator(vars, function.New).Eval(c.rhs)
	if err != nil {
		return Result{}, err
	}
	if len(values) == 1 && len(times) > 1 {
		values = slices.Repeat(values, len(times))
	}
	result := Result{Times: times, Values: values}
	if c.results == nil {
		c.results = make(map[string]Result)
	}
	c.results[target] = result
	if a := summary.Calculated(c.name, c.ID); !slices.Contains(c.produced, a) {
		c.produced = append(c.produced, a)
	}
	c.dirty = false
	return clone(result), nil
}

func clone(r Result) Result {
	return Result{Times: slices.Clone(r.Times), Values: slices.Clone(r.Values)}
}

// Result returns the cached result of the last successful calculation
// for a case.
func (c *Calculation) Result(caseID string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[caseID]
	if !ok {
		return Result{}, false
	}
	return clone(r), true
}

// Produced returns the addresses the calculation has published results
// under, including names it had before its expression was changed.
func (c *Calculation) Produced() []summary.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.produced)
}

// Cases returns the ids of the cases the calculation has results for.
func (c *Calculation) Cases() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.results))
	for id := range c.results {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// copy returns a calculation with the same expression and bindings but
// no results.
func (c *Calculation) copy() *Calculation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := &Calculation{
		ID:          c.ID,
		Description: c.Description,
		Expression:  c.Expression,
		Unit:        c.Unit,
		Interpolate: c.Interpolate,
		name:        c.name,
		rhs:         c.rhs,
		dirty:       true,
	}
	for _, v := range c.Variables {
		vv := *v
		out.Variables = append(out.Variables, &vv)
	}
	return out
}
