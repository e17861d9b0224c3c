package calc

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/brimdata/summary"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("calculation not found")

type EventKind int

const (
	Added EventKind = iota
	Removed
	Changed
	// Rebuilt announces the full set of calculated addresses after any
	// structural change.
	Rebuilt
)

func (k EventKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	case Rebuilt:
		return "rebuilt"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

type Event struct {
	Kind          EventKind
	CalculationID int
	// Addresses is set for Rebuilt events.
	Addresses []summary.Address
}

// Collection owns a set of calculations.  Ids are assigned from 1 and
// are never reused.  Observers are called synchronously, outside the
// collection's lock, in subscription order.
type Collection struct {
	resolver CaseResolver
	logger   *zap.Logger

	mu        sync.Mutex
	calcs     []*Calculation
	nextID    int
	observers map[int]func(Event)
	nextObs   int
}

func NewCollection(resolver CaseResolver, logger *zap.Logger) *Collection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection{
		resolver:  resolver,
		logger:    logger,
		nextID:    1,
		observers: make(map[int]func(Event)),
	}
}

// Subscribe registers fn for collection events and returns a function
// that cancels the subscription.
func (c *Collection) Subscribe(fn func(Event)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

func (c *Collection) notify(events ...Event) {
	c.mu.Lock()
	ids := make([]int, 0, len(c.observers))
	for id := range c.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Event), len(ids))
	for k, id := range ids {
		fns[k] = c.observers[id]
	}
	c.mu.Unlock()
	for _, e := range events {
		for _, fn := range fns {
			fn(e)
		}
	}
}

func (c *Collection) rebuilt() Event {
	return Event{Kind: Rebuilt, Addresses: c.Addresses()}
}

// Add assigns calc the next id and adds it to the collection.
func (c *Collection) Add(calc *Calculation) *Calculation {
	c.mu.Lock()
	calc.mu.Lock()
	calc.ID = c.nextID
	calc.mu.Unlock()
	c.nextID++
	c.calcs = append(c.calcs, calc)
	c.mu.Unlock()
	c.notify(Event{Kind: Added, CalculationID: calc.ID}, c.rebuilt())
	return calc
}

// AddCopy adds a copy of the calculation with the given id under a new
// id.
func (c *Collection) AddCopy(id int) (*Calculation, error) {
	src, err := c.Find(id)
	if err != nil {
		return nil, err
	}
	return c.Add(src.copy()), nil
}

func (c *Collection) Delete(id int) error {
	c.mu.Lock()
	k := slices.IndexFunc(c.calcs, func(calc *Calculation) bool { return calc.ID == id })
	if k < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	c.calcs = slices.Delete(c.calcs, k, k+1)
	c.mu.Unlock()
	c.notify(Event{Kind: Removed, CalculationID: id}, c.rebuilt())
	return nil
}

func (c *Collection) Find(id int) (*Calculation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.find(id)
}

func (c *Collection) find(id int) (*Calculation, error) {
	for _, calc := range c.calcs {
		if calc.ID == id {
			return calc, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
}

func (c *Collection) Calculations() []*Calculation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.calcs)
}

// SetExpression changes the expression of a calculation.
func (c *Collection) SetExpression(id int, expression string) ([]string, error) {
	calc, err := c.Find(id)
	if err != nil {
		return nil, err
	}
	names, err := calc.ParseExpression(expression)
	if err != nil {
		return nil, err
	}
	c.notify(Event{Kind: Changed, CalculationID: id}, c.rebuilt())
	return names, nil
}

// Bind changes the binding of one variable of a calculation.
func (c *Collection) Bind(id int, name, caseID string, a summary.Address) error {
	calc, err := c.Find(id)
	if err != nil {
		return err
	}
	if err := calc.Bind(name, caseID, a); err != nil {
		return err
	}
	c.notify(Event{Kind: Changed, CalculationID: id})
	return nil
}

// Calculate evaluates a calculation for a case using the collection's
// resolver.
func (c *Collection) Calculate(ctx context.Context, id int, caseID string) (Result, error) {
	calc, err := c.Find(id)
	if err != nil {
		return Result{}, err
	}
	result, err := calc.Calculate(ctx, c.resolver, caseID)
	if err != nil {
		c.logger.Warn("calculation failed", zap.Int("id", id), zap.String("case", caseID), zap.Error(err))
		return Result{}, err
	}
	c.notify(Event{Kind: Changed, CalculationID: id})
	return result, nil
}

// CalculateAll evaluates every calculation for a case.  Failures are
// logged and joined.
func (c *Collection) CalculateAll(ctx context.Context, caseID string) error {
	var errs []error
	for _, calc := range c.Calculations() {
		if _, err := c.Calculate(ctx, calc.ID, caseID); err != nil {
			errs = append(errs, fmt.Errorf("calculation %d: %w", calc.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Addresses returns every calculated address a calculation in the
// collection has produced a result under.  Calculations never evaluated
// contribute nothing.
func (c *Collection) Addresses() []summary.Address {
	var out []summary.Address
	for _, calc := range c.Calculations() {
		out = append(out, calc.Produced()...)
	}
	return out
}

// AddressesForCase returns the calculated addresses that have a result
// for a case.
func (c *Collection) AddressesForCase(caseID string) []summary.Address {
	var out []summary.Address
	for _, calc := range c.Calculations() {
		if _, ok := calc.Result(caseID); ok {
			out = append(out, calc.Address())
		}
	}
	return out
}

// RebuildCaseMetaData announces the full set of calculated addresses to
// observers.
func (c *Collection) RebuildCaseMetaData() {
	c.notify(c.rebuilt())
}
