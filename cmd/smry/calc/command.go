package calc

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/calc"
	"github.com/brimdata/summary/cli/outputflags"
	"github.com/brimdata/summary/cmd/smry/root"
	"github.com/brimdata/summary/ensemble"
	"github.com/brimdata/summary/pkg/charm"
	"github.com/brimdata/summary/sio/calcio"
	"go.uber.org/zap"
)

var Cmd = &charm.Spec{
	Name:  "calc",
	Usage: "calc [options] case...",
	Short: "evaluate calculated vectors",
	Long: `
The calc command evaluates calculations over the vectors of one or more cases
and writes the results for one of them.

Each -e option adds a calculation of the form "NAME := expression", e.g.,

  smry calc -e 'WCUT := WWPR / (WWPR + WOPR)' -bind WWPR=WWPR:P1 -bind WOPR=WOPR:P1 CASE.SMSPEC

Variables are bound to vectors with -bind NAME=ADDRESS, which follows whichever
case is being evaluated, or with -bind NAME=CASE@ADDRESS, which always reads
the named case.  Cases are named by their file name without extension.

The variables of a calculation are aligned on the time steps all of them
share, or with -interpolate, on every time step of their overlapping range.

Calculations can be saved to and loaded from a YAML file with -save and -load.
Results are written for the case named by -case, or the first case.
`,
	New: New,
}

type binding struct {
	name    string
	caseID  string
	address summary.Address
}

type Command struct {
	*root.Command
	bindings    []binding
	caseName    string
	concurrency int
	expressions []string
	interpolate bool
	load        string
	outputFlags outputflags.Flags
	save        string
	unit        string
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.outputFlags.SetFlags(f)
	f.Func("e", "calculation \"NAME := expression\" (may be repeated)", func(s string) error {
		c.expressions = append(c.expressions, s)
		return nil
	})
	f.Func("bind", "variable binding NAME=ADDRESS or NAME=CASE@ADDRESS (may be repeated)", func(s string) error {
		b, err := parseBinding(s)
		if err != nil {
			return err
		}
		c.bindings = append(c.bindings, b)
		return nil
	})
	f.StringVar(&c.caseName, "case", "", "case to write results for")
	f.BoolVar(&c.interpolate, "interpolate", false, "interpolate variables onto their overlapping time range")
	f.StringVar(&c.load, "load", "", "load calculations from YAML file")
	f.StringVar(&c.save, "save", "", "save calculations to YAML file")
	f.StringVar(&c.unit, "unit", "", "unit of calculations added with -e")
	f.IntVar(&c.concurrency, "P", 8, "number of cases to open in parallel")
	return c, nil
}

func parseBinding(s string) (binding, error) {
	name, target, ok := strings.Cut(s, "=")
	if !ok || name == "" || target == "" {
		return binding{}, fmt.Errorf("binding %q is not NAME=ADDRESS or NAME=CASE@ADDRESS", s)
	}
	caseID := calc.TargetCase
	if k := strings.LastIndex(target, "@"); k >= 0 {
		caseID, target = target[:k], target[k+1:]
	}
	a, err := summary.FromTextAddress(target)
	if err != nil {
		return binding{}, err
	}
	return binding{name: name, caseID: caseID, address: a}, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.outputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) == 0 {
		return errors.New("calc: at least one case must be specified")
	}
	if len(c.expressions) == 0 && c.load == "" {
		return errors.New("calc: no calculations given with -e or -load")
	}
	ens, err := ensemble.Load(ctx, c.Engine, "calc", args, ensemble.LoadOptions{
		Reader:      c.InputFlags.ReaderOpts,
		Concurrency: c.concurrency,
		Logger:      c.Logger,
	})
	if ens == nil {
		return err
	}
	defer ens.Close()
	if err != nil {
		c.Logger.Warn("cases not loaded", zap.Error(err))
	}
	coll := calc.NewCollection(ens, c.Logger)
	if err := c.build(ctx, coll); err != nil {
		return err
	}
	target := ens.Cases()
	if len(target) == 0 {
		return errors.New("calc: no case could be loaded")
	}
	out := target[0]
	if c.caseName != "" {
		var ok bool
		if out, ok = ens.Case(c.caseName); !ok {
			return fmt.Errorf("calc: no case %q", c.caseName)
		}
	}
	for _, cs := range target {
		if err := coll.CalculateAll(ctx, cs.ID.String()); err != nil {
			if cs == out {
				return err
			}
			c.Logger.Warn("calculation failed", zap.String("case", cs.Name), zap.Error(err))
		}
	}
	if c.save != "" {
		if err := c.saveCollection(ctx, coll); err != nil {
			return err
		}
	}
	reader := calcio.NewReader(coll, out.ID.String())
	w, err := c.outputFlags.Open(ctx, c.Engine)
	if err != nil {
		return err
	}
	err = w.Write(reader, reader.AllResultAddresses())
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	return err
}

// build loads the -load file, adds the -e calculations, and applies the
// bindings to every calculation that has the variable.
func (c *Command) build(ctx context.Context, coll *calc.Collection) error {
	if c.load != "" {
		r, err := c.Engine.Get(ctx, c.load)
		if err != nil {
			return err
		}
		err = coll.Load(r)
		r.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", c.load, err)
		}
	}
	for _, e := range c.expressions {
		calculation, err := calc.New(e)
		if err != nil {
			return fmt.Errorf("%q: %w", e, err)
		}
		calculation.Unit = c.unit
		calculation.Interpolate = c.interpolate
		coll.Add(calculation)
	}
	for _, b := range c.bindings {
		var bound bool
		for _, calculation := range coll.Calculations() {
			if coll.Bind(calculation.ID, b.name, b.caseID, b.address) == nil {
				bound = true
			}
		}
		if !bound {
			return fmt.Errorf("no calculation has a variable %s", b.name)
		}
	}
	return nil
}

func (c *Command) saveCollection(ctx context.Context, coll *calc.Collection) error {
	w, err := c.Engine.Put(ctx, c.save)
	if err != nil {
		return err
	}
	err = coll.Save(w)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	return err
}
