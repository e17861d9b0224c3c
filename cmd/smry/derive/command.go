package derive

import (
	"errors"
	"flag"

	"github.com/brimdata/summary/cli/outputflags"
	"github.com/brimdata/summary/cmd/smry/root"
	"github.com/brimdata/summary/pkg/align"
	"github.com/brimdata/summary/pkg/charm"
	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/sio/deriveio"
)

var Cmd = &charm.Spec{
	Name:  "derive",
	Usage: "derive [options] left right",
	Short: "combine the vectors of two cases arithmetically",
	Long: `
The derive command combines each vector the two cases share with the operator
given by -op, e.g., "smry derive -op - new.SMSPEC base.SMSPEC" writes the
difference of every common vector.  Division by zero yields NaN.

Vectors are aligned on the time steps both cases share, or with -interpolate,
on every time step of their overlapping range.  Units are those of the left
case.
`,
	New: New,
}

type Command struct {
	*root.Command
	interpolate bool
	match       string
	op          string
	outputFlags outputflags.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.outputFlags.SetFlags(f)
	f.BoolVar(&c.interpolate, "interpolate", false, "interpolate onto the overlapping time range")
	f.StringVar(&c.match, "match", "", "SQL LIKE pattern for addresses")
	f.StringVar(&c.op, "op", "-", "operator [+,-,*,/]")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.outputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) != 2 {
		return errors.New("derive: exactly two cases must be specified")
	}
	op, err := deriveio.ParseOperator(c.op)
	if err != nil {
		return err
	}
	left, err := c.Open(ctx, args[0])
	if err != nil {
		return err
	}
	defer left.Close()
	right, err := c.Open(ctx, args[1])
	if err != nil {
		return err
	}
	defer right.Close()
	mode := align.Common
	if c.interpolate {
		mode = align.Interpolate
	}
	r := deriveio.NewReader(left, op, right, mode)
	addrs, err := sio.Match(r, c.match)
	if err != nil {
		return err
	}
	if len(addrs) == 0 {
		return errors.New("derive: the cases share no vectors")
	}
	w, err := c.outputFlags.Open(ctx, c.Engine)
	if err != nil {
		return err
	}
	err = w.Write(r, addrs)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	return err
}
