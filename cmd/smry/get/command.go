package get

import (
	"errors"
	"flag"

	"github.com/brimdata/summary/cli/outputflags"
	"github.com/brimdata/summary/cmd/smry/root"
	"github.com/brimdata/summary/pkg/charm"
)

var Cmd = &charm.Spec{
	Name:  "get",
	Usage: "get [options] case address...",
	Short: "print vectors of a case",
	Long: `
The get command writes the named vectors of a case as a table with one row per
time step.  Vectors sampled at different times share one time column and
have empty cells where they have no value.

Times in csv and tsv output are formatted with the strftime pattern given by
-timefmt, e.g., -timefmt '%d %b %Y'.
`,
	New: New,
}

type Command struct {
	*root.Command
	outputFlags outputflags.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.outputFlags.SetFlags(f)
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.outputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) < 2 {
		return errors.New("get: a case and at least one address must be specified")
	}
	r, err := c.Open(ctx, args[0])
	if err != nil {
		return err
	}
	defer r.Close()
	addrs, err := root.Addresses(r, args[1:])
	if err != nil {
		return err
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
