package export

import (
	"errors"
	"flag"

	"github.com/brimdata/summary/cli/outputflags"
	"github.com/brimdata/summary/cmd/smry/root"
	"github.com/brimdata/summary/pkg/charm"
	"github.com/brimdata/summary/sio"
)

var Cmd = &charm.Spec{
	Name:  "export",
	Usage: "export [options] case",
	Short: "convert a case to another format",
	Long: `
The export command writes every vector of a case, or those matching the SQL
LIKE pattern given with -match, to a single file.

Arrow and Parquet output has a TIME column of timestamps in seconds and one
float64 column per vector named by its text address.  The unit of each vector
is kept in the column metadata, so exported files can be read back with
"smry ls" and the other commands.
`,
	New: New,
}

type Command struct {
	*root.Command
	match       string
	outputFlags outputflags.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.outputFlags.DefaultFormat = "parquet"
	c.outputFlags.SetFlags(f)
	f.StringVar(&c.match, "match", "", "SQL LIKE pattern for addresses")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.outputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) != 1 {
		return errors.New("export: exactly one case must be specified")
	}
	r, err := c.Open(ctx, args[0])
	if err != nil {
		return err
	}
	defer r.Close()
	addrs, err := sio.Match(r, c.match)
	if err != nil {
		return err
	}
	if len(addrs) == 0 {
		return errors.New("export: no vectors to export")
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
