package ls

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/cmd/smry/root"
	"github.com/brimdata/summary/pkg/charm"
	"github.com/brimdata/summary/sio"
)

var Cmd = &charm.Spec{
	Name:  "ls",
	Usage: "ls [options] case",
	Short: "list the vectors of a case",
	Long: `
The ls command lists the text addresses of the vectors in a case.  With -match,
only addresses matching a SQL LIKE pattern are listed, where "%" matches any
run of characters and "_" matches a single character, e.g., -match 'W%:P_'.

With -l, each line also shows the category, unit, number of time steps and
the display name of the vector.

The -rates, -totals and -history flags list only flow rates (e.g., WOPR),
cumulative totals (e.g., FOPT) or observed history vectors (e.g., WOPRH).
When more than one is given, a vector matching any of them is listed.
`,
	New: New,
}

type Command struct {
	*root.Command
	filter filter
	long   bool
	match  string
}

type filter struct {
	history bool
	rates   bool
	totals  bool
}

func (f filter) keep(a summary.Address) bool {
	if !f.history && !f.rates && !f.totals {
		return true
	}
	return f.history && a.IsHistorical() || f.rates && a.IsRate() || f.totals && a.IsTotal()
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.BoolVar(&c.long, "l", false, "long listing")
	f.StringVar(&c.match, "match", "", "SQL LIKE pattern for addresses")
	f.BoolVar(&c.filter.history, "history", false, "list observed history vectors")
	f.BoolVar(&c.filter.rates, "rates", false, "list flow rates")
	f.BoolVar(&c.filter.totals, "totals", false, "list cumulative totals")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) != 1 {
		return errors.New("ls: exactly one case must be specified")
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
	for _, a := range addrs {
		if !c.filter.keep(a) {
			continue
		}
		if !c.long {
			fmt.Println(a.TextAddress())
			continue
		}
		fmt.Fprintf(os.Stdout, "%-24s %-20s %-12s %6d  %s\n",
			a.TextAddress(), a.Category, r.UnitName(a), len(r.TimeSteps(a)), a.UIText())
	}
	return nil
}
