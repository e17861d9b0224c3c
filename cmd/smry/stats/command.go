package stats

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/cli/outputflags"
	"github.com/brimdata/summary/cmd/smry/root"
	"github.com/brimdata/summary/ensemble"
	"github.com/brimdata/summary/pkg/charm"
	"github.com/brimdata/summary/pkg/display"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var Cmd = &charm.Spec{
	Name:  "stats",
	Usage: "stats [options] address case...",
	Short: "compute ensemble statistics of a vector",
	Long: `
The stats command loads an ensemble of cases, or realizations, and writes the
P10, P50, P90 and MEAN of a vector across them.

Each realization is interpolated onto the union of the realizations' time
steps and contributes only inside its own time range.  P10 follows the
reservoir engineering convention and is the value exceeded by 10 percent of
the realizations, i.e., the 90th percentile.

Cases that fail to load are reported and left out.  Progress is shown while
loading when standard error is a terminal.
`,
	New: New,
}

type Command struct {
	*root.Command
	concurrency int
	outputFlags outputflags.Flags
	quiet       bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.outputFlags.SetFlags(f)
	f.IntVar(&c.concurrency, "P", 8, "number of cases to open in parallel")
	f.BoolVar(&c.quiet, "q", false, "don't display progress")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.outputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) < 2 {
		return errors.New("stats: an address and at least one case must be specified")
	}
	a, err := summary.FromTextAddress(args[0])
	if err != nil {
		return err
	}
	progress := &ensemble.Progress{}
	if !c.quiet && term.IsTerminal(int(os.Stderr.Fd())) {
		d := display.New(os.Stderr, progress, time.Second/4)
		d.Start()
		defer d.Close()
	}
	ens, err := ensemble.Load(ctx, c.Engine, "stats", args[1:], ensemble.LoadOptions{
		Reader:      c.InputFlags.ReaderOpts,
		Concurrency: c.concurrency,
		Logger:      c.Logger,
		Progress:    progress,
	})
	if ens == nil {
		return err
	}
	defer ens.Close()
	if err != nil {
		c.Logger.Warn("cases not loaded", zap.Error(err))
	}
	stats := ensemble.NewStatsReader(ens)
	addrs := make([]summary.Address, len(ensemble.Statistics))
	for k, stat := range ensemble.Statistics {
		addrs[k] = ensemble.StatisticAddress(stat, a)
	}
	if !stats.HasAddress(addrs[0]) {
		return root.NotFound(args[0], ens.Addresses())
	}
	w, err := c.outputFlags.Open(ctx, c.Engine)
	if err != nil {
		return err
	}
	err = w.Write(stats, addrs)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	return err
}
