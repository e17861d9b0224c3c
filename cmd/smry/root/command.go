package root

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/cli"
	"github.com/brimdata/summary/cli/inputflags"
	"github.com/brimdata/summary/cli/logflags"
	"github.com/brimdata/summary/pkg/charm"
	"github.com/brimdata/summary/pkg/storage"
	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/sio/anyio"
	"go.uber.org/zap"
)

var Smry = &charm.Spec{
	Name:        "smry",
	Usage:       "smry [options] <command> [arguments...]",
	Short:       "inspect and process reservoir simulation summary vectors",
	HiddenFlags: "cpuprofile,memprofile",
	Long: `
smry reads the summary vectors of reservoir simulation cases: ECLIPSE
SMSPEC/UNSMRY pairs (binary or formatted), RSM text tables, CSV user data,
and the Arrow and Parquet files written by "smry export".

A vector is named by its text address, e.g., FOPT, WOPR:P1, BPR:10,20,3 or
RPR:2.  Commands that take addresses report the closest known addresses
when a name is not found.

Relative times in text tables and user data are measured from the date
given with -origin.
`,
	New: New,
}

type Command struct {
	charm.Command
	cli.Flags
	InputFlags inputflags.Flags
	Engine     storage.Engine
	Logger     *zap.Logger
	logFlags   logflags.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Engine: storage.NewFileSystem(), Logger: zap.NewNop()}
	c.SetFlags(f)
	c.InputFlags.SetFlags(f)
	c.logFlags.SetFlags(f)
	return c, nil
}

// Init initializes the common flags along with all and opens the logger.
func (c *Command) Init(all ...cli.Initializer) (context.Context, func(), error) {
	ctx, cancel, err := c.Flags.Init(append(all, &c.InputFlags)...)
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.logFlags.Open()
	if err != nil {
		cancel()
		return nil, nil, err
	}
	c.Logger = logger
	c.InputFlags.ReaderOpts.Logger = logger
	cleanup := func() {
		logger.Sync()
		cancel()
	}
	return ctx, cleanup, nil
}

func (c *Command) Run(args []string) error {
	_, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) == 0 {
		return charm.NeedHelp
	}
	return charm.ErrNoRun
}

// Open opens the case at path with the input flags.
func (c *Command) Open(ctx context.Context, path string) (sio.ReadCloser, error) {
	return anyio.Open(ctx, c.Engine, path, c.InputFlags.ReaderOpts)
}

// Addresses parses text addresses and checks that r has each of them.
func Addresses(r sio.Reader, texts []string) ([]summary.Address, error) {
	var out []summary.Address
	for _, text := range texts {
		a, err := summary.FromTextAddress(text)
		if err != nil {
			return nil, err
		}
		if !r.HasAddress(a) {
			return nil, NotFound(text, r.AllResultAddresses())
		}
		out = append(out, a)
	}
	return out, nil
}

// NotFound returns an error for a missing vector that suggests similar
// addresses.
func NotFound(text string, candidates []summary.Address) error {
	suggestions := summary.Suggest(text, candidates, 3)
	if len(suggestions) == 0 {
		return fmt.Errorf("no vector %s", text)
	}
	names := make([]string, len(suggestions))
	for k, a := range suggestions {
		names[k] = a.TextAddress()
	}
	return fmt.Errorf("no vector %s (did you mean %s?)", text, strings.Join(names, ", "))
}
