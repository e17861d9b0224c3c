package serve

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"time"

	"github.com/brimdata/summary/cli"
	"github.com/brimdata/summary/cmd/smry/root"
	"github.com/brimdata/summary/pkg/charm"
	"github.com/brimdata/summary/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var Cmd = &charm.Spec{
	Name:  "serve",
	Usage: "serve [options] [case...]",
	Short: "serve cases over HTTP",
	Long: `
The serve command listens for HTTP requests on the interface and port given by
-l and serves the vectors, calculations and ensemble statistics of the cases
it has open.  Cases named on the command line are opened at startup; more can
be opened with "POST /cases".

Metrics are served at /metrics in the Prometheus text format.

The -log.level option controls log verbosity.  Available levels, ordered from
most to least verbose, are debug, info, warn (the default), error, dpanic,
panic, and fatal.
`,
	New: New,
}

type Command struct {
	*root.Command
	conf       service.Config
	listenAddr string
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.conf.Version = cli.Version()
	f.IntVar(&c.conf.CacheSize, "cache.size", service.DefaultCacheSize, "number of cases kept open")
	f.Func("cors.origin", "CORS allowed origin (may be repeated)", func(s string) error {
		c.conf.CORSAllowedOrigins = append(c.conf.CORSAllowedOrigins, s)
		return nil
	})
	f.StringVar(&c.conf.DefaultResponseFormat, "defaultfmt", service.DefaultResponseFormat, "default response format")
	f.StringVar(&c.listenAddr, "l", ":9867", "[addr]:port to listen on")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	c.conf.Engine = c.Engine
	c.conf.Logger = c.Logger
	c.conf.Reader = c.InputFlags.ReaderOpts
	core, err := service.NewCore(ctx, c.conf)
	if err != nil {
		return err
	}
	defer core.Shutdown()
	for _, path := range args {
		if _, err := core.OpenCase(ctx, path); err != nil {
			return err
		}
	}
	ln, err := net.Listen("tcp", c.listenAddr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:     core,
		ReadTimeout: time.Minute,
		ErrorLog:    zap.NewStdLog(c.Logger.Named("httpd")),
	}
	c.Logger.Info("Listening", zap.Stringer("addr", ln.Addr()))
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
