// Package service serves summary cases, ensemble statistics and
// calculations over HTTP.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"

	"github.com/brimdata/summary/api"
	"github.com/brimdata/summary/calc"
	"github.com/brimdata/summary/casecache"
	"github.com/brimdata/summary/ensemble"
	"github.com/brimdata/summary/pkg/storage"
	"github.com/brimdata/summary/service/srverr"
	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/sio/anyio"
	"github.com/brimdata/summary/sio/calcio"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	DefaultCacheSize      = 128
	DefaultResponseFormat = "json"
)

type Config struct {
	// CacheSize is the number of cases kept open.
	CacheSize             int
	CORSAllowedOrigins    []string
	DefaultResponseFormat string
	Engine                storage.Engine
	Logger                *zap.Logger
	Reader                anyio.ReaderOpts
	Version               string
}

type Core struct {
	cache      *casecache.Cache
	calcs      *calc.Collection
	conf       Config
	ensemble   *ensemble.Ensemble
	logger     *zap.Logger
	registry   *prometheus.Registry
	routerAPI  *mux.Router
	routerAux  *mux.Router
	apiHandler http.Handler
	stats      *ensemble.StatsReader
}

func NewCore(ctx context.Context, conf Config) (*Core, error) {
	if conf.Logger == nil {
		conf.Logger = zap.NewNop()
	}
	if conf.Version == "" {
		conf.Version = "unknown"
	}
	if conf.DefaultResponseFormat == "" {
		conf.DefaultResponseFormat = DefaultResponseFormat
	}
	if conf.CacheSize <= 0 {
		conf.CacheSize = DefaultCacheSize
	}
	if conf.Engine == nil {
		conf.Engine = storage.NewFileSystem()
	}
	if conf.Reader.Logger == nil {
		conf.Reader.Logger = conf.Logger.Named("reader")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	cache, err := casecache.New(conf.Engine, conf.CacheSize, conf.Reader, registry, conf.Logger.Named("casecache"))
	if err != nil {
		return nil, err
	}
	ens := ensemble.New("service")

	routerAux := mux.NewRouter()
	routerAux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	routerAux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	routerAux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", api.MediaTypeJSON)
		json.NewEncoder(w).Encode(&api.VersionResponse{Version: conf.Version})
	})

	routerAPI := mux.NewRouter()
	routerAPI.Use(requestIDMiddleware())
	routerAPI.Use(accessLogMiddleware(conf.Logger))
	routerAPI.Use(panicCatchMiddleware(conf.Logger))

	var apiHandler http.Handler = routerAPI
	if len(conf.CORSAllowedOrigins) > 0 {
		apiHandler = cors.New(cors.Options{
			AllowedOrigins: conf.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{api.RequestIDHeader},
		}).Handler(routerAPI)
	}

	c := &Core{
		cache:      cache,
		calcs:      calc.NewCollection(ens, conf.Logger.Named("calc")),
		conf:       conf,
		ensemble:   ens,
		logger:     conf.Logger.Named("core"),
		registry:   registry,
		routerAPI:  routerAPI,
		routerAux:  routerAux,
		apiHandler: apiHandler,
		stats:      ensemble.NewStatsReader(ens),
	}
	c.addAPIServerRoutes()
	c.logger.Info("Started", zap.Int("cache_size", conf.CacheSize))
	return c, nil
}

func (c *Core) addAPIServerRoutes() {
	c.handle("/cases", handleCaseList).Methods("GET")
	c.handle("/cases", handleCasePost).Methods("POST")
	c.handle("/cases/{case}", handleCaseDelete).Methods("DELETE")
	c.handle("/cases/{case}/addresses", handleAddressList).Methods("GET")
	c.handle("/cases/{case}/values", handleValues).Methods("GET")
	c.handle("/calculations", handleCalculationList).Methods("GET")
	c.handle("/calculations", handleCalculationPost).Methods("POST")
	c.handle("/calculations/{id}", handleCalculationGet).Methods("GET")
	c.handle("/calculations/{id}", handleCalculationDelete).Methods("DELETE")
	c.handle("/statistics", handleStatistics).Methods("GET")
}

func (c *Core) handle(path string, f func(*Core, *ResponseWriter, *Request)) *mux.Route {
	return c.routerAPI.Handle(path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, req, ok := newRequest(w, r, c)
		if !ok {
			return
		}
		f(c, res, req)
	}))
}

// caseReader serves the vectors of a case together with its calculated
// vectors.
func (c *Core) caseReader(cs *ensemble.Case) sio.Reader {
	return sio.MultiReader(cs.Reader, calcio.NewReader(c.calcs, cs.ID.String()))
}

// OpenCase opens the case at path and adds it to the served cases.
// Existing calculations are evaluated for the new case.
func (c *Core) OpenCase(ctx context.Context, path string) (*ensemble.Case, error) {
	for _, cs := range c.ensemble.Cases() {
		if cs.Path == path {
			return nil, srverr.ErrConflict("case %q is already open as %s", path, cs.ID)
		}
	}
	reader, err := c.cache.Get(ctx, path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			err = srverr.ErrInvalid(err)
		}
		return nil, err
	}
	cs := ensemble.NewCase(ensemble.CaseName(path), path, reader)
	c.ensemble.Add(cs)
	if err := c.calcs.CalculateAll(ctx, cs.ID.String()); err != nil {
		c.logger.Info("calculations incomplete for new case", zap.String("case", cs.Name), zap.Error(err))
	}
	return cs, nil
}

func (c *Core) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Core) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var rm mux.RouteMatch
	if c.routerAux.Match(r, &rm) {
		rm.Handler.ServeHTTP(w, r)
		return
	}
	c.apiHandler.ServeHTTP(w, r)
}

// Shutdown closes every case the service opened.
func (c *Core) Shutdown() {
	if err := c.cache.Close(); err != nil {
		c.logger.Warn("closing cases", zap.Error(err))
	}
	c.logger.Info("Shut down")
}
