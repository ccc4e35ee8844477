package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/parcel-planner/internal/api"
	"github.com/eugenenazirov/parcel-planner/internal/config"
	"github.com/eugenenazirov/parcel-planner/internal/metrics"
	"github.com/eugenenazirov/parcel-planner/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	metrics *metrics.Metrics
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
	closers []func() error
}

// New initializes the application with all dependencies from the provided configuration.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	app := &App{logger: logger}

	store, err := app.newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	handler := api.NewHandler(store,
		api.WithLogger(logger),
		api.WithMetrics(m),
		api.WithSolverOptions(cfg.SolverOptions()...),
		api.WithSolveTimeout(cfg.WriteTimeout),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	app.storage = store
	app.metrics = m
	app.handler = handler
	app.router = apiRouter
	app.server = NewServer(cfg, BuildRootHandler(apiRouter))
	return app, nil
}

func (a *App) newStorage(ctx context.Context, cfg config.Config) (storage.Storage, error) {
	initial := cfg.InitialCatalog()

	if cfg.RedisURL == "" {
		store := storage.NewMemoryStorage()
		if err := store.SetCatalog(ctx, initial); err != nil {
			return nil, fmt.Errorf("failed to apply initial catalog: %w", err)
		}
		return store, nil
	}

	store, err := storage.NewRedisStorage(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect catalog storage: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	written, err := store.SeedCatalog(ctx, initial)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}
	a.logger.Info("using redis catalog storage", zap.Bool("seeded", written))
	return store, nil
}

// BuildRootHandler constructs the root HTTP handler: API and metrics traffic
// goes to apiHandler, the root path describes the service.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/metrics", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(serviceIndex{
			Service: "parcel-planner",
			Endpoints: []string{
				"GET /api/health",
				"GET /api/catalog",
				"PUT /api/catalog",
				"POST /api/solve",
				"GET /metrics",
			},
		})
	}))
	return mux
}

type serviceIndex struct {
	Service   string   `json:"service"`
	Endpoints []string `json:"endpoints"`
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Close releases external resources such as the Redis connection pool.
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
