// Package main is the entrypoint for the Simmr API server.
package main

import (
	"cmp"
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/simmr/simmr/internal/cache"
	"github.com/simmr/simmr/internal/config"
	"github.com/simmr/simmr/internal/events"
	"github.com/simmr/simmr/internal/handler"
	"github.com/simmr/simmr/internal/metrics"
	"github.com/simmr/simmr/internal/middleware"
	"github.com/simmr/simmr/internal/server"
	"github.com/simmr/simmr/internal/service"
	"github.com/simmr/simmr/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	recorder := metrics.NewInMemory()

	// Record store backend
	var (
		backend  store.Backend
		dbHealth handler.HealthChecker
		pg       *store.Postgres
	)
	if cfg.UsesMemoryStore() {
		logger.Warn("using volatile in-memory record store")
		mem := store.NewMemory()
		backend, dbHealth = mem, mem
	} else {
		pg, err = store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		defer pg.Close()
		backend, dbHealth = pg, pg
		logger.Info("connected to database")
	}

	// Cache and event stream (optional)
	var (
		cacheClient *cache.Cache
		publisher   *events.Publisher
		eventRepo   *events.Repository
		worker      *events.Worker
	)
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		defer cacheClient.Close()
		logger.Info("connected to Redis")

		publisher = events.NewPublisher(cacheClient.Client(), logger, recorder)

		if pg != nil {
			eventRepo = events.NewRepository(pg.Pool())
			if cfg.EventWorkerEnabled {
				worker = events.NewWorker(cacheClient.Client(), eventRepo, cfg.EventConsumerID, logger, recorder)
				if err := worker.Start(ctx); err != nil {
					logger.Error("failed to start event worker", "error", err)
					os.Exit(1)
				}
			}
		}
	} else {
		logger.Warn("REDIS_URL not set; running without cache, rate limiting and event feed")
	}

	// Transaction engine
	var recipeCache service.RecipeCache
	if cacheClient != nil {
		recipeCache = cacheClient
	}
	var eventPublisher service.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}
	market := service.NewMarket(backend, recipeCache, eventPublisher, recorder)

	// Handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(dbHealth, cacheHealth(cacheClient))
	metricsHandler := handler.NewMetricsHandler(recorder)
	userHandler := handler.NewUserHandler(market, logger)
	recipeHandler := handler.NewRecipeHandler(market, logger)
	contractHandler := handler.NewContractHandler(market, logger)
	var eventReader handler.EventReader
	if eventRepo != nil {
		eventReader = eventRepo
	}
	eventsHandler := handler.NewEventsHandler(eventReader, logger)

	r := setupRouter(routerDeps{
		base:     h,
		health:   healthHandler,
		metrics:  metricsHandler,
		users:    userHandler,
		recipes:  recipeHandler,
		contract: contractHandler,
		events:   eventsHandler,
		cache:    cacheClient,
		cfg:      cfg,
		logger:   logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	if worker != nil {
		srv.OnShutdown("event worker", worker.Shutdown)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"store_backend", cfg.StoreBackend,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// cacheHealth avoids handing a typed-nil *cache.Cache to the health handler.
func cacheHealth(c *cache.Cache) handler.HealthChecker {
	if c == nil {
		return nil
	}
	return c
}

// initLogger builds the process-wide slog logger from LOG_LEVEL and
// LOG_FORMAT. Unknown levels fall back to info.
func initLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.LogFormat != "json" {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

type routerDeps struct {
	base     *handler.Handler
	health   *handler.HealthHandler
	metrics  *handler.MetricsHandler
	users    *handler.UserHandler
	recipes  *handler.RecipeHandler
	contract *handler.ContractHandler
	events   *handler.EventsHandler
	cache    *cache.Cache
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      deps.cfg.IsDevelopment(),
		MaxRequestBodySize: deps.cfg.MaxRequestBodySize,
	}))
	if origins := deps.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	// Health and observability endpoints
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		if deps.cache != nil {
			r.Use(middleware.RateLimitIP(middleware.RateLimitConfig{
				Logger:  deps.logger,
				Cache:   deps.cache,
				Enabled: deps.cfg.RateLimitEnabled,
				RPS:     deps.cfg.RateLimitRPS,
				Burst:   deps.cfg.RateLimitBurst,
			}))
		}

		r.Route("/users", func(r chi.Router) {
			r.Post("/", deps.users.Create)
			r.Get("/{id}", deps.users.Get)
			r.Post("/{id}/fund", deps.contract.Fund)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", deps.recipes.List)
			r.Post("/", deps.recipes.Create)
			r.Get("/{id}", deps.recipes.Get)
			r.Patch("/{id}", deps.recipes.Edit)
			r.Patch("/{id}/description", deps.recipes.EditCommunity)
			r.Post("/{id}/buy", deps.recipes.Buy)
			r.Get("/{id}/reviews", deps.recipes.Reviews)
			r.Post("/{id}/reviews", deps.recipes.AddReview)
		})

		r.Post("/contract", deps.contract.Init)
		r.Get("/events", deps.events.Recent)
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL strips credentials from a connection URL so it can be logged.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}
	if parsed.User != nil {
		parsed.User = url.User(cmp.Or(parsed.User.Username(), "redacted"))
	}
	return parsed.String()
}

// sanitizeError rewrites an error message so configured secrets never reach
// the logs, covering both full connection URLs and password= parameters.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, secret, cmp.Or(redactURL(secret), "[redacted]"))
	}
	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
