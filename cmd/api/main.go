// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/projects-api/internal/admin"
	"github.com/carterperez-dev/templates/projects-api/internal/config"
	"github.com/carterperez-dev/templates/projects-api/internal/core"
	"github.com/carterperez-dev/templates/projects-api/internal/health"
	"github.com/carterperez-dev/templates/projects-api/internal/middleware"
	"github.com/carterperez-dev/templates/projects-api/internal/project"
	"github.com/carterperez-dev/templates/projects-api/internal/server"
	"github.com/carterperez-dev/templates/projects-api/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	initDB := flag.Bool("init-db", false, "create tables (and seed if configured), then exit")
	flag.Parse()

	if err := run(*configPath, *initDB); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// app holds every long-lived handle. It is built once in run and handed to
// the handlers; nothing else in the process keeps global state.
type app struct {
	db        *core.Database
	redis     *core.Redis
	telemetry *core.Telemetry
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string, initDBOnly bool) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var a app

	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			a.telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	a.db, err = core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.EnsureSchema || initDBOnly {
		if err := prepareDatabase(ctx, a.db, cfg.Database, logger); err != nil {
			_ = a.db.Close() //nolint:errcheck // exiting on setup failure
			return err
		}
	}

	if initDBOnly {
		logger.Info("database initialization completed")
		return a.db.Close()
	}

	if cfg.Redis.Enabled() {
		a.redis, err = core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			_ = a.db.Close() //nolint:errcheck // exiting on setup failure
			return err
		}
		logger.Info("redis connected",
			"pool_size", cfg.Redis.PoolSize,
		)
	} else {
		logger.Info("redis not configured, rate limiting is per instance")
	}

	userRepo := user.NewRepository(a.db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	projectRepo := project.NewRepository(a.db.DB)
	projectSvc := project.NewService(projectRepo)
	projectHandler := project.NewHandler(projectSvc)

	deps := []health.Dependency{{Name: "database", Checker: a.db}}
	adminCfg := admin.HandlerConfig{
		DBStats: a.db.Stats,
		DBPing:  a.db.Ping,
		Counters: []admin.Counter{
			{Name: "users", Count: userSvc.CountUsers},
			{Name: "projects", Count: projectSvc.CountProjects},
		},
	}

	var redisClient *redis.Client
	if a.redis != nil {
		redisClient = a.redis.Client
		deps = append(deps, health.Dependency{Name: "redis", Checker: a.redis})
		adminCfg.RedisStats = a.redis.PoolStats
		adminCfg.RedisPing = a.redis.Ping
	}

	healthHandler := health.NewHandler(health.ServiceInfo{
		Name:    cfg.App.Name,
		Version: cfg.App.Version,
	}, deps...)
	adminHandler := admin.NewHandler(adminCfg)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	trustedProxies, err := config.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
	if err != nil {
		a.close(ctx, logger)
		return err
	}

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	if cfg.RateLimit.Enabled {
		router.Use(
			middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
				Limit: middleware.PerWindow(
					cfg.RateLimit.Requests,
					cfg.RateLimit.Burst,
					cfg.RateLimit.Window,
				),
				KeyFunc:  middleware.KeyByClientIP(trustedProxies),
				FailOpen: true,
				BypassFunc: middleware.SkipPaths(
					"/health", "/healthz", "/livez", "/readyz",
				),
			}).Handler,
		)
	}
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	mountRoutes(router, routeSet{
		prefix:   cfg.API.Prefix,
		health:   healthHandler,
		users:    userHandler,
		projects: projectHandler,
		admin:    adminHandler,
	}, cfg.Admin.Enabled)
	if cfg.Admin.Enabled {
		logger.Warn("admin stats routes enabled", "prefix", cfg.API.Prefix+"/admin")
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		a.close(context.Background(), logger)
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	a.close(shutdownCtx, logger)

	logger.Info("application stopped")
	return nil
}

func prepareDatabase(
	ctx context.Context,
	db *core.Database,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) error {
	if err := core.EnsureSchema(ctx, db.DB); err != nil {
		return err
	}
	logger.Info("database schema verified")

	if !cfg.SeedSampleData {
		return nil
	}

	seeded, err := core.SeedSampleData(ctx, db.DB)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("sample data inserted")
	} else {
		logger.Info("database already contains data, skipping sample data")
	}

	return nil
}

func (a *app) close(ctx context.Context, logger *slog.Logger) {
	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := a.redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := a.db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
