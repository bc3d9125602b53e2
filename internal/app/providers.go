package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"voxscribe/internal/api/middleware"
	"voxscribe/internal/api/server"
	"voxscribe/internal/api/v1/handlers"
	"voxscribe/internal/api/v1/services"
	"voxscribe/internal/app/api/provider"
	"voxscribe/internal/app/jobs"
	"voxscribe/internal/app/logging"
	"voxscribe/internal/app/metrics"
	"voxscribe/internal/app/repository"
	"voxscribe/internal/app/repository/pg"
	"voxscribe/internal/app/repository/sqlite"
	"voxscribe/internal/app/session"
	"voxscribe/internal/app/transcribe"
	"voxscribe/internal/config"

	// Vendors register themselves with provider.DefaultRegistry.
	_ "voxscribe/internal/app/api/assemblyai"
	_ "voxscribe/internal/app/api/openai/whisper"
)

// Version is reported by /health and the version command. Release builds
// override it with -ldflags "-X voxscribe/internal/app.Version=...".
var Version = "v1.0.0"

// Application is everything the serve command runs.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Server *server.Server
	Jobs   *jobs.Registry
}

// Stores groups the history and profile backends. Hosted is nil when no
// PostgreSQL DSN is configured.
type Stores struct {
	Hosted   *pg.PostgresDB
	Local    *sqlite.SQLiteDB
	Fallback *repository.FallbackStore
}

// History is the store services read and write through.
func (s *Stores) History() repository.HistoryStore {
	return s.Fallback
}

// Profiles prefers the hosted store.
func (s *Stores) Profiles() repository.ProfileStore {
	if s.Hosted != nil {
		return s.Hosted
	}
	return s.Local
}

func provideLogger(cfg *config.Config) *slog.Logger {
	return logging.NewSlog(cfg.Log, nil)
}

func providePromRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

func provideVendor(cfg *config.Config, m *metrics.Metrics) (provider.Vendor, error) {
	return provider.DefaultRegistry().Create(cfg.Vendor.Name, provider.Config{
		APIKey:         cfg.Vendor.APIKey,
		BaseURL:        cfg.Vendor.BaseURL,
		Model:          cfg.Vendor.Model,
		RequestTimeout: cfg.Vendor.RequestTimeout,
		Metrics:        m,
	})
}

func providePipeline(cfg *config.Config, v provider.Vendor, m *metrics.Metrics, logger *slog.Logger) *transcribe.Pipeline {
	return transcribe.NewPipeline(v, transcribe.PollConfig{
		Interval: cfg.Poll.Interval,
		Timeout:  cfg.Poll.Timeout,
	}, m, logger)
}

// provideStores opens the local store and, when configured, the hosted one.
// An unreachable hosted store is not fatal: the fallback serves locally
// until it comes back.
func provideStores(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*Stores, func(), error) {
	local, err := sqlite.NewSQLiteDB(cfg.Database.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open local history: %w", err)
	}

	stores := &Stores{Local: local}
	if dsn := strings.TrimSpace(cfg.Database.PostgresDSN); dsn != "" {
		hosted, err := pg.NewPostgresDB(dsn)
		if err != nil {
			local.Close()
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := hosted.EnsureSchema(ctx); err != nil {
			logger.Warn("hosted schema not applied, continuing with local fallback", "error", err)
		}
		cancel()
		stores.Hosted = hosted
	}

	var hosted repository.HistoryStore
	if stores.Hosted != nil {
		hosted = stores.Hosted
	}
	stores.Fallback = repository.NewFallbackStore(hosted, local, logger, m)

	cleanup := func() {
		stores.Fallback.Wait()
		if stores.Hosted != nil {
			stores.Hosted.Close()
		}
		local.Close()
	}
	return stores, cleanup, nil
}

func provideHistoryStore(s *Stores) repository.HistoryStore {
	return s.History()
}

func provideProfileStore(s *Stores) repository.ProfileStore {
	return s.Profiles()
}

// provideStorage connects to MinIO when configured. Without it avatars are
// kept in memory.
func provideStorage(cfg *config.Config, logger *slog.Logger) services.StorageService {
	if !cfg.Storage.Enabled() {
		return services.NewMockStorageService()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	storage, err := services.NewMinioStorageService(ctx, cfg.Storage)
	if err != nil {
		logger.Warn("object storage unavailable, keeping avatars in memory", "endpoint", cfg.Storage.Endpoint, "error", err)
		return services.NewMockStorageService()
	}
	return storage
}

// provideJobCache returns nil when Redis is not configured.
func provideJobCache(cfg *config.Config) (*jobs.RedisCache, func()) {
	if cfg.Redis.Addr == "" {
		return nil, func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return jobs.NewRedisCache(client, cfg.Redis.TTL), func() { client.Close() }
}

func provideJobRegistry(cache *jobs.RedisCache, m *metrics.Metrics, logger *slog.Logger) (*jobs.Registry, func()) {
	var c jobs.Cache
	if cache != nil {
		c = cache
	}
	registry := jobs.NewRegistry(c, m, logger)
	return registry, registry.Shutdown
}

func provideSessionConfig(cfg *config.Config, profiles *services.ProfileServiceImpl) middleware.SessionConfig {
	return middleware.SessionConfig{
		Signer:          session.NewSigner(cfg.Auth.Secret),
		AllowHeaderUser: cfg.Auth.AllowHeaderUser,
		PlanOf:          profiles.PlanOf,
	}
}

func provideHealth(v provider.Vendor, stores *Stores, cache *jobs.RedisCache) *handlers.HealthHandler {
	checks := map[string]handlers.HealthCheck{}
	if hc, ok := v.(provider.HealthChecker); ok {
		checks["vendor"] = hc.HealthCheck
	}
	if stores.Hosted != nil {
		checks["database"] = stores.Hosted.Ping
	}
	if cache != nil {
		checks["redis"] = cache.Ping
	}
	return handlers.NewHealthHandler(Version, v.Name(), checks)
}

func provideServer(cfg *config.Config, deps server.Dependencies, logger *slog.Logger) *server.Server {
	srv := cfg.Server
	srv.WriteTimeout = cfg.HTTPWriteTimeout()
	return server.NewServer(srv, deps, strings.EqualFold(cfg.Log.Level, "debug"), logger)
}
