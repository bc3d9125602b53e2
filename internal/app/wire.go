//go:build wireinject
// +build wireinject

package app

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"voxscribe/internal/api/server"
	v1routes "voxscribe/internal/api/v1/routes"
	"voxscribe/internal/api/v1/services"
	"voxscribe/internal/config"
)

var serviceSet = wire.NewSet(
	services.NewTranscriptionService,
	services.NewJobService,
	services.NewHistoryService,
	services.NewExportService,
	services.NewProfileService,
	services.NewPlanService,
	wire.Bind(new(services.TranscriptionService), new(*services.TranscriptionServiceImpl)),
	wire.Bind(new(services.JobService), new(*services.JobServiceImpl)),
	wire.Bind(new(services.HistoryService), new(*services.HistoryServiceImpl)),
	wire.Bind(new(services.ExportService), new(*services.ExportServiceImpl)),
	wire.Bind(new(services.ProfileService), new(*services.ProfileServiceImpl)),
	wire.Bind(new(services.PlanService), new(*services.PlanServiceImpl)),
	wire.Struct(new(v1routes.ServiceContainer), "*"),
)

var storeSet = wire.NewSet(
	providePromRegistry,
	provideMetrics,
	provideStores,
)

// InitializeApplication builds the HTTP service from cfg.
func InitializeApplication(cfg *config.Config) (*Application, func(), error) {
	wire.Build(
		provideLogger,
		storeSet,
		wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
		provideVendor,
		providePipeline,
		provideHistoryStore,
		provideProfileStore,
		provideStorage,
		provideJobCache,
		provideJobRegistry,
		serviceSet,
		provideSessionConfig,
		provideHealth,
		wire.Struct(new(server.Dependencies), "*"),
		provideServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}

// InitializeStores opens only the history and profile stores, for
// maintenance commands.
func InitializeStores(cfg *config.Config, logger *slog.Logger) (*Stores, func(), error) {
	wire.Build(storeSet)
	return nil, nil, nil
}
