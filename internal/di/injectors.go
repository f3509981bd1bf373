//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"jumptimer/internal"
	"jumptimer/internal/controllers"
	"jumptimer/internal/persistence"
	"jumptimer/internal/providers"
	"jumptimer/internal/services"
	"jumptimer/internal/speedrun"
	"jumptimer/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		speedrun.NewSystemClock,
		persistence.NewCompressor,
		persistence.NewFileManager,
		services.NewTemplateService,
		services.NewRecordService,
		services.NewPuzzleService,
		services.NewStoreList,
		services.NewSessionObserver,
		wire.Bind(new(speedrun.RecordSink), new(services.RecordServiceInterface)),
		speedrun.NewMachineFromConfig,
		speedrun.NewDriver,
		persistence.NewScheduler,

		controllers.NewTimerController,
		controllers.NewTemplateController,
		controllers.NewRecordController,
		controllers.NewPuzzleController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
