package scheduling

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"

	"trainhub/core/cache"
	"trainhub/core/config"
	"trainhub/core/database"
	"trainhub/core/logger"
	"trainhub/core/middleware"
	"trainhub/modules/scheduling/controller"
	"trainhub/modules/scheduling/repository"
	"trainhub/modules/scheduling/router"
	"trainhub/modules/scheduling/service"
)

// Init wires the scheduling module and registers its routes. extraSources
// lets other modules contribute busy-interval sources (e.g. connected
// external calendars). The service is returned so the background worker can
// register its task handler.
func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, asynqClient *asynq.Client, mw *middleware.Middleware, extraSources ...service.BusySource) service.SchedulingServiceInterface {
	cfg := config.Get()

	loc, err := time.LoadLocation(cfg.Scheduling.Timezone)
	if err != nil {
		logger.Warn("SchedulingModule:Init:BadTimezone", "timezone", cfg.Scheduling.Timezone, "error", err)
		loc = time.UTC
	}

	repo := repository.NewSchedulingRepository(db)

	sources := []service.BusySource{
		service.NewEventSource(repo),
		service.NewMeetingSource(repo),
	}
	sources = append(sources, extraSources...)

	aggregator := service.NewAggregator(sources, c, service.AggregatorConfig{
		FetchTimeout: cfg.Scheduling.FetchTimeout,
		BusyCacheTTL: cfg.Scheduling.BusyCacheTTL,
	})

	explainer := service.NewExplainer(nil)
	detector := service.NewConflictDetector(explainer)
	engine := service.NewEngine(service.EngineConfig{
		Location:        loc,
		HorizonWeekdays: cfg.Scheduling.HorizonWeekdays,
	}, detector, explainer)

	svc := service.NewSchedulingService(repo, aggregator, engine, detector, explainer, c, asynqClient,
		service.SchedulingServiceConfig{
			Location:      loc,
			SuggestionTTL: cfg.Scheduling.SuggestionCacheTTL,
		})

	ctrl := controller.NewSchedulingController(svc)
	router.NewSchedulingRouter(ctrl).Setup(e, mw)

	return svc
}
