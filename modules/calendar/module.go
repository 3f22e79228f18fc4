package calendar

import (
	"trainhub/core/config"
	"trainhub/core/database"
	"trainhub/modules/calendar/repository"
	"trainhub/modules/calendar/service"
)

// NewBusySource builds the Google Calendar busy-interval source contributed
// to the scheduling aggregator. This module exposes no HTTP surface:
// connection management belongs to the surrounding application.
func NewBusySource(db database.IDatabase) *service.GoogleBusySource {
	cfg := config.Get()
	repo := repository.NewCalendarRepository(db)

	// Cover the whole search horizon with some slack for rescheduling checks.
	windowDays := cfg.Scheduling.HorizonWeekdays * 2
	return service.NewGoogleBusySource(repo, cfg.GoogleAPI, windowDays)
}
