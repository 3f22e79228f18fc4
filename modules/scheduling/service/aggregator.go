package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trainhub/core/cache"
	"trainhub/core/logger"
	"trainhub/modules/scheduling/entity"
)

// BusySource supplies one participant's busy intervals from an external
// calendar collaborator (generic events, meetings, connected calendars).
type BusySource interface {
	Name() string
	UserBusy(ctx context.Context, userID int64) ([]entity.BusyInterval, error)
}

// ExcludableBusySource is implemented by sources that can leave one meeting
// out, so an edited meeting never conflicts with itself.
type ExcludableBusySource interface {
	BusySource
	UserBusyExcluding(ctx context.Context, userID, excludeMeetingID int64) ([]entity.BusyInterval, error)
}

// AggregatorConfig tunes fetch timeouts and busy-interval caching.
type AggregatorConfig struct {
	FetchTimeout time.Duration
	BusyCacheTTL time.Duration
}

// Aggregator collects each participant's busy intervals from every source
// into one normalized schedule per participant. Fetches are independent and
// read-only, so they run concurrently; a failed or slow fetch degrades that
// participant to fully available with a warning instead of failing the
// request.
type Aggregator struct {
	sources      []BusySource
	cache        cache.Cache
	fetchTimeout time.Duration
	busyCacheTTL time.Duration
}

func NewAggregator(sources []BusySource, c cache.Cache, cfg AggregatorConfig) *Aggregator {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 3 * time.Second
	}
	return &Aggregator{
		sources:      sources,
		cache:        c,
		fetchTimeout: cfg.FetchTimeout,
		busyCacheTTL: cfg.BusyCacheTTL,
	}
}

// Aggregate fetches and normalizes busy intervals for every participant.
// excludeMeetingID, when non-zero, is left out of meeting-backed sources.
// Results are positionally keyed by participant, so fetch completion order
// never affects scoring. allFailed reports whether every participant's every
// source failed, i.e. no calendar information is available at all.
func (a *Aggregator) Aggregate(ctx context.Context, participants []entity.Participant, excludeMeetingID int64) (schedules []entity.ParticipantSchedule, warnings []string, allFailed bool) {
	schedules = make([]entity.ParticipantSchedule, len(participants))
	warnLists := make([][]string, len(participants))
	failures := make([]bool, len(participants))

	var wg sync.WaitGroup

	for i, p := range participants {
		wg.Add(1)
		go func(idx int, participant entity.Participant) {
			defer wg.Done()
			busy, warns, failed := a.fetchParticipant(ctx, participant, excludeMeetingID)
			sched := entity.ParticipantSchedule{Participant: participant, Busy: busy}
			sched.SortBusy()
			schedules[idx] = sched
			warnLists[idx] = warns
			failures[idx] = failed
		}(i, p)
	}
	wg.Wait()

	// flatten positionally so identical requests report warnings in the same order
	warnings = make([]string, 0)
	failedCount := 0
	for i := range participants {
		warnings = append(warnings, warnLists[i]...)
		if failures[i] {
			failedCount++
		}
	}

	allFailed = len(participants) > 0 && failedCount == len(participants)
	return schedules, warnings, allFailed
}

func (a *Aggregator) fetchParticipant(ctx context.Context, p entity.Participant, excludeMeetingID int64) ([]entity.BusyInterval, []string, bool) {
	cacheKey := fmt.Sprintf("user:%d", p.ID)
	if excludeMeetingID != 0 {
		cacheKey = fmt.Sprintf("user:%d:excl:%d", p.ID, excludeMeetingID)
	}

	if a.cache != nil {
		var cached []entity.BusyInterval
		if hit, err := a.cache.GetBusyJSON(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil, false
		}
	}

	busy := make([]entity.BusyInterval, 0)
	warnings := make([]string, 0)
	failedSources := 0

	for _, source := range a.sources {
		fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
		intervals, err := a.fetchFromSource(fetchCtx, source, p.ID, excludeMeetingID)
		cancel()

		if err != nil {
			logger.Warn("Aggregator:fetchParticipant:SourceFailed",
				"source", source.Name(), "user_id", p.ID, "error", err)
			warnings = append(warnings,
				fmt.Sprintf("calendar source %q unavailable for %s; treating them as free there", source.Name(), p.Name))
			failedSources++
			continue
		}
		busy = append(busy, intervals...)
	}

	if a.cache != nil && failedSources == 0 {
		if err := a.cache.SetBusyJSON(ctx, cacheKey, busy, a.busyCacheTTL); err != nil {
			logger.Warn("Aggregator:fetchParticipant:CacheSetFailed", "user_id", p.ID, "error", err)
		}
	}

	failed := len(a.sources) > 0 && failedSources == len(a.sources)
	return busy, warnings, failed
}

func (a *Aggregator) fetchFromSource(ctx context.Context, source BusySource, userID, excludeMeetingID int64) ([]entity.BusyInterval, error) {
	if excludeMeetingID != 0 {
		if ex, ok := source.(ExcludableBusySource); ok {
			return ex.UserBusyExcluding(ctx, userID, excludeMeetingID)
		}
	}
	return source.UserBusy(ctx, userID)
}
