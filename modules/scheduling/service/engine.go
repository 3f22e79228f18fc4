package service

import (
	"context"
	"sort"
	"time"

	"trainhub/core/constants"
	"trainhub/modules/scheduling/entity"
)

// EngineConfig tunes the slot search. Zero values fall back to defaults so
// tests can construct engines with only what they care about.
type EngineConfig struct {
	Location        *time.Location
	HorizonWeekdays int
	MaxAlternatives int
	Now             func() time.Time
}

// Engine explores candidate start times within working hours and ranks them
// by a deterministic policy: required availability first, then total
// availability, then earliest start.
type Engine struct {
	loc             *time.Location
	horizonWeekdays int
	maxAlternatives int
	now             func() time.Time
	detector        *ConflictDetector
	explainer       *Explainer
}

func NewEngine(cfg EngineConfig, detector *ConflictDetector, explainer *Explainer) *Engine {
	e := &Engine{
		loc:             cfg.Location,
		horizonWeekdays: cfg.HorizonWeekdays,
		maxAlternatives: cfg.MaxAlternatives,
		now:             cfg.Now,
		detector:        detector,
		explainer:       explainer,
	}
	if e.loc == nil {
		e.loc = time.UTC
	}
	if e.horizonWeekdays <= 0 {
		e.horizonWeekdays = constants.DefaultHorizonWeekdays
	}
	if e.maxAlternatives <= 0 {
		e.maxAlternatives = constants.MaxAlternativeSlots
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

type rankedCandidate struct {
	slot  entity.CandidateSlot
	score entity.AvailabilityScore
}

// Suggest produces a primary suggestion plus alternatives. It never fails:
// degraded availability, impossible durations and empty participant lists
// all still yield a best-effort result.
func (e *Engine) Suggest(ctx context.Context, schedules []entity.ParticipantSchedule, durationMinutes int, preferredDates []time.Time, purpose string) entity.SuggestionResult {
	if durationMinutes <= 0 {
		durationMinutes = constants.DefaultDurationMinutes
	}

	for i := range schedules {
		schedules[i].SortBusy()
	}

	requiredTotal := 0
	for _, s := range schedules {
		if s.Participant.RequiredAttendance {
			requiredTotal++
		}
	}

	if len(schedules) == 0 {
		slot := e.FallbackSlot(durationMinutes)
		facts := ReasonFacts{
			Slot:           slot,
			NoParticipants: true,
			Purpose:        purpose,
		}
		return entity.SuggestionResult{
			Primary:      entity.RankedSlot{CandidateSlot: slot},
			Reason:       e.explainer.Reason(ctx, facts),
			Alternatives: []entity.RankedSlot{},
			Conflicts:    e.detector.Detect(slot, schedules),
		}
	}

	candidates := e.generateCandidates(durationMinutes, preferredDates)

	if len(candidates) == 0 {
		// Duration exceeds the working window, or the horizon produced no
		// compliant start; still return a best-effort slot.
		slot := e.FallbackSlot(durationMinutes)
		score := ScoreSlot(slot, schedules)
		facts := ReasonFacts{
			Slot:                   slot,
			AvailableCount:         score.AvailableCount,
			TotalCount:             len(schedules),
			RequiredAvailableCount: score.RequiredAvailableCount,
			RequiredTotalCount:     requiredTotal,
			Degraded:               true,
			NoCompliantSlot:        true,
			Purpose:                purpose,
		}
		return entity.SuggestionResult{
			Primary: entity.RankedSlot{
				CandidateSlot:          slot,
				AvailableCount:         score.AvailableCount,
				RequiredAvailableCount: score.RequiredAvailableCount,
			},
			Reason:             e.explainer.Reason(ctx, facts),
			AvailableCount:     score.AvailableCount,
			TotalCount:         len(schedules),
			RequiredTotalCount: requiredTotal,
			Alternatives:       []entity.RankedSlot{},
			Conflicts:          e.detector.Detect(slot, schedules),
			Degraded:           true,
		}
	}

	ranked := make([]rankedCandidate, 0, len(candidates))
	for _, slot := range candidates {
		ranked = append(ranked, rankedCandidate{slot: slot, score: ScoreSlot(slot, schedules)})
	}

	// Slots where more required participants are free always beat slots with
	// more optional-only availability; total availability breaks ties, then
	// the sooner start wins.
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score.RequiredAvailableCount != b.score.RequiredAvailableCount {
			return a.score.RequiredAvailableCount > b.score.RequiredAvailableCount
		}
		if a.score.AvailableCount != b.score.AvailableCount {
			return a.score.AvailableCount > b.score.AvailableCount
		}
		return a.slot.Start.Before(b.slot.Start)
	})

	primary := ranked[0]
	degraded := primary.score.RequiredAvailableCount < requiredTotal

	alternatives := make([]entity.RankedSlot, 0, e.maxAlternatives)
	for _, rc := range ranked[1:] {
		if len(alternatives) == e.maxAlternatives {
			break
		}
		alternatives = append(alternatives, entity.RankedSlot{
			CandidateSlot:          rc.slot,
			AvailableCount:         rc.score.AvailableCount,
			RequiredAvailableCount: rc.score.RequiredAvailableCount,
		})
	}

	facts := ReasonFacts{
		Slot:                   primary.slot,
		AvailableCount:         primary.score.AvailableCount,
		TotalCount:             len(schedules),
		RequiredAvailableCount: primary.score.RequiredAvailableCount,
		RequiredTotalCount:     requiredTotal,
		Degraded:               degraded,
		Purpose:                purpose,
	}

	return entity.SuggestionResult{
		Primary: entity.RankedSlot{
			CandidateSlot:          primary.slot,
			AvailableCount:         primary.score.AvailableCount,
			RequiredAvailableCount: primary.score.RequiredAvailableCount,
		},
		Reason:             e.explainer.Reason(ctx, facts),
		AvailableCount:     primary.score.AvailableCount,
		TotalCount:         len(schedules),
		RequiredTotalCount: requiredTotal,
		Alternatives:       alternatives,
		Conflicts:          e.detector.Detect(primary.slot, schedules),
		Degraded:           degraded,
	}
}

// generateCandidates builds hourly start times within working hours over the
// candidate horizon: the preferred dates when given, otherwise the next
// horizonWeekdays weekdays starting tomorrow.
func (e *Engine) generateCandidates(durationMinutes int, preferredDates []time.Time) []entity.CandidateSlot {
	dates := preferredDates
	if len(dates) == 0 {
		dates = e.upcomingWeekdays()
	}

	duration := time.Duration(durationMinutes) * time.Minute
	candidates := make([]entity.CandidateSlot, 0, len(dates)*(constants.WorkingHoursEnd-constants.WorkingHoursStart))

	for _, d := range dates {
		d = d.In(e.loc)
		// meetings land on weekdays only, even when a preferred date says otherwise
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		dayEnd := time.Date(d.Year(), d.Month(), d.Day(), constants.WorkingHoursEnd, 0, 0, 0, e.loc)
		for hour := constants.WorkingHoursStart; hour < constants.WorkingHoursEnd; hour++ {
			start := time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, e.loc)
			if start.Add(duration).After(dayEnd) {
				break
			}
			candidates = append(candidates, entity.NewCandidateSlot(start, durationMinutes))
		}
	}

	return candidates
}

// upcomingWeekdays returns the next horizonWeekdays weekdays, starting from
// the day after the current day.
func (e *Engine) upcomingWeekdays() []time.Time {
	dates := make([]time.Time, 0, e.horizonWeekdays)
	day := e.today().AddDate(0, 0, 1)
	for len(dates) < e.horizonWeekdays {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return dates
}

// FallbackSlot is the default near-term slot: next weekday at 10:00, moved
// up to 09:00 when the duration cannot finish by 17:00 from there.
func (e *Engine) FallbackSlot(durationMinutes int) entity.CandidateSlot {
	day := e.today().AddDate(0, 0, 1)
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}

	hour := constants.FallbackSlotHour
	dayEnd := time.Date(day.Year(), day.Month(), day.Day(), constants.WorkingHoursEnd, 0, 0, 0, e.loc)
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, e.loc)
	if start.Add(time.Duration(durationMinutes) * time.Minute).After(dayEnd) {
		start = time.Date(day.Year(), day.Month(), day.Day(), constants.WorkingHoursStart, 0, 0, 0, e.loc)
	}
	return entity.NewCandidateSlot(start, durationMinutes)
}

func (e *Engine) today() time.Time {
	now := e.now().In(e.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.loc)
}
