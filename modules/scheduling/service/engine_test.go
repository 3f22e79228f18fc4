package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainhub/modules/scheduling/entity"
)

// Wednesday, so the default horizon starts Thursday 2025-03-06.
func fixedNow() time.Time {
	return time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
}

func at(day, hour, min int) time.Time {
	return time.Date(2025, 3, day, hour, min, 0, 0, time.UTC)
}

func newTestEngine() *Engine {
	explainer := NewExplainer(nil)
	return NewEngine(EngineConfig{Now: fixedNow}, NewConflictDetector(explainer), explainer)
}

func person(id int64, name string, required bool) entity.Participant {
	return entity.Participant{ID: id, Name: name, Role: entity.RoleAttendee, RequiredAttendance: required}
}

func sched(p entity.Participant, busy ...entity.BusyInterval) entity.ParticipantSchedule {
	return entity.ParticipantSchedule{Participant: p, Busy: busy}
}

func busyAt(day, hour int, durHours int, title string) entity.BusyInterval {
	start := at(day, hour, 0)
	return entity.BusyInterval{Start: start, End: start.Add(time.Duration(durHours) * time.Hour), Title: title}
}

func TestSuggestAvoidsBusyParticipant(t *testing.T) {
	e := newTestEngine()

	// A is busy Monday 2025-03-10 10:00-11:00; B is always free.
	schedules := []entity.ParticipantSchedule{
		sched(person(1, "A", true), busyAt(10, 10, 1, "Project Review")),
		sched(person(2, "B", true)),
	}

	result := e.Suggest(context.Background(), schedules, 60, nil, "sync")

	// Earliest slot where everyone is free wins: Thursday 09:00.
	assert.Equal(t, at(6, 9, 0), result.Primary.Start)
	assert.Equal(t, 2, result.Primary.AvailableCount)
	assert.Equal(t, 2, result.Primary.RequiredAvailableCount)
	assert.False(t, result.Degraded)
	assert.False(t, result.Conflicts.HasConflicts())
	assert.Len(t, result.Alternatives, 3)
}

func TestSuggestPreferredDatesRestrictCandidates(t *testing.T) {
	e := newTestEngine()
	schedules := []entity.ParticipantSchedule{
		sched(person(1, "A", true)),
		sched(person(2, "B", true)),
	}
	preferred := []time.Time{at(10, 0, 0)} // Monday 2025-03-10

	result := e.Suggest(context.Background(), schedules, 60, preferred, "")

	assert.Equal(t, at(10, 9, 0), result.Primary.Start)
	for _, alt := range result.Alternatives {
		assert.Equal(t, 10, alt.Start.Day())
	}
}

func TestSuggestOptionalConflictStillPrimary(t *testing.T) {
	e := newTestEngine()

	// On the only candidate day, required R1 and R2 are free only at 10:00;
	// optional O is busy exactly then.
	blockMorning := busyAt(10, 9, 1, "Planning")
	blockRest := busyAt(10, 11, 6, "Workshop")
	schedules := []entity.ParticipantSchedule{
		sched(person(1, "R1", true), blockMorning, blockRest),
		sched(person(2, "R2", true), blockMorning, blockRest),
		sched(person(3, "O", false), busyAt(10, 10, 1, "1:1")),
	}

	result := e.Suggest(context.Background(), schedules, 60, []time.Time{at(10, 0, 0)}, "")

	assert.Equal(t, at(10, 10, 0), result.Primary.Start)
	assert.Equal(t, 2, result.Primary.RequiredAvailableCount)
	require.Len(t, result.Conflicts.ConflictingParticipants, 1)
	assert.Equal(t, int64(3), result.Conflicts.ConflictingParticipants[0].Participant.ID)
	assert.False(t, result.Conflicts.HasRequiredConflict())
	assert.Contains(t, result.Conflicts.ResolutionHint, "organizer may proceed")
	assert.False(t, result.Degraded)
}

func TestSuggestRequiredAvailabilityDominates(t *testing.T) {
	e := newTestEngine()

	// At 09:00 both required are free but both optionals are busy (2 available).
	// At 10:00 one required is busy but both optionals are free (3 available).
	schedules := []entity.ParticipantSchedule{
		sched(person(1, "R1", true), busyAt(10, 10, 1, "Standup")),
		sched(person(2, "R2", true)),
		sched(person(3, "O1", false), busyAt(10, 9, 1, "Focus")),
		sched(person(4, "O2", false), busyAt(10, 9, 1, "Focus")),
	}

	result := e.Suggest(context.Background(), schedules, 60, []time.Time{at(10, 0, 0)}, "")

	assert.Equal(t, at(10, 9, 0), result.Primary.Start)
	assert.Equal(t, 2, result.Primary.RequiredAvailableCount)
	assert.Equal(t, 2, result.Primary.AvailableCount)
}

func TestSuggestZeroParticipantsFallsBack(t *testing.T) {
	e := newTestEngine()

	result := e.Suggest(context.Background(), nil, 60, nil, "")

	assert.Equal(t, at(6, 10, 0), result.Primary.Start)
	assert.Equal(t, 0, result.TotalCount)
	assert.Equal(t, 0, result.AvailableCount)
	assert.Empty(t, result.Alternatives)
	assert.False(t, result.Conflicts.HasConflicts())
	assert.Contains(t, result.Reason, "No participants")
}

func TestSuggestDurationExceedsWorkingHours(t *testing.T) {
	e := newTestEngine()
	schedules := []entity.ParticipantSchedule{sched(person(1, "A", true))}

	result := e.Suggest(context.Background(), schedules, 600, nil, "")

	// 10 hours never fits in 09:00-17:00; best effort at 09:00 next weekday.
	assert.True(t, result.Degraded)
	assert.Equal(t, at(6, 9, 0), result.Primary.Start)
	assert.Contains(t, result.Reason, "best-effort")
}

func TestSuggestIsDeterministic(t *testing.T) {
	e := newTestEngine()
	build := func() []entity.ParticipantSchedule {
		return []entity.ParticipantSchedule{
			sched(person(1, "A", true), busyAt(6, 9, 2, "Training"), busyAt(7, 14, 1, "Review")),
			sched(person(2, "B", true), busyAt(6, 11, 1, "1:1")),
			sched(person(3, "C", false), busyAt(10, 9, 8, "Offsite")),
		}
	}

	first := e.Suggest(context.Background(), build(), 60, nil, "retro")
	second := e.Suggest(context.Background(), build(), 60, nil, "retro")

	assert.Equal(t, first.Primary.Start, second.Primary.Start)
	assert.Equal(t, first.Reason, second.Reason)
	require.Equal(t, len(first.Alternatives), len(second.Alternatives))
	for i := range first.Alternatives {
		assert.Equal(t, first.Alternatives[i].Start, second.Alternatives[i].Start)
	}
}

func TestSuggestCandidatesAreWeekdaysOnly(t *testing.T) {
	e := newTestEngine()
	schedules := []entity.ParticipantSchedule{sched(person(1, "A", true))}

	result := e.Suggest(context.Background(), schedules, 60, nil, "")

	check := func(start time.Time) {
		assert.NotEqual(t, time.Saturday, start.Weekday())
		assert.NotEqual(t, time.Sunday, start.Weekday())
	}
	check(result.Primary.Start)
	for _, alt := range result.Alternatives {
		check(alt.Start)
	}
}

func TestSuggestSkipsWeekendPreferredDates(t *testing.T) {
	e := newTestEngine()
	schedules := []entity.ParticipantSchedule{
		sched(person(1, "A", true)),
	}

	t.Run("mixed dates keep only weekdays", func(t *testing.T) {
		// Saturday 2025-03-08 and Monday 2025-03-10
		result := e.Suggest(context.Background(), schedules, 60,
			[]time.Time{at(8, 0, 0), at(10, 0, 0)}, "")

		assert.Equal(t, at(10, 9, 0), result.Primary.Start)
		assert.False(t, result.Degraded)
		for _, alt := range result.Alternatives {
			assert.Equal(t, time.Monday, alt.Start.Weekday())
		}
	})

	t.Run("weekend-only dates fall back degraded", func(t *testing.T) {
		// Saturday and Sunday leave no candidates at all
		result := e.Suggest(context.Background(), schedules, 60,
			[]time.Time{at(8, 0, 0), at(9, 0, 0)}, "")

		assert.True(t, result.Degraded)
		assert.NotEqual(t, time.Saturday, result.Primary.Start.Weekday())
		assert.NotEqual(t, time.Sunday, result.Primary.Start.Weekday())
		assert.Equal(t, at(6, 10, 0), result.Primary.Start)
	})
}

func TestSuggestNoFullySharedSlotPicksBest(t *testing.T) {
	e := newTestEngine()

	// Two required participants whose busy blocks jointly cover every hour of
	// the only candidate day, but each leaves a different hour open.
	schedules := []entity.ParticipantSchedule{
		sched(person(1, "A", true), busyAt(10, 9, 5, "Offsite"), busyAt(10, 15, 2, "Calls")),
		sched(person(2, "B", true), busyAt(10, 9, 6, "Offsite"), busyAt(10, 14, 3, "Calls")),
	}

	result := e.Suggest(context.Background(), schedules, 60, []time.Time{at(10, 0, 0)}, "")

	// A is free 14:00-15:00, B never shares it; one of one-required slots wins.
	assert.True(t, result.Degraded)
	assert.Equal(t, 1, result.Primary.RequiredAvailableCount)
	assert.Equal(t, at(10, 14, 0), result.Primary.Start)
	assert.True(t, result.Conflicts.HasRequiredConflict())
	assert.Contains(t, result.Conflicts.ResolutionHint, "rescheduling is recommended")
}

func TestFallbackSlotMovesEarlierForLongMeetings(t *testing.T) {
	e := newTestEngine()

	short := e.FallbackSlot(60)
	assert.Equal(t, at(6, 10, 0), short.Start)

	long := e.FallbackSlot(8 * 60)
	assert.Equal(t, at(6, 9, 0), long.Start)
	assert.Equal(t, at(6, 17, 0), long.End)
}

func TestFallbackSlotSkipsWeekend(t *testing.T) {
	// Friday 2025-03-07: next weekday is Monday the 10th.
	friday := func() time.Time { return time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC) }
	explainer := NewExplainer(nil)
	e := NewEngine(EngineConfig{Now: friday}, NewConflictDetector(explainer), explainer)

	slot := e.FallbackSlot(60)
	assert.Equal(t, at(10, 10, 0), slot.Start)
}
