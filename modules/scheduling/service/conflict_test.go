package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainhub/modules/scheduling/entity"
)

func TestDetectReportsEarliestOverlap(t *testing.T) {
	detector := NewConflictDetector(NewExplainer(nil))
	slot := entity.NewCandidateSlot(at(10, 10, 0), 120) // 10:00-12:00

	schedules := []entity.ParticipantSchedule{
		sched(person(1, "Dana", true),
			busyAt(10, 11, 1, "Project Review"),
			busyAt(10, 10, 1, "Standup"),
		),
		sched(person(2, "Eli", true)),
	}

	report := detector.Detect(slot, schedules)

	require.Len(t, report.ConflictingParticipants, 1)
	c := report.ConflictingParticipants[0]
	assert.Equal(t, int64(1), c.Participant.ID)
	assert.Equal(t, "Standup", c.ConflictingInterval.Title)
	assert.Contains(t, c.Reason, "Dana")
	assert.Contains(t, c.Reason, `"Standup"`)
	assert.Contains(t, c.Reason, "2025-03-10 10:00")
	assert.Contains(t, c.Reason, "11:00")
}

func TestDetectNoConflicts(t *testing.T) {
	detector := NewConflictDetector(NewExplainer(nil))
	slot := entity.NewCandidateSlot(at(10, 10, 0), 60)

	schedules := []entity.ParticipantSchedule{
		sched(person(1, "Dana", true), busyAt(10, 11, 1, "Later")),
		sched(person(2, "Eli", false), busyAt(10, 9, 1, "Earlier")),
	}

	report := detector.Detect(slot, schedules)

	assert.Empty(t, report.ConflictingParticipants)
	assert.Empty(t, report.ResolutionHint)
	assert.False(t, report.HasConflicts())
}

func TestDetectResolutionHints(t *testing.T) {
	detector := NewConflictDetector(NewExplainer(nil))
	slot := entity.NewCandidateSlot(at(10, 10, 0), 60)
	clash := busyAt(10, 10, 1, "Project Review")

	t.Run("required conflict recommends reschedule", func(t *testing.T) {
		report := detector.Detect(slot, []entity.ParticipantSchedule{
			sched(person(1, "Dana", true), clash),
			sched(person(2, "Eli", false), clash),
		})
		assert.Contains(t, report.ResolutionHint, "rescheduling is recommended")
	})

	t.Run("optional-only conflict lets organizer proceed", func(t *testing.T) {
		report := detector.Detect(slot, []entity.ParticipantSchedule{
			sched(person(1, "Dana", true)),
			sched(person(2, "Eli", false), clash),
		})
		assert.Contains(t, report.ResolutionHint, "organizer may proceed")
	})
}

func TestDetectUntitledCommitment(t *testing.T) {
	detector := NewConflictDetector(NewExplainer(nil))
	slot := entity.NewCandidateSlot(at(10, 10, 0), 60)

	report := detector.Detect(slot, []entity.ParticipantSchedule{
		sched(person(1, "Dana", true), entity.BusyInterval{
			Start: at(10, 10, 0),
			End:   at(10, 10, 30),
		}),
	})

	require.Len(t, report.ConflictingParticipants, 1)
	assert.Contains(t, report.ConflictingParticipants[0].Reason, "an existing commitment")
}

func TestDetectPreservesParticipantOrder(t *testing.T) {
	detector := NewConflictDetector(NewExplainer(nil))
	slot := entity.NewCandidateSlot(at(10, 10, 0), 60)
	clash := entity.BusyInterval{Start: at(10, 9, 30), End: at(10, 10, 30), Title: "Clash"}

	report := detector.Detect(slot, []entity.ParticipantSchedule{
		sched(person(3, "C", true), clash),
		sched(person(1, "A", true), clash),
		sched(person(2, "B", false)),
	})

	require.Len(t, report.ConflictingParticipants, 2)
	assert.Equal(t, int64(3), report.ConflictingParticipants[0].Participant.ID)
	assert.Equal(t, int64(1), report.ConflictingParticipants[1].Participant.ID)
}
