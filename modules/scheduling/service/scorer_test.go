package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainhub/modules/scheduling/entity"
)

func TestScoreSlot(t *testing.T) {
	slot := entity.NewCandidateSlot(at(10, 10, 0), 60)

	tests := []struct {
		name          string
		schedules     []entity.ParticipantSchedule
		wantAvail     int
		wantReqAvail  int
		wantReqTotal  int
		wantFreeFlags []bool
	}{
		{
			name:          "everyone free",
			schedules:     []entity.ParticipantSchedule{sched(person(1, "A", true)), sched(person(2, "B", false))},
			wantAvail:     2,
			wantReqAvail:  1,
			wantReqTotal:  1,
			wantFreeFlags: []bool{true, true},
		},
		{
			name: "required participant busy",
			schedules: []entity.ParticipantSchedule{
				sched(person(1, "A", true), busyAt(10, 10, 1, "Standup")),
				sched(person(2, "B", false)),
			},
			wantAvail:     1,
			wantReqAvail:  0,
			wantReqTotal:  1,
			wantFreeFlags: []bool{false, true},
		},
		{
			name: "adjacent interval does not block",
			schedules: []entity.ParticipantSchedule{
				sched(person(1, "A", true), busyAt(10, 9, 1, "Before"), busyAt(10, 11, 1, "After")),
			},
			wantAvail:     1,
			wantReqAvail:  1,
			wantReqTotal:  1,
			wantFreeFlags: []bool{true},
		},
		{
			name: "overlapping busy intervals count once",
			schedules: []entity.ParticipantSchedule{
				sched(person(1, "A", true), busyAt(10, 9, 3, "Offsite"), busyAt(10, 10, 1, "Standup")),
			},
			wantAvail:     0,
			wantReqAvail:  0,
			wantReqTotal:  1,
			wantFreeFlags: []bool{false},
		},
		{
			name:          "empty schedules",
			schedules:     nil,
			wantAvail:     0,
			wantReqAvail:  0,
			wantReqTotal:  0,
			wantFreeFlags: []bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreSlot(slot, tt.schedules)

			assert.Equal(t, tt.wantAvail, score.AvailableCount)
			assert.Equal(t, tt.wantReqAvail, score.RequiredAvailableCount)
			assert.Equal(t, tt.wantReqTotal, score.RequiredTotalCount)
			require.Len(t, score.PerParticipant, len(tt.wantFreeFlags))
			for i, free := range tt.wantFreeFlags {
				assert.Equal(t, free, score.PerParticipant[i].Free)
			}
		})
	}
}

func TestScoreSlotPure(t *testing.T) {
	slot := entity.NewCandidateSlot(at(10, 10, 0), 60)
	schedules := []entity.ParticipantSchedule{
		sched(person(1, "A", true), busyAt(10, 10, 1, "Standup")),
	}

	first := ScoreSlot(slot, schedules)
	second := ScoreSlot(slot, schedules)

	assert.Equal(t, first, second)
	// input schedule untouched
	require.Len(t, schedules[0].Busy, 1)
	assert.Equal(t, at(10, 10, 0), schedules[0].Busy[0].Start)
}

func TestScoreAgreesWithConflictDetector(t *testing.T) {
	slot := entity.NewCandidateSlot(at(10, 10, 0), 60)
	schedules := []entity.ParticipantSchedule{
		sched(person(1, "A", true), busyAt(10, 10, 1, "Standup")),
		sched(person(2, "B", true)),
		sched(person(3, "C", false), busyAt(10, 9, 4, "Offsite")),
	}

	score := ScoreSlot(slot, schedules)
	report := NewConflictDetector(NewExplainer(nil)).Detect(slot, schedules)

	conflicting := make(map[int64]bool)
	for _, c := range report.ConflictingParticipants {
		conflicting[c.Participant.ID] = true
	}
	for _, pa := range score.PerParticipant {
		assert.Equal(t, !pa.Free, conflicting[pa.Participant.ID],
			"participant %d free=%v must mirror conflict presence", pa.Participant.ID, pa.Free)
	}

	var freeCount int
	for _, pa := range score.PerParticipant {
		if pa.Free {
			freeCount++
		}
	}
	assert.Equal(t, len(schedules)-len(report.ConflictingParticipants), freeCount)
}
