package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainhub/modules/scheduling/entity"
)

func TestToSuggestTimeResponse(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	result := &entity.SuggestionResult{
		Primary: entity.RankedSlot{
			CandidateSlot:  entity.NewCandidateSlot(start, 60),
			AvailableCount: 3,
		},
		Reason:         "Selected because all 2 required participants are free and 3/3 total participants can attend.",
		AvailableCount: 3,
		TotalCount:     3,
		Alternatives: []entity.RankedSlot{
			{CandidateSlot: entity.NewCandidateSlot(start.Add(time.Hour), 60), AvailableCount: 2},
		},
		Conflicts: entity.ConflictReport{ConflictingParticipants: []entity.ParticipantConflict{}},
		Warnings:  []string{"calendar source \"events\" unavailable for Eli; treating them as free there"},
	}

	resp := ToSuggestTimeResponse(result)

	assert.Equal(t, "2025-03-10", resp.SuggestedDate)
	assert.Equal(t, "14:00", resp.SuggestedTime)
	assert.Equal(t, 3, resp.AvailableParticipants)
	assert.Equal(t, 3, resp.TotalParticipants)
	require.Len(t, resp.AlternativeTimes, 1)
	assert.Equal(t, "2025-03-10", resp.AlternativeTimes[0].Date)
	assert.Equal(t, "15:00", resp.AlternativeTimes[0].Time)
	assert.Equal(t, 2, resp.AlternativeTimes[0].AvailableParticipants)
	assert.NotNil(t, resp.ConflictDetails.ConflictingParticipants)
	assert.Len(t, resp.Warnings, 1)
}

func TestToDetectConflictsResponse(t *testing.T) {
	report := entity.ConflictReport{
		ConflictingParticipants: []entity.ParticipantConflict{
			{
				Participant: entity.Participant{ID: 5, Name: "Dana", RequiredAttendance: true},
				Reason:      `Dana has "Project Review" from 2025-03-10 10:00 to 11:00`,
			},
		},
		ResolutionHint: "One or more required participants have conflicting commitments at this time; rescheduling is recommended.",
	}

	resp := ToDetectConflictsResponse(report, 4, nil)

	assert.True(t, resp.HasConflicts)
	assert.Equal(t, 4, resp.TotalParticipants)
	assert.Equal(t, 1, resp.ConflictingParticipantsCount)
	require.Len(t, resp.ConflictingParticipants, 1)
	assert.Equal(t, int64(5), resp.ConflictingParticipants[0].UserID)
	assert.Equal(t, "Dana", resp.ConflictingParticipants[0].Name)
	assert.Contains(t, resp.ConflictingParticipants[0].ConflictReason, "Project Review")
	assert.Equal(t, report.ResolutionHint, resp.ResolutionSuggestion)
}

func TestToDetectConflictsResponseEmpty(t *testing.T) {
	resp := ToDetectConflictsResponse(entity.ConflictReport{}, 2, nil)

	assert.False(t, resp.HasConflicts)
	assert.Equal(t, 0, resp.ConflictingParticipantsCount)
	assert.NotNil(t, resp.ConflictingParticipants)
	assert.Empty(t, resp.ResolutionSuggestion)
}
