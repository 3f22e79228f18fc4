package service

import (
	"trainhub/modules/scheduling/entity"
)

// ScoreSlot computes, per participant, whether they are free for the slot,
// and availability counts weighted by required-vs-optional attendance.
// Pure function of its inputs.
func ScoreSlot(slot entity.CandidateSlot, schedules []entity.ParticipantSchedule) entity.AvailabilityScore {
	score := entity.AvailabilityScore{
		PerParticipant: make([]entity.ParticipantAvailability, 0, len(schedules)),
	}

	for _, sched := range schedules {
		free := isFree(slot, sched.Busy)
		score.PerParticipant = append(score.PerParticipant, entity.ParticipantAvailability{
			Participant: sched.Participant,
			Free:        free,
		})

		if free {
			score.AvailableCount++
		}
		if sched.Participant.RequiredAttendance {
			score.RequiredTotalCount++
			if free {
				score.RequiredAvailableCount++
			}
		}
	}

	return score
}

// isFree reports whether none of the busy intervals overlaps the slot.
// Overlapping busy intervals within one schedule are fine: occupied time is
// the union of all of them.
func isFree(slot entity.CandidateSlot, busy []entity.BusyInterval) bool {
	for _, b := range busy {
		if b.Overlaps(slot.Start, slot.End) {
			return false
		}
	}
	return true
}
