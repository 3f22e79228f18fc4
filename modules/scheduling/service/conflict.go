package service

import (
	"fmt"
	"sort"

	"trainhub/modules/scheduling/entity"
)

// ConflictDetector re-scans participant schedules for commitments overlapping
// a slot. It works against a freshly generated candidate or the stored time
// of an existing meeting.
type ConflictDetector struct {
	explainer *Explainer
}

func NewConflictDetector(explainer *Explainer) *ConflictDetector {
	return &ConflictDetector{explainer: explainer}
}

// Detect returns one entry per conflicting participant, using the earliest
// overlapping interval for the explanation. The report is empty when nobody
// conflicts.
func (d *ConflictDetector) Detect(slot entity.CandidateSlot, schedules []entity.ParticipantSchedule) entity.ConflictReport {
	report := entity.ConflictReport{
		ConflictingParticipants: []entity.ParticipantConflict{},
	}

	for _, sched := range schedules {
		overlapping := make([]entity.BusyInterval, 0)
		for _, b := range sched.Busy {
			if b.Overlaps(slot.Start, slot.End) {
				overlapping = append(overlapping, b)
			}
		}
		if len(overlapping) == 0 {
			continue
		}

		sort.Slice(overlapping, func(i, j int) bool {
			return overlapping[i].Start.Before(overlapping[j].Start)
		})
		first := overlapping[0]

		report.ConflictingParticipants = append(report.ConflictingParticipants, entity.ParticipantConflict{
			Participant:         sched.Participant,
			ConflictingInterval: first,
			Reason:              conflictReason(sched.Participant, first),
		})
	}

	report.ResolutionHint = d.explainer.HintTemplate(report)
	return report
}

func conflictReason(p entity.Participant, b entity.BusyInterval) string {
	title := b.Title
	if title == "" {
		title = "an existing commitment"
	} else {
		title = fmt.Sprintf("%q", title)
	}
	return fmt.Sprintf("%s has %s from %s to %s",
		p.Name, title,
		b.Start.Format("2006-01-02 15:04"),
		b.End.Format("15:04"))
}
