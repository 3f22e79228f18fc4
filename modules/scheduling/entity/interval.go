package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// BusyInterval is an existing commitment as a half-open range [Start, End).
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Title string    `json:"title"`
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) overlap. Adjacent intervals (aEnd == bStart) do not.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Overlaps reports whether the interval overlaps [start, end).
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return Overlaps(b.Start, b.End, start, end)
}

// ParticipantSchedule holds one participant's busy intervals for the
// duration of a single scheduling request.
type ParticipantSchedule struct {
	Participant Participant    `json:"participant"`
	Busy        []BusyInterval `json:"busy"`
}

// SortBusy orders busy intervals by start time so the earliest overlapping
// interval is always picked first when explaining conflicts.
func (s *ParticipantSchedule) SortBusy() {
	sort.Slice(s.Busy, func(i, j int) bool {
		return s.Busy[i].Start.Before(s.Busy[j].Start)
	})
}

// CandidateSlot is a proposed meeting time where End = Start + duration.
type CandidateSlot struct {
	ID    uuid.UUID `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewCandidateSlot(start time.Time, durationMinutes int) CandidateSlot {
	return CandidateSlot{
		ID:    uuid.New(),
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}
