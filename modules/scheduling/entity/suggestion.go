package entity

// ParticipantAvailability is one participant's free/busy verdict for a slot.
type ParticipantAvailability struct {
	Participant Participant `json:"participant"`
	Free        bool        `json:"free"`
}

// AvailabilityScore is the result of scoring one candidate slot.
type AvailabilityScore struct {
	PerParticipant         []ParticipantAvailability `json:"per_participant"`
	AvailableCount         int                       `json:"available_count"`
	RequiredAvailableCount int                       `json:"required_available_count"`
	RequiredTotalCount     int                       `json:"required_total_count"`
}

// RankedSlot is a candidate slot together with its availability counts.
type RankedSlot struct {
	CandidateSlot
	AvailableCount         int `json:"available_count"`
	RequiredAvailableCount int `json:"required_available_count"`
}

// ParticipantConflict records one participant's clash with a slot, using the
// earliest overlapping interval for the explanation.
type ParticipantConflict struct {
	Participant         Participant  `json:"participant"`
	ConflictingInterval BusyInterval `json:"conflicting_interval"`
	Reason              string       `json:"reason"`
}

// ConflictReport explains which participants clash with a slot and what to do.
type ConflictReport struct {
	ConflictingParticipants []ParticipantConflict `json:"conflicting_participants"`
	ResolutionHint          string                `json:"resolution_hint"`
}

// HasConflicts reports whether any participant clashes with the slot.
func (r ConflictReport) HasConflicts() bool {
	return len(r.ConflictingParticipants) > 0
}

// HasRequiredConflict reports whether any required participant clashes.
func (r ConflictReport) HasRequiredConflict() bool {
	for _, c := range r.ConflictingParticipants {
		if c.Participant.RequiredAttendance {
			return true
		}
	}
	return false
}

// SuggestionResult is the sole output artifact of a scheduling request.
type SuggestionResult struct {
	Primary            RankedSlot     `json:"primary"`
	Reason             string         `json:"reason"`
	AvailableCount     int            `json:"available_count"`
	TotalCount         int            `json:"total_count"`
	RequiredTotalCount int            `json:"required_total_count"`
	Alternatives       []RankedSlot   `json:"alternatives"`
	Conflicts          ConflictReport `json:"conflicts"`
	// Degraded is set when no candidate had every required participant free,
	// or when no working-hours candidate existed at all.
	Degraded bool     `json:"degraded"`
	Warnings []string `json:"warnings,omitempty"`
}
