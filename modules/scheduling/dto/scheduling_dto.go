package dto

import (
	"trainhub/modules/scheduling/entity"
)

// ===================== Request DTOs =====================

// ParticipantRoleDTO overrides role and attendance for one participant.
type ParticipantRoleDTO struct {
	UserID             int64  `json:"userId"`
	Role               string `json:"role"`
	RequiredAttendance *bool  `json:"requiredAttendance,omitempty"`
}

// SuggestTimeRequest for POST /meetings/suggest-time
type SuggestTimeRequest struct {
	ParticipantIDs   []int64              `json:"participantIds"`
	ParticipantRoles []ParticipantRoleDTO `json:"participantRoles,omitempty"`
	DurationMinutes  int                  `json:"durationMinutes"`
	PreferredDates   []string             `json:"preferredDates,omitempty"` // ISO dates, YYYY-MM-DD
	MeetingPurpose   string               `json:"meetingPurpose,omitempty"`
}

// DetectConflictsRequest for POST /meetings/detect-conflicts
type DetectConflictsRequest struct {
	MeetingID    int64  `json:"meetingId"`
	NewStartTime string `json:"newStartTime,omitempty"` // RFC3339
	NewEndTime   string `json:"newEndTime,omitempty"`   // RFC3339
}

// ===================== Response DTOs =====================

// AlternativeTimeDTO is one alternative slot in a suggestion response.
type AlternativeTimeDTO struct {
	Date                  string `json:"date"`
	Time                  string `json:"time"`
	AvailableParticipants int    `json:"availableParticipants"`
}

// ConflictingParticipantDTO is one participant's conflict entry.
type ConflictingParticipantDTO struct {
	UserID         int64  `json:"userId"`
	Name           string `json:"name"`
	ConflictReason string `json:"conflictReason"`
}

// ConflictDetailsDTO is the conflict block of a suggestion response.
type ConflictDetailsDTO struct {
	ConflictingParticipants      []ConflictingParticipantDTO `json:"conflictingParticipants"`
	ConflictResolutionSuggestion string                      `json:"conflictResolutionSuggestion"`
}

// SuggestTimeResponse for POST /meetings/suggest-time
type SuggestTimeResponse struct {
	SuggestedDate         string               `json:"suggestedDate"`
	SuggestedTime         string               `json:"suggestedTime"`
	Reason                string               `json:"reason"`
	AvailableParticipants int                  `json:"availableParticipants"`
	TotalParticipants     int                  `json:"totalParticipants"`
	AlternativeTimes      []AlternativeTimeDTO `json:"alternativeTimes"`
	ConflictDetails       ConflictDetailsDTO   `json:"conflictDetails"`
	Warnings              []string             `json:"warnings,omitempty"`
}

// DetectConflictsResponse for POST /meetings/detect-conflicts
type DetectConflictsResponse struct {
	HasConflicts                 bool                        `json:"hasConflicts"`
	ConflictingParticipants      []ConflictingParticipantDTO `json:"conflictingParticipants"`
	ResolutionSuggestion         string                      `json:"resolutionSuggestion"`
	TotalParticipants            int                         `json:"totalParticipants"`
	ConflictingParticipantsCount int                         `json:"conflictingParticipantsCount"`
	Warnings                     []string                    `json:"warnings,omitempty"`
}

// ===================== Mapper Functions =====================

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ToSuggestTimeResponse maps a suggestion result to the wire format.
func ToSuggestTimeResponse(result *entity.SuggestionResult) *SuggestTimeResponse {
	resp := &SuggestTimeResponse{
		SuggestedDate:         result.Primary.Start.Format(dateLayout),
		SuggestedTime:         result.Primary.Start.Format(timeLayout),
		Reason:                result.Reason,
		AvailableParticipants: result.AvailableCount,
		TotalParticipants:     result.TotalCount,
		AlternativeTimes:      make([]AlternativeTimeDTO, 0, len(result.Alternatives)),
		ConflictDetails:       ToConflictDetailsDTO(result.Conflicts),
		Warnings:              result.Warnings,
	}

	for _, alt := range result.Alternatives {
		resp.AlternativeTimes = append(resp.AlternativeTimes, AlternativeTimeDTO{
			Date:                  alt.Start.Format(dateLayout),
			Time:                  alt.Start.Format(timeLayout),
			AvailableParticipants: alt.AvailableCount,
		})
	}

	return resp
}

// ToConflictDetailsDTO maps a conflict report to the wire format.
func ToConflictDetailsDTO(report entity.ConflictReport) ConflictDetailsDTO {
	details := ConflictDetailsDTO{
		ConflictingParticipants:      make([]ConflictingParticipantDTO, 0, len(report.ConflictingParticipants)),
		ConflictResolutionSuggestion: report.ResolutionHint,
	}

	for _, c := range report.ConflictingParticipants {
		details.ConflictingParticipants = append(details.ConflictingParticipants, ConflictingParticipantDTO{
			UserID:         c.Participant.ID,
			Name:           c.Participant.Name,
			ConflictReason: c.Reason,
		})
	}

	return details
}

// ToDetectConflictsResponse maps a conflict report to the wire format.
func ToDetectConflictsResponse(report entity.ConflictReport, totalParticipants int, warnings []string) *DetectConflictsResponse {
	details := ToConflictDetailsDTO(report)
	return &DetectConflictsResponse{
		HasConflicts:                 report.HasConflicts(),
		ConflictingParticipants:      details.ConflictingParticipants,
		ResolutionSuggestion:         report.ResolutionHint,
		TotalParticipants:            totalParticipants,
		ConflictingParticipantsCount: len(details.ConflictingParticipants),
		Warnings:                     warnings,
	}
}
