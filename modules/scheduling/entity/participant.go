package entity

import (
	"fmt"
	"strings"
)

// Role classifies a participant within a meeting
type Role string

const (
	RoleOrganizer           Role = "Organizer"
	RoleAttendee            Role = "Attendee"
	RolePresenter           Role = "Presenter"
	RoleStakeholder         Role = "Stakeholder"
	RoleObserver            Role = "Observer"
	RoleSubjectMatterExpert Role = "Subject-Matter-Expert"
	RoleTrainee             Role = "Trainee"
	RoleTrainer             Role = "Trainer"
	RoleOptional            Role = "Optional"
)

var roles = map[string]Role{
	"organizer":             RoleOrganizer,
	"attendee":              RoleAttendee,
	"presenter":             RolePresenter,
	"stakeholder":           RoleStakeholder,
	"observer":              RoleObserver,
	"subject-matter-expert": RoleSubjectMatterExpert,
	"trainee":               RoleTrainee,
	"trainer":               RoleTrainer,
	"optional":              RoleOptional,
}

// ParseRole validates a role string against the fixed role set.
func ParseRole(s string) (Role, error) {
	if role, ok := roles[strings.ToLower(strings.TrimSpace(s))]; ok {
		return role, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// DefaultRequiredAttendance is true for every role except Optional.
func (r Role) DefaultRequiredAttendance() bool {
	return r != RoleOptional
}

// Participant is a meeting attendee as supplied per scheduling request.
// The core does not own participant lifecycle.
type Participant struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Role               Role   `json:"role"`
	RequiredAttendance bool   `json:"required_attendance"`
}
