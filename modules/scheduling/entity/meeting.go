package entity

import "time"

// Meeting is the stored meeting the conflict detector re-checks.
// Persistence belongs to the surrounding application; the core only reads it.
type Meeting struct {
	ID              int64      `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	StartTime       *time.Time `db:"start_time" json:"start_time,omitempty"`
	EndTime         *time.Time `db:"end_time" json:"end_time,omitempty"`
}

// User is the participant metadata supplied by the user collaborator.
type User struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Role string `db:"role" json:"role"`
}

// MeetingParticipant is one row of a meeting's attendance list.
type MeetingParticipant struct {
	UserID             int64  `db:"user_id" json:"user_id"`
	Name               string `db:"name" json:"name"`
	Role               string `db:"role" json:"role"`
	RequiredAttendance bool   `db:"required_attendance" json:"required_attendance"`
}
