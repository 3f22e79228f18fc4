package repository

import (
	"context"
	"database/sql"

	"trainhub/core/database"
	"trainhub/core/logger"
	"trainhub/modules/scheduling/entity"
)

// SchedulingRepository reads collaborator-owned calendar data. The scheduling
// core never writes through it.
type SchedulingRepository struct {
	DB database.IDatabase
}

func NewSchedulingRepository(db database.IDatabase) *SchedulingRepository {
	return &SchedulingRepository{DB: db}
}

// SchedulingRepositoryInterface defines the repository contract
type SchedulingRepositoryInterface interface {
	GetUserEvents(ctx context.Context, userID int64) ([]entity.BusyInterval, error)
	GetUserMeetings(ctx context.Context, userID int64) ([]entity.BusyInterval, error)
	GetUserMeetingsExcluding(ctx context.Context, userID, excludeMeetingID int64) ([]entity.BusyInterval, error)
	GetUserByID(ctx context.Context, userID int64) (*entity.User, error)
	GetMeetingByID(ctx context.Context, meetingID int64) (*entity.Meeting, error)
	GetMeetingParticipants(ctx context.Context, meetingID int64) ([]entity.MeetingParticipant, error)
}

func (r *SchedulingRepository) GetUserEvents(ctx context.Context, userID int64) ([]entity.BusyInterval, error) {
	query := `
		SELECT start_time AS start, end_time AS "end", title
		FROM events
		WHERE user_id = $1 AND end_time > NOW()
		ORDER BY start_time
	`

	var intervals []entity.BusyInterval
	err := r.DB.SelectContext(ctx, &intervals, query, userID)
	if err != nil {
		logger.Error("SchedulingRepository:GetUserEvents", err)
		return nil, err
	}

	return intervals, nil
}

func (r *SchedulingRepository) GetUserMeetings(ctx context.Context, userID int64) ([]entity.BusyInterval, error) {
	return r.GetUserMeetingsExcluding(ctx, userID, 0)
}

func (r *SchedulingRepository) GetUserMeetingsExcluding(ctx context.Context, userID, excludeMeetingID int64) ([]entity.BusyInterval, error) {
	query := `
		SELECT m.start_time AS start, m.end_time AS "end", m.title
		FROM meetings m
		JOIN meeting_participants mp ON mp.meeting_id = m.id
		WHERE mp.user_id = $1
		  AND m.id <> $2
		  AND m.start_time IS NOT NULL
		  AND m.end_time > NOW()
		ORDER BY m.start_time
	`

	var intervals []entity.BusyInterval
	err := r.DB.SelectContext(ctx, &intervals, query, userID, excludeMeetingID)
	if err != nil {
		logger.Error("SchedulingRepository:GetUserMeetingsExcluding", err)
		return nil, err
	}

	return intervals, nil
}

func (r *SchedulingRepository) GetUserByID(ctx context.Context, userID int64) (*entity.User, error) {
	query := `SELECT id, name, role FROM users WHERE id = $1`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SchedulingRepository:GetUserByID", err)
		return nil, err
	}

	return &user, nil
}

func (r *SchedulingRepository) GetMeetingByID(ctx context.Context, meetingID int64) (*entity.Meeting, error) {
	query := `
		SELECT id, title, duration_minutes, start_time, end_time
		FROM meetings WHERE id = $1
	`

	var meeting entity.Meeting
	err := r.DB.GetContext(ctx, &meeting, query, meetingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SchedulingRepository:GetMeetingByID", err)
		return nil, err
	}

	return &meeting, nil
}

func (r *SchedulingRepository) GetMeetingParticipants(ctx context.Context, meetingID int64) ([]entity.MeetingParticipant, error) {
	query := `
		SELECT mp.user_id, u.name, mp.role,
		       COALESCE(mp.required_attendance, true) AS required_attendance
		FROM meeting_participants mp
		JOIN users u ON u.id = mp.user_id
		WHERE mp.meeting_id = $1
		ORDER BY mp.user_id
	`

	var participants []entity.MeetingParticipant
	err := r.DB.SelectContext(ctx, &participants, query, meetingID)
	if err != nil {
		logger.Error("SchedulingRepository:GetMeetingParticipants", err)
		return nil, err
	}

	return participants, nil
}
