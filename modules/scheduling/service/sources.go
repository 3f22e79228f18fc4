package service

import (
	"context"

	"trainhub/modules/scheduling/entity"
	"trainhub/modules/scheduling/repository"
)

// EventSource serves busy intervals from the generic events collaborator.
type EventSource struct {
	repo repository.SchedulingRepositoryInterface
}

func NewEventSource(repo repository.SchedulingRepositoryInterface) *EventSource {
	return &EventSource{repo: repo}
}

func (s *EventSource) Name() string { return "events" }

func (s *EventSource) UserBusy(ctx context.Context, userID int64) ([]entity.BusyInterval, error) {
	return s.repo.GetUserEvents(ctx, userID)
}

// MeetingSource serves busy intervals from scheduled meetings. It supports
// excluding one meeting so an edited meeting is not counted against itself.
type MeetingSource struct {
	repo repository.SchedulingRepositoryInterface
}

func NewMeetingSource(repo repository.SchedulingRepositoryInterface) *MeetingSource {
	return &MeetingSource{repo: repo}
}

func (s *MeetingSource) Name() string { return "meetings" }

func (s *MeetingSource) UserBusy(ctx context.Context, userID int64) ([]entity.BusyInterval, error) {
	return s.repo.GetUserMeetings(ctx, userID)
}

func (s *MeetingSource) UserBusyExcluding(ctx context.Context, userID, excludeMeetingID int64) ([]entity.BusyInterval, error) {
	return s.repo.GetUserMeetingsExcluding(ctx, userID, excludeMeetingID)
}
