package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"trainhub/core/logger"
)

// TypeConflictRescan re-checks an edited meeting's conflicts once calendars
// have settled.
const TypeConflictRescan = "scheduling:conflict_rescan"

type ConflictRescanPayload struct {
	MeetingID int64 `json:"meeting_id"`
}

func NewConflictRescanTask(meetingID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(ConflictRescanPayload{MeetingID: meetingID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeConflictRescan, payload, asynq.MaxRetry(3)), nil
}

// Rescanner re-runs conflict detection for a stored meeting. Implemented by
// the scheduling service; an interface here keeps the packages acyclic.
type Rescanner interface {
	RescanConflicts(ctx context.Context, meetingID int64) error
}

type Handler struct {
	rescanner Rescanner
}

func NewHandler(rescanner Rescanner) *Handler {
	return &Handler{rescanner: rescanner}
}

func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ConflictRescanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w: %w", TypeConflictRescan, err, asynq.SkipRetry)
	}

	logger.Info("Tasks:ConflictRescan:Start", "meeting_id", payload.MeetingID)
	if err := h.rescanner.RescanConflicts(ctx, payload.MeetingID); err != nil {
		logger.Error("Tasks:ConflictRescan:Failed", "meeting_id", payload.MeetingID, "error", err)
		return err
	}
	return nil
}
