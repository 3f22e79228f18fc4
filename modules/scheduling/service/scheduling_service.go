package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/hibiken/asynq"

	"trainhub/core/cache"
	"trainhub/core/constants"
	"trainhub/core/errors"
	"trainhub/core/logger"
	"trainhub/modules/scheduling/dto"
	"trainhub/modules/scheduling/entity"
	"trainhub/modules/scheduling/repository"
	"trainhub/modules/scheduling/tasks"
)

// SchedulingService orchestrates meeting-time suggestion and conflict
// detection. It owns no persistent state; every request recomputes from
// collaborator data.
type SchedulingService struct {
	repo          repository.SchedulingRepositoryInterface
	aggregator    *Aggregator
	engine        *Engine
	detector      *ConflictDetector
	explainer     *Explainer
	cache         cache.Cache
	asynqClient   *asynq.Client
	loc           *time.Location
	suggestionTTL time.Duration
}

// SchedulingServiceInterface defines the service contract
type SchedulingServiceInterface interface {
	SuggestTime(ctx context.Context, req *dto.SuggestTimeRequest) (*dto.SuggestTimeResponse, *errors.AppError)
	DetectConflicts(ctx context.Context, req *dto.DetectConflictsRequest) (*dto.DetectConflictsResponse, *errors.AppError)
	RescanConflicts(ctx context.Context, meetingID int64) error
}

type SchedulingServiceConfig struct {
	Location      *time.Location
	SuggestionTTL time.Duration
}

func NewSchedulingService(
	repo repository.SchedulingRepositoryInterface,
	aggregator *Aggregator,
	engine *Engine,
	detector *ConflictDetector,
	explainer *Explainer,
	c cache.Cache,
	asynqClient *asynq.Client,
	cfg SchedulingServiceConfig,
) SchedulingServiceInterface {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &SchedulingService{
		repo:          repo,
		aggregator:    aggregator,
		engine:        engine,
		detector:      detector,
		explainer:     explainer,
		cache:         c,
		asynqClient:   asynqClient,
		loc:           loc,
		suggestionTTL: cfg.SuggestionTTL,
	}
}

// SuggestTime aggregates participant calendars and returns a ranked primary
// suggestion with alternatives. It only fails on malformed input; missing
// calendar data degrades to warnings, never to an error.
func (s *SchedulingService) SuggestTime(ctx context.Context, req *dto.SuggestTimeRequest) (*dto.SuggestTimeResponse, *errors.AppError) {
	duration := req.DurationMinutes
	if duration == 0 {
		duration = constants.DefaultDurationMinutes
	}
	if duration < 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Duration must be positive", nil)
	}

	preferredDates, appErr := s.parsePreferredDates(req.PreferredDates)
	if appErr != nil {
		return nil, appErr
	}

	participants, warnings, appErr := s.resolveParticipants(ctx, req)
	if appErr != nil {
		return nil, appErr
	}

	cacheKey := s.suggestionCacheKey(req, duration)
	if s.cache != nil {
		var cached dto.SuggestTimeResponse
		if hit, err := s.cache.GetSuggestion(ctx, cacheKey, &cached); err == nil && hit {
			logger.Info("SchedulingService:SuggestTime:CacheHit", "key", cacheKey)
			return &cached, nil
		}
	}

	schedules, fetchWarnings, allFailed := s.aggregator.Aggregate(ctx, participants, 0)
	warnings = append(warnings, fetchWarnings...)

	var result entity.SuggestionResult
	if allFailed {
		result = s.noInformationResult(ctx, participants, duration, req.MeetingPurpose)
	} else {
		result = s.engine.Suggest(ctx, schedules, duration, preferredDates, req.MeetingPurpose)
	}
	result.Warnings = warnings
	result.Conflicts.ResolutionHint = s.explainer.Hint(ctx, result.Conflicts)

	resp := dto.ToSuggestTimeResponse(&result)

	if s.cache != nil {
		if err := s.cache.SetSuggestion(ctx, cacheKey, resp, s.suggestionTTL); err != nil {
			logger.Warn("SchedulingService:SuggestTime:CacheSetFailed", "key", cacheKey, "error", err)
		}
	}

	logger.Info("SchedulingService:SuggestTime:Done",
		"participants", len(participants),
		"suggested_date", resp.SuggestedDate,
		"suggested_time", resp.SuggestedTime,
		"available", resp.AvailableParticipants,
		"conflicts", len(resp.ConflictDetails.ConflictingParticipants),
	)
	return resp, nil
}

// DetectConflicts re-checks an existing meeting, optionally at a proposed new
// time, and reports which participants clash.
func (s *SchedulingService) DetectConflicts(ctx context.Context, req *dto.DetectConflictsRequest) (*dto.DetectConflictsResponse, *errors.AppError) {
	return s.detectConflicts(ctx, req, true)
}

func (s *SchedulingService) detectConflicts(ctx context.Context, req *dto.DetectConflictsRequest, enqueueRescan bool) (*dto.DetectConflictsResponse, *errors.AppError) {
	if req.MeetingID <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid meeting ID", nil)
	}

	meeting, err := s.repo.GetMeetingByID(ctx, req.MeetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}

	slot, appErr := s.resolveSlot(meeting, req)
	if appErr != nil {
		return nil, appErr
	}

	rows, err := s.repo.GetMeetingParticipants(ctx, req.MeetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load participants", err)
	}
	participants := make([]entity.Participant, 0, len(rows))
	for _, row := range rows {
		role, roleErr := entity.ParseRole(row.Role)
		if roleErr != nil {
			role = entity.RoleAttendee
		}
		participants = append(participants, entity.Participant{
			ID:                 row.UserID,
			Name:               row.Name,
			Role:               role,
			RequiredAttendance: row.RequiredAttendance,
		})
	}

	schedules, warnings, _ := s.aggregator.Aggregate(ctx, participants, meeting.ID)

	report := s.detector.Detect(slot, schedules)
	report.ResolutionHint = s.explainer.Hint(ctx, report)

	if enqueueRescan && report.HasConflicts() && s.asynqClient != nil {
		task, taskErr := tasks.NewConflictRescanTask(meeting.ID)
		if taskErr == nil {
			if _, taskErr = s.asynqClient.EnqueueContext(ctx, task, asynq.ProcessIn(5*time.Minute)); taskErr == nil {
				logger.Info("SchedulingService:DetectConflicts:RescanEnqueued", "meeting_id", meeting.ID)
			}
		}
		if taskErr != nil {
			logger.Warn("SchedulingService:DetectConflicts:RescanEnqueueFailed", "meeting_id", meeting.ID, "error", taskErr)
		}
	}

	return dto.ToDetectConflictsResponse(report, len(participants), warnings), nil
}

// RescanConflicts re-runs conflict detection for a stored meeting and caches
// the fresh report. Invoked from the background worker.
func (s *SchedulingService) RescanConflicts(ctx context.Context, meetingID int64) error {
	resp, appErr := s.detectConflicts(ctx, &dto.DetectConflictsRequest{MeetingID: meetingID}, false)
	if appErr != nil {
		// A meeting deleted between enqueue and rescan is not a failure.
		if appErr.Code == errors.ErrNotFound {
			logger.Info("SchedulingService:RescanConflicts:MeetingGone", "meeting_id", meetingID)
			return nil
		}
		return appErr
	}

	if s.cache != nil {
		key := fmt.Sprintf("conflicts:meeting:%d", meetingID)
		if err := s.cache.SetSuggestion(ctx, key, resp, s.suggestionTTL); err != nil {
			logger.Warn("SchedulingService:RescanConflicts:CacheSetFailed", "meeting_id", meetingID, "error", err)
		}
	}

	logger.Info("SchedulingService:RescanConflicts:Done",
		"meeting_id", meetingID, "has_conflicts", resp.HasConflicts)
	return nil
}

// resolveParticipants builds the participant list from IDs, role overrides
// and the user collaborator. A participant whose metadata cannot be fetched
// is kept with defaults and a warning rather than aborting the request.
func (s *SchedulingService) resolveParticipants(ctx context.Context, req *dto.SuggestTimeRequest) ([]entity.Participant, []string, *errors.AppError) {
	overrides := make(map[int64]dto.ParticipantRoleDTO, len(req.ParticipantRoles))
	for _, o := range req.ParticipantRoles {
		overrides[o.UserID] = o
	}

	participants := make([]entity.Participant, 0, len(req.ParticipantIDs))
	warnings := make([]string, 0)
	seen := make(map[int64]bool, len(req.ParticipantIDs))

	for _, id := range req.ParticipantIDs {
		if id <= 0 {
			return nil, nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Invalid participant ID %d", id), nil)
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		p := entity.Participant{
			ID:   id,
			Name: fmt.Sprintf("User %d", id),
			Role: entity.RoleAttendee,
		}

		user, err := s.repo.GetUserByID(ctx, id)
		if err != nil || user == nil {
			logger.Warn("SchedulingService:resolveParticipants:UserLookupFailed", "user_id", id, "error", err)
			warnings = append(warnings, fmt.Sprintf("participant %d could not be resolved; using defaults", id))
		} else {
			p.Name = user.Name
			if role, roleErr := entity.ParseRole(user.Role); roleErr == nil {
				p.Role = role
			}
		}

		if o, ok := overrides[id]; ok {
			role, roleErr := entity.ParseRole(o.Role)
			if roleErr != nil {
				return nil, nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Unknown role %q for participant %d", o.Role, id), nil)
			}
			p.Role = role
			if o.RequiredAttendance != nil {
				p.RequiredAttendance = *o.RequiredAttendance
				participants = append(participants, p)
				continue
			}
		}
		p.RequiredAttendance = p.Role.DefaultRequiredAttendance()
		participants = append(participants, p)
	}

	return participants, warnings, nil
}

func (s *SchedulingService) parsePreferredDates(raw []string) ([]time.Time, *errors.AppError) {
	dates := make([]time.Time, 0, len(raw))
	for _, d := range raw {
		parsed, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(d), s.loc)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Invalid preferred date %q, expected YYYY-MM-DD", d), err)
		}
		dates = append(dates, parsed)
	}
	return dates, nil
}

// resolveSlot picks the time to check: an explicit override, or the
// meeting's stored schedule.
func (s *SchedulingService) resolveSlot(meeting *entity.Meeting, req *dto.DetectConflictsRequest) (entity.CandidateSlot, *errors.AppError) {
	var start, end time.Time

	if req.NewStartTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.NewStartTime)
		if err != nil {
			return entity.CandidateSlot{}, errors.NewAppError(errors.ErrInvalidInput, "Invalid newStartTime, expected RFC3339", err)
		}
		start = parsed
	} else if meeting.StartTime != nil {
		start = *meeting.StartTime
	} else {
		return entity.CandidateSlot{}, errors.NewAppError(errors.ErrInvalidInput, "Meeting has no scheduled time and no override was given", nil)
	}

	if req.NewEndTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.NewEndTime)
		if err != nil {
			return entity.CandidateSlot{}, errors.NewAppError(errors.ErrInvalidInput, "Invalid newEndTime, expected RFC3339", err)
		}
		end = parsed
	} else if req.NewStartTime == "" && meeting.EndTime != nil {
		end = *meeting.EndTime
	} else {
		duration := meeting.DurationMinutes
		if duration <= 0 {
			if meeting.StartTime != nil && meeting.EndTime != nil {
				duration = int(meeting.EndTime.Sub(*meeting.StartTime).Minutes())
			} else {
				duration = constants.DefaultDurationMinutes
			}
		}
		end = start.Add(time.Duration(duration) * time.Minute)
	}

	if !start.Before(end) {
		return entity.CandidateSlot{}, errors.NewAppError(errors.ErrInvalidInput, "Meeting start must precede end", nil)
	}

	return entity.CandidateSlot{ID: uuid.New(), Start: start, End: end}, nil
}

// noInformationResult is the degraded answer when every calendar fetch
// failed: default to the next business day at 10:00 instead of erroring.
func (s *SchedulingService) noInformationResult(ctx context.Context, participants []entity.Participant, duration int, purpose string) entity.SuggestionResult {
	slot := s.engine.FallbackSlot(duration)

	requiredTotal := 0
	for _, p := range participants {
		if p.RequiredAttendance {
			requiredTotal++
		}
	}

	facts := ReasonFacts{
		Slot:               slot,
		AvailableCount:     len(participants),
		TotalCount:         len(participants),
		RequiredTotalCount: requiredTotal,
		Degraded:           true,
		NoInformation:      true,
		Purpose:            purpose,
	}

	return entity.SuggestionResult{
		Primary: entity.RankedSlot{
			CandidateSlot:          slot,
			AvailableCount:         len(participants),
			RequiredAvailableCount: requiredTotal,
		},
		Reason:             s.explainer.Reason(ctx, facts),
		AvailableCount:     len(participants),
		TotalCount:         len(participants),
		RequiredTotalCount: requiredTotal,
		Alternatives:       []entity.RankedSlot{},
		Conflicts:          entity.ConflictReport{ConflictingParticipants: []entity.ParticipantConflict{}},
		Degraded:           true,
	}
}

// suggestionCacheKey derives a stable cache key from the request inputs.
func (s *SchedulingService) suggestionCacheKey(req *dto.SuggestTimeRequest, duration int) string {
	h := fnv.New64a()
	for _, id := range req.ParticipantIDs {
		fmt.Fprintf(h, "%d,", id)
	}
	for _, o := range req.ParticipantRoles {
		// nil (role default) and explicit true/false are three distinct inputs
		attendance := "nil"
		if o.RequiredAttendance != nil {
			if *o.RequiredAttendance {
				attendance = "t"
			} else {
				attendance = "f"
			}
		}
		fmt.Fprintf(h, "%d=%s:%s,", o.UserID, o.Role, attendance)
	}
	fmt.Fprintf(h, "d%d,", duration)
	for _, d := range req.PreferredDates {
		fmt.Fprintf(h, "%s,", d)
	}

	purpose := slug.Make(req.MeetingPurpose)
	if purpose == "" {
		purpose = "meeting"
	}
	return fmt.Sprintf("%s:%x", purpose, h.Sum64())
}
