package controller

import (
	"github.com/labstack/echo/v4"

	"trainhub/core/controller"
	"trainhub/core/errors"
	"trainhub/modules/scheduling/dto"
	"trainhub/modules/scheduling/service"
)

// SchedulingController handles meeting-time negotiation HTTP requests
type SchedulingController struct {
	controller.BaseController
	SchedulingService service.SchedulingServiceInterface
}

func NewSchedulingController(svc service.SchedulingServiceInterface) *SchedulingController {
	return &SchedulingController{
		BaseController:    controller.NewBaseController(),
		SchedulingService: svc,
	}
}

// SuggestTime handles POST /meetings/suggest-time
// @Summary Suggest a meeting time
// @Description Aggregates participant calendars and returns a ranked primary suggestion with alternatives
// @Tags Scheduling
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SuggestTimeRequest true "Scheduling parameters"
// @Success 200 {object} dto.SuggestTimeResponse
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /private/meetings/suggest-time [post]
func (c *SchedulingController) SuggestTime(ctx echo.Context) error {
	var req dto.SuggestTimeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.SchedulingService.SuggestTime(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Suggestion computed")
}

// DetectConflicts handles POST /meetings/detect-conflicts
// @Summary Detect scheduling conflicts
// @Description Re-checks a meeting, optionally at a proposed new time, against participant calendars
// @Tags Scheduling
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.DetectConflictsRequest true "Meeting and optional time override"
// @Success 200 {object} dto.DetectConflictsResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/detect-conflicts [post]
func (c *SchedulingController) DetectConflicts(ctx echo.Context) error {
	var req dto.DetectConflictsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.SchedulingService.DetectConflicts(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Conflict check complete")
}
