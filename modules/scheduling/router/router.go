package router

import (
	"github.com/labstack/echo/v4"

	"trainhub/core/middleware"
	"trainhub/modules/scheduling/controller"
)

// SchedulingRouter handles meeting-time negotiation routes
type SchedulingRouter struct {
	SchedulingController *controller.SchedulingController
}

func NewSchedulingRouter(schedulingController *controller.SchedulingController) *SchedulingRouter {
	return &SchedulingRouter{
		SchedulingController: schedulingController,
	}
}

// Setup registers scheduling routes
func (r *SchedulingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	meetingRoutes := privateRoutes.Group("/meetings", mw.AuthMiddleware())
	meetingRoutes.POST("/suggest-time", r.SchedulingController.SuggestTime)
	meetingRoutes.POST("/detect-conflicts", r.SchedulingController.DetectConflicts)
}
