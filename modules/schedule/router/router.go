package router

import (
	"studio-api/core/middleware"
	"studio-api/modules/schedule/controller"

	"github.com/labstack/echo/v4"
)

type ScheduleRouter struct {
	ScheduleController *controller.ScheduleController
}

func NewScheduleRouter(scheduleController *controller.ScheduleController) *ScheduleRouter {
	return &ScheduleRouter{
		ScheduleController: scheduleController,
	}
}

func (r *ScheduleRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	memberRoutes := privateRoutes.Group("/members", mw.AuthMiddleware())
	memberRoutes.POST("/available", r.ScheduleController.GetAvailableMembers)
}
