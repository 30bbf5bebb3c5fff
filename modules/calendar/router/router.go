package router

import (
	"studio-api/core/middleware"
	"studio-api/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	CalendarController *controller.CalendarController
}

func NewCalendarRouter(calendarController *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		CalendarController: calendarController,
	}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	companyRoutes := privateRoutes.Group("/companies", mw.AuthMiddleware())
	companyRoutes.GET("/:companyId/calendar-connections", r.CalendarController.GetConnections)

	memberRoutes := privateRoutes.Group("/members", mw.AuthMiddleware())
	memberRoutes.GET("/:id/calendar-connection", r.CalendarController.GetConnectionStatus)
	memberRoutes.DELETE("/:id/calendar-connection", r.CalendarController.Disconnect)
}
