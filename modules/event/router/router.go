package router

import (
	"studio-api/core/middleware"
	"studio-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	eventRoutes := privateRoutes.Group("/events", mw.AuthMiddleware())
	eventRoutes.POST("", r.EventController.CreateEvent)
	eventRoutes.GET("/:id", r.EventController.GetEvent)
	eventRoutes.PUT("/:id", r.EventController.UpdateEvent)
	eventRoutes.DELETE("/:id", r.EventController.DeleteEvent)
	eventRoutes.POST("/:id/assignments", r.EventController.AddAssignment)
	eventRoutes.DELETE("/:id/assignments/:assignmentId", r.EventController.RemoveAssignment)

	companyRoutes := privateRoutes.Group("/companies", mw.AuthMiddleware())
	companyRoutes.GET("/:companyId/events", r.EventController.ListEvents)
}
