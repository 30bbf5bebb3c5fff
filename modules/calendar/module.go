package calendar

import (
	"studio-api/core/database"
	"studio-api/core/middleware"
	"studio-api/modules/calendar/controller"
	"studio-api/modules/calendar/repository"
	"studio-api/modules/calendar/router"
	"studio-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// Init wires the calendar module and returns its service so the server can
// hand it to the auth module (OAuth connection saver) and the task worker
// (calendar syncer).
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) service.CalendarServiceInterface {
	calendarRepository := repository.NewCalendarRepository(db)
	calendarService := service.NewCalendarService(calendarRepository)
	calendarController := controller.NewCalendarController(calendarService)
	calendarRouter := router.NewCalendarRouter(calendarController)
	calendarRouter.Setup(e, mw)
	return calendarService
}
