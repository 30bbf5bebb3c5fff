package schedule

import (
	"studio-api/core/database"
	"studio-api/core/middleware"
	"studio-api/modules/schedule/controller"
	"studio-api/modules/schedule/repository"
	"studio-api/modules/schedule/router"
	"studio-api/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the schedule module and registers routes.
func Init(e *echo.Echo, db *database.Database, mw *middleware.Middleware) {
	repo := repository.NewScheduleRepository(db)
	svc := service.NewAvailabilityService(repo)
	ctrl := controller.NewScheduleController(svc)
	rtr := router.NewScheduleRouter(ctrl)

	rtr.Setup(e, mw)
}
