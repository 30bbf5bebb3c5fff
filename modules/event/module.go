package event

import (
	"studio-api/core/database"
	"studio-api/core/middleware"
	"studio-api/core/tasks"
	"studio-api/modules/event/controller"
	"studio-api/modules/event/repository"
	"studio-api/modules/event/router"
	"studio-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and registers routes.
func Init(e *echo.Echo, db *database.Database, mw *middleware.Middleware, taskClient *tasks.Client) {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, db, taskClient)
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)
}
