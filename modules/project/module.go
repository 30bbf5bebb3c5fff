package project

import (
	"studio-api/core/database"
	"studio-api/core/middleware"
	"studio-api/core/tasks"
	"studio-api/modules/project/controller"
	"studio-api/modules/project/repository"
	"studio-api/modules/project/router"
	"studio-api/modules/project/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the project module and registers routes.
func Init(e *echo.Echo, db *database.Database, mw *middleware.Middleware, taskClient *tasks.Client) {
	repo := repository.NewProjectRepository(db)
	svc := service.NewProjectService(repo, db, taskClient)
	ctrl := controller.NewProjectController(svc)
	rtr := router.NewProjectRouter(ctrl)

	rtr.Setup(e, mw)
}
