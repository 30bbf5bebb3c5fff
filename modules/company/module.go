package company

import (
	"studio-api/core/config"
	"studio-api/core/database"
	"studio-api/core/middleware"
	"studio-api/core/tasks"
	"studio-api/modules/company/controller"
	"studio-api/modules/company/repository"
	"studio-api/modules/company/router"
	"studio-api/modules/company/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the company module and registers routes.
func Init(e *echo.Echo, db *database.Database, mw *middleware.Middleware, taskClient *tasks.Client, cfg *config.Config) {
	repo := repository.NewCompanyRepository(db)
	svc := service.NewCompanyService(repo, taskClient, cfg.Server.BaseURL)
	ctrl := controller.NewCompanyController(svc)
	rtr := router.NewCompanyRouter(ctrl)

	rtr.Setup(e, mw)
}
