package packages

import (
	"studio-api/core/config"
	"studio-api/core/database"
	"studio-api/core/middleware"
	"studio-api/modules/packages/controller"
	"studio-api/modules/packages/repository"
	"studio-api/modules/packages/router"
	"studio-api/modules/packages/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, cfg *config.Config) {
	packageRepository := repository.NewPackageRepository(db)
	recommender := service.NewModelRecommender(cfg.AI)
	packageService := service.NewPackageService(packageRepository, recommender)
	packageController := controller.NewPackageController(packageService)
	packageRouter := router.NewPackageRouter(packageController)
	packageRouter.Setup(e, mw)
}
