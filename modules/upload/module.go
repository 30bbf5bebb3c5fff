package upload

import (
	"studio-api/core/middleware"
	"studio-api/core/storage"
	"studio-api/modules/upload/controller"
	"studio-api/modules/upload/router"
	"studio-api/modules/upload/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, mw *middleware.Middleware, store storage.Storage) {
	uploadService := service.NewUploadService(store)
	uploadController := controller.NewUploadController(uploadService)
	uploadRouter := router.NewUploadRouter(uploadController)
	uploadRouter.Setup(e, mw)
}
