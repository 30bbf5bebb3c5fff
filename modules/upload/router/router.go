package router

import (
	"studio-api/core/middleware"
	"studio-api/modules/upload/controller"

	"github.com/labstack/echo/v4"
)

type UploadRouter struct {
	UploadController *controller.UploadController
}

func NewUploadRouter(uploadController *controller.UploadController) *UploadRouter {
	return &UploadRouter{
		UploadController: uploadController,
	}
}

func (r *UploadRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	uploadRoutes := privateRoutes.Group("/uploads", mw.AuthMiddleware())
	uploadRoutes.POST("", r.UploadController.UploadFile)
	uploadRoutes.DELETE("", r.UploadController.DeleteFile)
}
