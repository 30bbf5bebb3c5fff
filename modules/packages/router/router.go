package router

import (
	"studio-api/core/middleware"
	"studio-api/modules/packages/controller"

	"github.com/labstack/echo/v4"
)

type PackageRouter struct {
	PackageController *controller.PackageController
}

func NewPackageRouter(packageController *controller.PackageController) *PackageRouter {
	return &PackageRouter{
		PackageController: packageController,
	}
}

func (r *PackageRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	packageRoutes := privateRoutes.Group("/packages", mw.AuthMiddleware())
	packageRoutes.POST("", r.PackageController.CreatePackage)
	packageRoutes.POST("/recommend", r.PackageController.RecommendPackages)
	packageRoutes.GET("/:id", r.PackageController.GetPackage)
	packageRoutes.PUT("/:id", r.PackageController.UpdatePackage)
	packageRoutes.DELETE("/:id", r.PackageController.DeletePackage)

	companyRoutes := privateRoutes.Group("/companies", mw.AuthMiddleware())
	companyRoutes.GET("/:companyId/packages", r.PackageController.ListPackages)
}
