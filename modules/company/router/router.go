package router

import (
	"studio-api/core/middleware"
	"studio-api/modules/company/controller"

	"github.com/labstack/echo/v4"
)

type CompanyRouter struct {
	CompanyController *controller.CompanyController
}

func NewCompanyRouter(companyController *controller.CompanyController) *CompanyRouter {
	return &CompanyRouter{
		CompanyController: companyController,
	}
}

func (r *CompanyRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	companyRoutes := privateRoutes.Group("/companies", mw.AuthMiddleware())
	companyRoutes.POST("", r.CompanyController.CreateCompany)
	companyRoutes.GET("", r.CompanyController.ListCompanies)
	companyRoutes.GET("/:id", r.CompanyController.GetCompany)
	companyRoutes.PUT("/:id", r.CompanyController.UpdateCompany)
	companyRoutes.DELETE("/:id", r.CompanyController.DeleteCompany)
	companyRoutes.POST("/:id/members", r.CompanyController.CreateMember)
	companyRoutes.GET("/:id/members", r.CompanyController.ListMembers)

	memberRoutes := privateRoutes.Group("/members", mw.AuthMiddleware())
	memberRoutes.GET("/:id", r.CompanyController.GetMember)
	memberRoutes.PUT("/:id", r.CompanyController.UpdateMember)
	memberRoutes.DELETE("/:id", r.CompanyController.DeleteMember)
}
