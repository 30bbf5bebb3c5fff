package router

import (
	"studio-api/core/middleware"
	"studio-api/modules/project/controller"

	"github.com/labstack/echo/v4"
)

type ProjectRouter struct {
	ProjectController *controller.ProjectController
}

func NewProjectRouter(projectController *controller.ProjectController) *ProjectRouter {
	return &ProjectRouter{
		ProjectController: projectController,
	}
}

func (r *ProjectRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	projectRoutes := privateRoutes.Group("/projects", mw.AuthMiddleware())
	projectRoutes.POST("", r.ProjectController.CreateProject)
	projectRoutes.GET("/:id", r.ProjectController.GetProject)
	projectRoutes.PUT("/:id", r.ProjectController.UpdateProject)
	projectRoutes.DELETE("/:id", r.ProjectController.DeleteProject)
	projectRoutes.POST("/:id/assignments", r.ProjectController.AddAssignment)
	projectRoutes.DELETE("/:id/assignments/:assignmentId", r.ProjectController.RemoveAssignment)

	companyRoutes := privateRoutes.Group("/companies", mw.AuthMiddleware())
	companyRoutes.GET("/:companyId/projects", r.ProjectController.ListProjects)
}
