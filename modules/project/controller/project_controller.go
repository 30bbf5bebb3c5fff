package controller

import (
	"studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/core/params"
	"studio-api/modules/project/dto"
	"studio-api/modules/project/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ProjectController struct {
	controller.BaseController
	ProjectService service.ProjectServiceInterface
}

func NewProjectController(svc service.ProjectServiceInterface) *ProjectController {
	return &ProjectController{
		BaseController: controller.NewBaseController(),
		ProjectService: svc,
	}
}

// CreateProject handles POST /projects
// @Summary Create a project
// @Tags Projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateProjectRequest true "Project data"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} errors.AppError
// @Router /private/projects [post]
func (c *ProjectController) CreateProject(ctx echo.Context) error {
	var req dto.CreateProjectRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ProjectService.CreateProject(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Project created")
}

// GetProject handles GET /projects/:id
// @Summary Get a project with its assignments
// @Tags Projects
// @Security BearerAuth
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} errors.AppError
// @Router /private/projects/{id} [get]
func (c *ProjectController) GetProject(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid project id")
	}

	result, appErr := c.ProjectService.GetProject(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Project retrieved")
}

// ListProjects handles GET /companies/:companyId/projects
// @Summary List a company's projects
// @Tags Projects
// @Security BearerAuth
// @Produce json
// @Param companyId path string true "Company ID"
// @Param search query string false "Name filter"
// @Param page_number query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} entity.PaginatedProjectEntity
// @Router /private/companies/{companyId}/projects [get]
func (c *ProjectController) ListProjects(ctx echo.Context) error {
	companyID, err := uuid.Parse(ctx.Param("companyId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id")
	}

	p := params.FromEchoContext(ctx)
	result, appErr := c.ProjectService.ListProjects(ctx.Request().Context(), companyID, p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Projects retrieved")
}

// UpdateProject handles PUT /projects/:id
// @Summary Update a project, with conflict detection on schedule changes
// @Description When is_schedule_update is true, the new window is validated against every assigned member's other projects. Any collision rejects the whole update with an itemized conflict list.
// @Tags Projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body dto.UpdateProjectRequest true "Project changes"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/projects/{id} [put]
func (c *ProjectController) UpdateProject(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid project id")
	}

	var req dto.UpdateProjectRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ProjectService.UpdateProject(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Project updated")
}

// DeleteProject handles DELETE /projects/:id
// @Summary Delete a project
// @Tags Projects
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} errors.AppError
// @Router /private/projects/{id} [delete]
func (c *ProjectController) DeleteProject(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid project id")
	}

	if appErr := c.ProjectService.DeleteProject(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Project deleted")
}

// AddAssignment handles POST /projects/:id/assignments
// @Summary Assign a member to a project
// @Tags Projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body dto.AddAssignmentRequest true "Assignment data"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 404 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/projects/{id}/assignments [post]
func (c *ProjectController) AddAssignment(ctx echo.Context) error {
	projectID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid project id")
	}

	var req dto.AddAssignmentRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ProjectService.AddAssignment(ctx.Request().Context(), projectID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Member assigned")
}

// RemoveAssignment handles DELETE /projects/:id/assignments/:assignmentId
// @Summary Unassign a member from a project
// @Tags Projects
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param assignmentId path string true "Assignment ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/projects/{id}/assignments/{assignmentId} [delete]
func (c *ProjectController) RemoveAssignment(ctx echo.Context) error {
	projectID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid project id")
	}
	assignmentID, err := uuid.Parse(ctx.Param("assignmentId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid assignment id")
	}

	if appErr := c.ProjectService.RemoveAssignment(ctx.Request().Context(), projectID, assignmentID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Member unassigned")
}
