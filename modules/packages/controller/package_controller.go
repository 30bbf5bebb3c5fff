package controller

import (
	"studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/core/params"
	"studio-api/modules/packages/dto"
	"studio-api/modules/packages/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type PackageController struct {
	controller.BaseController
	PackageService service.PackageServiceInterface
}

func NewPackageController(svc service.PackageServiceInterface) *PackageController {
	return &PackageController{
		BaseController: controller.NewBaseController(),
		PackageService: svc,
	}
}

// CreatePackage handles POST /packages
// @Summary Create a studio package
// @Tags Packages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreatePackageRequest true "Package data"
// @Success 200 {object} dto.PackageResponse
// @Failure 400 {object} errors.AppError
// @Router /private/packages [post]
func (c *PackageController) CreatePackage(ctx echo.Context) error {
	var req dto.CreatePackageRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.PackageService.CreatePackage(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Package created")
}

// GetPackage handles GET /packages/:id
// @Summary Get a package
// @Tags Packages
// @Security BearerAuth
// @Produce json
// @Param id path string true "Package ID"
// @Success 200 {object} dto.PackageResponse
// @Failure 404 {object} errors.AppError
// @Router /private/packages/{id} [get]
func (c *PackageController) GetPackage(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid package id")
	}

	result, appErr := c.PackageService.GetPackage(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Package retrieved")
}

// ListPackages handles GET /companies/:companyId/packages
// @Summary List a company's packages
// @Tags Packages
// @Security BearerAuth
// @Produce json
// @Param companyId path string true "Company ID"
// @Param search query string false "Name filter"
// @Param pageNumber query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} entity.PaginatedPackageEntity
// @Failure 400 {object} errors.AppError
// @Router /private/companies/{companyId}/packages [get]
func (c *PackageController) ListPackages(ctx echo.Context) error {
	companyID, err := uuid.Parse(ctx.Param("companyId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id")
	}

	p := params.FromEchoContext(ctx)
	result, appErr := c.PackageService.ListPackages(ctx.Request().Context(), companyID, p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Packages retrieved")
}

// UpdatePackage handles PUT /packages/:id
// @Summary Update a package
// @Tags Packages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Package ID"
// @Param request body dto.UpdatePackageRequest true "Fields to update"
// @Success 200 {object} dto.PackageResponse
// @Failure 404 {object} errors.AppError
// @Router /private/packages/{id} [put]
func (c *PackageController) UpdatePackage(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid package id")
	}

	var req dto.UpdatePackageRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.PackageService.UpdatePackage(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Package updated")
}

// DeletePackage handles DELETE /packages/:id
// @Summary Delete a package
// @Tags Packages
// @Security BearerAuth
// @Produce json
// @Param id path string true "Package ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} errors.AppError
// @Router /private/packages/{id} [delete]
func (c *PackageController) DeletePackage(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid package id")
	}

	if appErr := c.PackageService.DeletePackage(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Package deleted")
}

// RecommendPackages handles POST /packages/recommend
// @Summary Recommend packages for a client brief
// @Tags Packages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RecommendPackagesRequest true "Client brief"
// @Success 200 {object} dto.RecommendPackagesResponse
// @Failure 400 {object} errors.AppError
// @Router /private/packages/recommend [post]
func (c *PackageController) RecommendPackages(ctx echo.Context) error {
	var req dto.RecommendPackagesRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.PackageService.RecommendPackages(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Packages recommended")
}
