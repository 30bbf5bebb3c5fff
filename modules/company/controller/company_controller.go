package controller

import (
	"studio-api/core/constants"
	"studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/core/params"
	"studio-api/core/utils"
	"studio-api/modules/company/dto"
	"studio-api/modules/company/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CompanyController struct {
	controller.BaseController
	CompanyService service.CompanyServiceInterface
}

func NewCompanyController(svc service.CompanyServiceInterface) *CompanyController {
	return &CompanyController{
		BaseController: controller.NewBaseController(),
		CompanyService: svc,
	}
}

func tokenClaims(ctx echo.Context) *utils.TokenClaims {
	claims, _ := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	return claims
}

// CreateCompany handles POST /companies
// @Summary Create a company
// @Tags Companies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateCompanyRequest true "Company data"
// @Success 200 {object} dto.CompanyResponse
// @Failure 400 {object} errors.AppError
// @Router /private/companies [post]
func (c *CompanyController) CreateCompany(ctx echo.Context) error {
	claims := tokenClaims(ctx)
	if claims == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Missing token data")
	}

	var req dto.CreateCompanyRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CompanyService.CreateCompany(ctx.Request().Context(), claims.UserID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Company created")
}

// GetCompany handles GET /companies/:id
// @Summary Get a company
// @Tags Companies
// @Security BearerAuth
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Failure 404 {object} errors.AppError
// @Router /private/companies/{id} [get]
func (c *CompanyController) GetCompany(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id")
	}

	result, appErr := c.CompanyService.GetCompany(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Company retrieved")
}

// ListCompanies handles GET /companies
// @Summary List the caller's companies
// @Tags Companies
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.CompanyResponse
// @Router /private/companies [get]
func (c *CompanyController) ListCompanies(ctx echo.Context) error {
	claims := tokenClaims(ctx)
	if claims == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Missing token data")
	}

	result, appErr := c.CompanyService.ListCompanies(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Companies retrieved")
}

// UpdateCompany handles PUT /companies/:id
// @Summary Update a company
// @Tags Companies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param request body dto.UpdateCompanyRequest true "Company changes"
// @Success 200 {object} dto.CompanyResponse
// @Failure 404 {object} errors.AppError
// @Router /private/companies/{id} [put]
func (c *CompanyController) UpdateCompany(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id")
	}

	var req dto.UpdateCompanyRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CompanyService.UpdateCompany(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Company updated")
}

// DeleteCompany handles DELETE /companies/:id
// @Summary Delete a company
// @Tags Companies
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} errors.AppError
// @Router /private/companies/{id} [delete]
func (c *CompanyController) DeleteCompany(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id")
	}

	if appErr := c.CompanyService.DeleteCompany(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Company deleted")
}

// CreateMember handles POST /companies/:id/members
// @Summary Add a member to a company
// @Tags Companies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param request body dto.CreateMemberRequest true "Member data"
// @Success 200 {object} dto.MemberResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/companies/{id}/members [post]
func (c *CompanyController) CreateMember(ctx echo.Context) error {
	companyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id")
	}

	var req dto.CreateMemberRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CompanyService.CreateMember(ctx.Request().Context(), companyID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Member created")
}

// GetMember handles GET /members/:id
// @Summary Get a member
// @Tags Companies
// @Security BearerAuth
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} errors.AppError
// @Router /private/members/{id} [get]
func (c *CompanyController) GetMember(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid member id")
	}

	result, appErr := c.CompanyService.GetMember(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Member retrieved")
}

// ListMembers handles GET /companies/:id/members
// @Summary List a company's members
// @Tags Companies
// @Security BearerAuth
// @Produce json
// @Param id path string true "Company ID"
// @Param search query string false "Name filter"
// @Param page_number query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} entity.PaginatedMemberEntity
// @Router /private/companies/{id}/members [get]
func (c *CompanyController) ListMembers(ctx echo.Context) error {
	companyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id")
	}

	p := params.FromEchoContext(ctx)
	result, appErr := c.CompanyService.ListMembers(ctx.Request().Context(), companyID, p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Members retrieved")
}

// UpdateMember handles PUT /members/:id
// @Summary Update a member
// @Tags Companies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param request body dto.UpdateMemberRequest true "Member changes"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} errors.AppError
// @Router /private/members/{id} [put]
func (c *CompanyController) UpdateMember(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid member id")
	}

	var req dto.UpdateMemberRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.CompanyService.UpdateMember(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Member updated")
}

// DeleteMember handles DELETE /members/:id
// @Summary Remove a member
// @Tags Companies
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} errors.AppError
// @Router /private/members/{id} [delete]
func (c *CompanyController) DeleteMember(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid member id")
	}

	if appErr := c.CompanyService.DeleteMember(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Member removed")
}
