package controller

import (
	"studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/modules/schedule/dto"
	"studio-api/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

// ScheduleController handles availability HTTP requests.
type ScheduleController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

func NewScheduleController(svc service.AvailabilityServiceInterface) *ScheduleController {
	return &ScheduleController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

// GetAvailableMembers handles POST /members/available
// @Summary Member availability report
// @Description Classifies every member of a company against a requested date and hour window
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AvailabilityRequest true "Requested schedule window"
// @Success 200 {object} dto.AvailabilityReport
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/members/available [post]
func (c *ScheduleController) GetAvailableMembers(ctx echo.Context) error {
	var req dto.AvailabilityRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.GetAvailableMembers(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Availability computed")
}
