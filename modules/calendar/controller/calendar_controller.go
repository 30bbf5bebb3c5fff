package controller

import (
	"studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarServiceInterface
}

func NewCalendarController(svc service.CalendarServiceInterface) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: svc,
	}
}

// GetConnections handles GET /companies/:companyId/calendar-connections
// @Summary List calendar connections of a company's members
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param companyId path string true "Company ID"
// @Success 200 {array} dto.CalendarConnectionResponse
// @Failure 400 {object} errors.AppError
// @Router /private/companies/{companyId}/calendar-connections [get]
func (c *CalendarController) GetConnections(ctx echo.Context) error {
	companyID, err := uuid.Parse(ctx.Param("companyId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id")
	}

	result, err := c.CalendarService.GetConnections(ctx.Request().Context(), companyID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, result, "Calendar connections retrieved")
}

// GetConnectionStatus handles GET /members/:id/calendar-connection
// @Summary Check whether a member has an active calendar connection
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.AppError
// @Router /private/members/{id}/calendar-connection [get]
func (c *CalendarController) GetConnectionStatus(ctx echo.Context) error {
	memberID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid member id")
	}

	connected, err := c.CalendarService.HasActiveConnection(ctx.Request().Context(), memberID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, map[string]bool{"connected": connected}, "Calendar connection status")
}

// Disconnect handles DELETE /members/:id/calendar-connection
// @Summary Disconnect a member's calendar
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 400 {object} errors.AppError
// @Router /private/members/{id}/calendar-connection [delete]
func (c *CalendarController) Disconnect(ctx echo.Context) error {
	memberID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid member id")
	}

	if err := c.CalendarService.Disconnect(ctx.Request().Context(), memberID); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, nil, "Calendar disconnected")
}
