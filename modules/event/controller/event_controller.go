package controller

import (
	"studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/core/params"
	"studio-api/modules/event/dto"
	"studio-api/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

// CreateEvent handles POST /events
// @Summary Create an event
// @Tags Events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event data"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} errors.AppError
// @Router /private/events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event created")
}

// GetEvent handles GET /events/:id
// @Summary Get an event with its assignments
// @Tags Events
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} errors.AppError
// @Router /private/events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.EventService.GetEvent(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event retrieved")
}

// ListEvents handles GET /companies/:companyId/events
// @Summary List a company's events
// @Tags Events
// @Security BearerAuth
// @Produce json
// @Param companyId path string true "Company ID"
// @Param search query string false "Name filter"
// @Param page_number query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} entity.PaginatedEventEntity
// @Router /private/companies/{companyId}/events [get]
func (c *EventController) ListEvents(ctx echo.Context) error {
	companyID, err := uuid.Parse(ctx.Param("companyId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid company id")
	}

	p := params.FromEchoContext(ctx)
	result, appErr := c.EventService.ListEvents(ctx.Request().Context(), companyID, p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Events retrieved")
}

// UpdateEvent handles PUT /events/:id
// @Summary Update an event, with same-day collision detection on schedule changes
// @Description When is_schedule_update is true, the proposed date and hours are checked against every assigned member's other events on that date. Any hour overlap rejects the whole update.
// @Tags Events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Event changes"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/events/{id} [put]
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.UpdateEvent(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event updated")
}

// DeleteEvent handles DELETE /events/:id
// @Summary Delete an event
// @Tags Events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} errors.AppError
// @Router /private/events/{id} [delete]
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	if appErr := c.EventService.DeleteEvent(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event deleted")
}

// AddAssignment handles POST /events/:id/assignments
// @Summary Assign a member to an event
// @Tags Events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.AddEventAssignmentRequest true "Assignment data"
// @Success 200 {object} dto.EventAssignmentResponse
// @Failure 404 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/events/{id}/assignments [post]
func (c *EventController) AddAssignment(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	var req dto.AddEventAssignmentRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.AddAssignment(ctx.Request().Context(), eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Member assigned")
}

// RemoveAssignment handles DELETE /events/:id/assignments/:assignmentId
// @Summary Unassign a member from an event
// @Tags Events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param assignmentId path string true "Assignment ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 404 {object} errors.AppError
// @Router /private/events/{id}/assignments/{assignmentId} [delete]
func (c *EventController) RemoveAssignment(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}
	assignmentID, err := uuid.Parse(ctx.Param("assignmentId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid assignment id")
	}

	if appErr := c.EventService.RemoveAssignment(ctx.Request().Context(), eventID, assignmentID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Member unassigned")
}
