package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studio-api/core/constants"
	"studio-api/core/controller"
	"studio-api/core/database"
	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/core/params"
	"studio-api/core/tasks"
	"studio-api/modules/event/dto"
	"studio-api/modules/event/entity"
	"studio-api/modules/event/repository"
	scheduleservice "studio-api/modules/schedule/service"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx database.IDatabase) error) error
}

type TaskEnqueuer interface {
	EnqueueCalendarSync(p tasks.CalendarSyncPayload)
	EnqueueCalendarEdit(p tasks.CalendarEditPayload)
	EnqueueCalendarDelete(p tasks.CalendarDeletePayload)
}

type EventService struct {
	repo  repository.EventRepositoryInterface
	db    Transactor
	tasks TaskEnqueuer
}

type EventServiceInterface interface {
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetEvent(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError)
	ListEvents(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedEventEntity, *errors.AppError)
	UpdateEvent(ctx context.Context, id uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, id uuid.UUID) *errors.AppError
	AddAssignment(ctx context.Context, eventID uuid.UUID, req *dto.AddEventAssignmentRequest) (*dto.EventAssignmentResponse, *errors.AppError)
	RemoveAssignment(ctx context.Context, eventID, assignmentID uuid.UUID) *errors.AppError
}

func NewEventService(repo repository.EventRepositoryInterface, db Transactor, enqueuer TaskEnqueuer) EventServiceInterface {
	return &EventService{repo: repo, db: db, tasks: enqueuer}
}

func (s *EventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	var details []controller.ValidationError
	if req.Name == "" {
		details = append(details, controller.NewValidationError("name", "name is required"))
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		details = append(details, controller.NewValidationError("date", "must be YYYY-MM-DD"))
	}
	details = append(details, validateHours(req.StartHour, req.EndHour)...)
	if len(details) > 0 {
		return nil, errors.NewAppErrorWithDetails(errors.ErrInvalidRequestData, "Invalid event data", details)
	}

	event := &entity.Event{
		CompanyID: req.CompanyID,
		ProjectID: req.ProjectID,
		Name:      req.Name,
		Date:      date,
		StartHour: req.StartHour,
		EndHour:   req.EndHour,
	}
	if req.Description != "" {
		event.Description = &req.Description
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create event", err)
	}

	logger.Info("EventService:CreateEvent", "event_id", created.ID, "company_id", created.CompanyID)
	return dto.ToEventResponse(created, nil), nil
}

func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	assignments, err := s.repo.GetAssignmentsByEventID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load assignments", err)
	}

	return dto.ToEventResponse(event, assignments), nil
}

func (s *EventService) ListEvents(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedEventEntity, *errors.AppError) {
	page, err := s.repo.GetEventsByCompany(ctx, companyID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}
	return page, nil
}

// UpdateEvent edits an event. When the request flags a schedule change, the
// proposed date and hours are checked against every assigned member's other
// events on that same date inside one transaction; any hour overlap rejects
// the whole update.
func (s *EventService) UpdateEvent(ctx context.Context, id uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	if req.Name != "" {
		event.Name = req.Name
	}
	if req.Description != "" {
		event.Description = &req.Description
	}

	if !req.IsScheduleUpdate {
		if err := s.repo.UpdateEvent(ctx, event); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update event", err)
		}
		assignments, err := s.repo.GetAssignmentsByEventID(ctx, id)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load assignments", err)
		}
		return dto.ToEventResponse(event, assignments), nil
	}

	if appErr := applySchedule(event, req); appErr != nil {
		return nil, appErr
	}

	var (
		appErr      *errors.AppError
		assignments []entity.EventAssignment
	)
	txErr := s.db.WithinTransaction(ctx, func(tx database.IDatabase) error {
		txRepo := s.repo.WithTx(tx)

		var err error
		assignments, err = txRepo.GetAssignmentsByEventID(ctx, id)
		if err != nil {
			return err
		}

		memberIDs := make([]uuid.UUID, len(assignments))
		for i, a := range assignments {
			memberIDs[i] = a.MemberID
		}
		if err := txRepo.AdvisoryLockMembers(ctx, memberIDs); err != nil {
			return err
		}

		sameDay, err := txRepo.GetMemberSameDayEvents(ctx, id, event.Date)
		if err != nil {
			return err
		}

		if msg := describeHourCollisions(event, sameDay); msg != "" {
			appErr = errors.NewAppError(errors.ErrScheduleConflict, msg, nil)
			return appErr
		}

		return txRepo.UpdateEvent(ctx, event)
	})
	if appErr != nil {
		return nil, appErr
	}
	if txErr != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update event schedule", txErr)
	}

	for _, a := range assignments {
		if a.CalendarEventID != nil {
			s.tasks.EnqueueCalendarEdit(tasks.CalendarEditPayload{
				MemberID:        a.MemberID,
				EntityType:      constants.EntityTypeEvent,
				EntityID:        id,
				CalendarEventID: *a.CalendarEventID,
			})
		} else {
			s.tasks.EnqueueCalendarSync(tasks.CalendarSyncPayload{
				MemberID:     a.MemberID,
				EntityType:   constants.EntityTypeEvent,
				EntityID:     id,
				AssignmentID: a.ID,
			})
		}
	}

	logger.Info("EventService:UpdateEvent", "event_id", id, "schedule_update", true)
	return dto.ToEventResponse(event, assignments), nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id uuid.UUID) *errors.AppError {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	assignments, err := s.repo.GetAssignmentsByEventID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load assignments", err)
	}

	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete event", err)
	}

	for _, a := range assignments {
		if a.CalendarEventID != nil {
			s.tasks.EnqueueCalendarDelete(tasks.CalendarDeletePayload{
				MemberID:        a.MemberID,
				CalendarEventID: *a.CalendarEventID,
			})
		}
	}

	logger.Info("EventService:DeleteEvent", "event_id", id)
	return nil
}

func (s *EventService) AddAssignment(ctx context.Context, eventID uuid.UUID, req *dto.AddEventAssignmentRequest) (*dto.EventAssignmentResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if req.MemberID == uuid.Nil {
		return nil, errors.NewAppErrorWithDetails(errors.ErrInvalidRequestData, "Invalid assignment data",
			[]controller.ValidationError{controller.NewValidationError("member_id", "member_id is required")})
	}

	created, err := s.repo.CreateAssignment(ctx, &entity.EventAssignment{
		EventID:  eventID,
		MemberID: req.MemberID,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "Member is already assigned to this event", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create assignment", err)
	}

	s.tasks.EnqueueCalendarSync(tasks.CalendarSyncPayload{
		MemberID:     created.MemberID,
		EntityType:   constants.EntityTypeEvent,
		EntityID:     eventID,
		AssignmentID: created.ID,
	})

	logger.Info("EventService:AddAssignment", "event_id", eventID, "member_id", created.MemberID)
	resp := dto.ToEventAssignmentResponse(created)
	return &resp, nil
}

func (s *EventService) RemoveAssignment(ctx context.Context, eventID, assignmentID uuid.UUID) *errors.AppError {
	assignment, err := s.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load assignment", err)
	}
	if assignment == nil || assignment.EventID != eventID {
		return errors.NewAppError(errors.ErrNotFound, "Assignment not found", nil)
	}

	if err := s.repo.DeleteAssignment(ctx, assignmentID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete assignment", err)
	}

	if assignment.CalendarEventID != nil {
		s.tasks.EnqueueCalendarDelete(tasks.CalendarDeletePayload{
			MemberID:        assignment.MemberID,
			CalendarEventID: *assignment.CalendarEventID,
		})
	}

	logger.Info("EventService:RemoveAssignment", "event_id", eventID, "assignment_id", assignmentID)
	return nil
}

// ===================== Helpers =====================

func applySchedule(event *entity.Event, req *dto.UpdateEventRequest) *errors.AppError {
	var details []controller.ValidationError

	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			details = append(details, controller.NewValidationError("date", "must be YYYY-MM-DD"))
		} else {
			event.Date = date
		}
	}

	startHour := event.StartHour
	endHour := event.EndHour
	if req.StartHour != nil {
		startHour = *req.StartHour
	}
	if req.EndHour != nil {
		endHour = *req.EndHour
	}
	details = append(details, validateHours(startHour, endHour)...)

	if len(details) > 0 {
		return errors.NewAppErrorWithDetails(errors.ErrInvalidRequestData, "Invalid event schedule", details)
	}

	event.StartHour = startHour
	event.EndHour = endHour
	return nil
}

func validateHours(startHour, endHour int) []controller.ValidationError {
	var details []controller.ValidationError
	if startHour < 0 || startHour > 24 {
		details = append(details, controller.NewValidationError("start_hour", "must be between 0 and 24"))
	}
	if endHour < 0 || endHour > 24 {
		details = append(details, controller.NewValidationError("end_hour", "must be between 0 and 24"))
	}
	if startHour >= endHour {
		details = append(details, controller.NewValidationError("start_hour", "must be before end_hour"))
	}
	return details
}

// describeHourCollisions aggregates every colliding member/event pair into a
// single rejection message. Returns "" when no row's hours overlap the
// proposed window.
func describeHourCollisions(event *entity.Event, rows []repository.SameDayEventRow) string {
	var parts []string
	for _, r := range rows {
		if !scheduleservice.HourRangesOverlap(event.StartHour, event.EndHour, r.StartHour, r.EndHour) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s is booked for %q (%02d:00-%02d:00)",
			r.MemberName, r.EventName, r.StartHour, r.EndHour))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Schedule conflict on " + event.Date.Format(dateLayout) + ": " + strings.Join(parts, "; ")
}
