package dto

import (
	"time"

	"studio-api/modules/event/entity"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	CompanyID   uuid.UUID  `json:"company_id"`
	ProjectID   *uuid.UUID `json:"project_id"`
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description"`
	Date        string     `json:"date" validate:"required"` // YYYY-MM-DD
	StartHour   int        `json:"start_hour"`
	EndHour     int        `json:"end_hour"`
}

// UpdateEventRequest edits an event. IsScheduleUpdate gates the same-day
// collision check against assigned members' other events.
type UpdateEventRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	IsScheduleUpdate bool    `json:"is_schedule_update"`
	Date             *string `json:"date"`
	StartHour        *int    `json:"start_hour"`
	EndHour          *int    `json:"end_hour"`
}

type AddEventAssignmentRequest struct {
	MemberID uuid.UUID `json:"member_id"`
}

type EventAssignmentResponse struct {
	ID              uuid.UUID `json:"id"`
	EventID         uuid.UUID `json:"event_id"`
	MemberID        uuid.UUID `json:"member_id"`
	CalendarEventID *string   `json:"calendar_event_id,omitempty"`
}

type EventResponse struct {
	ID          uuid.UUID                 `json:"id"`
	CompanyID   uuid.UUID                 `json:"company_id"`
	ProjectID   *uuid.UUID                `json:"project_id,omitempty"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Date        string                    `json:"date"`
	StartHour   int                       `json:"start_hour"`
	EndHour     int                       `json:"end_hour"`
	Assignments []EventAssignmentResponse `json:"assignments,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
}

const dateLayout = "2006-01-02"

func ToEventAssignmentResponse(a *entity.EventAssignment) EventAssignmentResponse {
	return EventAssignmentResponse{
		ID:              a.ID,
		EventID:         a.EventID,
		MemberID:        a.MemberID,
		CalendarEventID: a.CalendarEventID,
	}
}

func ToEventResponse(e *entity.Event, assignments []entity.EventAssignment) *EventResponse {
	resp := &EventResponse{
		ID:        e.ID,
		CompanyID: e.CompanyID,
		ProjectID: e.ProjectID,
		Name:      e.Name,
		Date:      e.Date.Format(dateLayout),
		StartHour: e.StartHour,
		EndHour:   e.EndHour,
		CreatedAt: e.CreatedAt,
	}
	if e.Description != nil {
		resp.Description = *e.Description
	}
	for i := range assignments {
		resp.Assignments = append(resp.Assignments, ToEventAssignmentResponse(&assignments[i]))
	}
	return resp
}
