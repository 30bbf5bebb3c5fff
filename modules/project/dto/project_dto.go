package dto

import (
	"time"

	"studio-api/modules/project/entity"

	"github.com/google/uuid"
)

// ===================== Request DTOs =====================

type CreateProjectRequest struct {
	CompanyID   uuid.UUID `json:"company_id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	StartDate   *string   `json:"start_date"` // YYYY-MM-DD, optional
	EndDate     *string   `json:"end_date"`
	StartHour   int       `json:"start_hour"`
	EndHour     int       `json:"end_hour"`
}

// UpdateProjectRequest edits a project. IsScheduleUpdate gates the
// schedule-conflict check: when false only non-schedule fields change.
type UpdateProjectRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Status           string  `json:"status"`
	IsScheduleUpdate bool    `json:"is_schedule_update"`
	StartDate        *string `json:"start_date"`
	EndDate          *string `json:"end_date"`
	StartHour        *int    `json:"start_hour"`
	EndHour          *int    `json:"end_hour"`
}

type AddAssignmentRequest struct {
	MemberID uuid.UUID `json:"member_id"`
	Role     string    `json:"role"`
}

// ===================== Response DTOs =====================

type DateWindow struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	StartHour int     `json:"start_hour"`
	EndHour   int     `json:"end_hour"`
}

// ScheduleConflict itemizes one member whose other project collides with a
// proposed schedule.
type ScheduleConflict struct {
	MemberID               uuid.UUID  `json:"member_id"`
	MemberName             string     `json:"member_name"`
	ConflictingProjectID   uuid.UUID  `json:"conflicting_project_id"`
	ConflictingProjectName string     `json:"conflicting_project_name"`
	ConflictingDates       DateWindow `json:"conflicting_dates"`
	NewDates               DateWindow `json:"new_dates"`
}

type AssignmentResponse struct {
	ID              uuid.UUID `json:"id"`
	ProjectID       uuid.UUID `json:"project_id"`
	MemberID        uuid.UUID `json:"member_id"`
	Role            string    `json:"role"`
	CalendarEventID *string   `json:"calendar_event_id,omitempty"`
}

type ProjectResponse struct {
	ID          uuid.UUID            `json:"id"`
	CompanyID   uuid.UUID            `json:"company_id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	StartDate   *string              `json:"start_date,omitempty"`
	EndDate     *string              `json:"end_date,omitempty"`
	StartHour   int                  `json:"start_hour"`
	EndHour     int                  `json:"end_hour"`
	Status      string               `json:"status"`
	Assignments []AssignmentResponse `json:"assignments,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ===================== Mapper functions =====================

const dateLayout = "2006-01-02"

func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func ToAssignmentResponse(a *entity.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:              a.ID,
		ProjectID:       a.ProjectID,
		MemberID:        a.MemberID,
		Role:            a.Role,
		CalendarEventID: a.CalendarEventID,
	}
}

func ToProjectResponse(p *entity.Project, assignments []entity.Assignment) *ProjectResponse {
	resp := &ProjectResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		Name:      p.Name,
		StartDate: FormatDate(p.StartDate),
		EndDate:   FormatDate(p.EndDate),
		StartHour: p.StartHour,
		EndHour:   p.EndHour,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
	if p.Description != nil {
		resp.Description = *p.Description
	}
	for i := range assignments {
		resp.Assignments = append(resp.Assignments, ToAssignmentResponse(&assignments[i]))
	}
	return resp
}
