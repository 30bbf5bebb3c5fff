package entity

import (
	"studio-api/core/entity"

	"github.com/google/uuid"
)

// Assignment links a member to a project with a role. CalendarEventID holds
// the external Google Calendar event reference once the assignment has been
// synced.
type Assignment struct {
	entity.BaseEntity
	ProjectID       uuid.UUID `db:"project_id" json:"project_id"`
	MemberID        uuid.UUID `db:"member_id" json:"member_id"`
	Role            string    `db:"role" json:"role"`
	CalendarEventID *string   `db:"calendar_event_id" json:"calendar_event_id,omitempty"`
}

func (Assignment) TableName() string {
	return "project_assignments"
}
