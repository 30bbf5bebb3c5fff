package entity

import (
	"time"

	"studio-api/core/entity"

	"github.com/google/uuid"
)

// Event is a single-day engagement such as a consultation, venue visit or
// delivery handoff. Unlike projects it always has a concrete date; hours are
// hour-of-day with the end exclusive. ProjectID links the event to the
// production it belongs to, when any.
type Event struct {
	entity.BaseEntity
	CompanyID   uuid.UUID  `db:"company_id" json:"company_id"`
	ProjectID   *uuid.UUID `db:"project_id" json:"project_id,omitempty"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description,omitempty"`
	Date        time.Time  `db:"date" json:"date"`
	StartHour   int        `db:"start_hour" json:"start_hour"`
	EndHour     int        `db:"end_hour" json:"end_hour"`
}

func (Event) TableName() string {
	return "events"
}

type PaginatedEventEntity = entity.Pagination[Event]

// EventAssignment links a member to an event. CalendarEventID holds the
// external Google Calendar reference once synced.
type EventAssignment struct {
	entity.BaseEntity
	EventID         uuid.UUID `db:"event_id" json:"event_id"`
	MemberID        uuid.UUID `db:"member_id" json:"member_id"`
	CalendarEventID *string   `db:"calendar_event_id" json:"calendar_event_id,omitempty"`
}

func (EventAssignment) TableName() string {
	return "event_assignments"
}
