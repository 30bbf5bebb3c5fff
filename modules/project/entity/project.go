package entity

import (
	"time"

	"studio-api/core/entity"

	"github.com/google/uuid"
)

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusPlanned   ProjectStatus = "planned"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// Project is a booked shoot or production with a schedule window. Dates are
// inclusive calendar days and may be open-ended on either side; hours are
// hour-of-day with the end exclusive.
type Project struct {
	entity.BaseEntity
	CompanyID   uuid.UUID     `db:"company_id" json:"company_id"`
	Name        string        `db:"name" json:"name"`
	Description *string       `db:"description" json:"description,omitempty"`
	StartDate   *time.Time    `db:"start_date" json:"start_date,omitempty"`
	EndDate     *time.Time    `db:"end_date" json:"end_date,omitempty"`
	StartHour   int           `db:"start_hour" json:"start_hour"`
	EndHour     int           `db:"end_hour" json:"end_hour"`
	Status      ProjectStatus `db:"status" json:"status"`
}

func (Project) TableName() string {
	return "projects"
}

type PaginatedProjectEntity = entity.Pagination[Project]
