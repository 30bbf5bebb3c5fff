package repository

import (
	"context"
	"database/sql"
	"time"

	"studio-api/core/database"
	"studio-api/core/logger"

	"github.com/google/uuid"
)

// MemberAssignmentRow is one member joined with one of their project
// assignments and that project's schedule window. Members with no
// assignments appear once with nil assignment fields.
type MemberAssignmentRow struct {
	MemberID    uuid.UUID  `db:"member_id"`
	FullName    string     `db:"full_name"`
	Email       string     `db:"email"`
	AvatarURL   *string    `db:"avatar_url"`
	ProjectID   *uuid.UUID `db:"project_id"`
	ProjectName *string    `db:"project_name"`
	StartDate   *time.Time `db:"start_date"`
	EndDate     *time.Time `db:"end_date"`
	StartHour   *int       `db:"start_hour"`
	EndHour     *int       `db:"end_hour"`
}

type ScheduleRepositoryInterface interface {
	CompanyExists(ctx context.Context, companyID uuid.UUID) (bool, error)
	GetMemberAssignments(ctx context.Context, companyID uuid.UUID, excludeProjectID *uuid.UUID) ([]MemberAssignmentRow, error)
}

type ScheduleRepository struct {
	DB database.IDatabase
}

func NewScheduleRepository(db database.IDatabase) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

func (r *ScheduleRepository) CompanyExists(ctx context.Context, companyID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM companies WHERE id = $1)`
	err := r.DB.GetContext(ctx, &exists, query, companyID)
	if err != nil {
		logger.Error("ScheduleRepository:CompanyExists", err)
		return false, err
	}
	return exists, nil
}

func (r *ScheduleRepository) GetMemberAssignments(ctx context.Context, companyID uuid.UUID, excludeProjectID *uuid.UUID) ([]MemberAssignmentRow, error) {
	query := `
		SELECT m.id AS member_id, m.full_name, m.email, m.avatar_url,
		       p.id AS project_id, p.name AS project_name,
		       p.start_date, p.end_date, p.start_hour, p.end_hour
		FROM members m
		LEFT JOIN project_assignments a ON a.member_id = m.id
			AND ($2::uuid IS NULL OR a.project_id <> $2)
		LEFT JOIN projects p ON p.id = a.project_id
		WHERE m.company_id = $1
		ORDER BY m.full_name, m.id
	`

	var exclude any
	if excludeProjectID != nil {
		exclude = *excludeProjectID
	} else {
		exclude = sql.NullString{}
	}

	var rows []MemberAssignmentRow
	err := r.DB.SelectContext(ctx, &rows, query, companyID, exclude)
	if err != nil {
		logger.Error("ScheduleRepository:GetMemberAssignments", err)
		return nil, err
	}

	return rows, nil
}
