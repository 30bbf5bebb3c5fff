package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"studio-api/core/database"
	"studio-api/core/logger"
	"studio-api/core/params"
	"studio-api/modules/project/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CandidateRow is one OTHER assignment of a member assigned to the project
// under edit, joined with that other project's schedule window. The overlap
// decision itself happens in the service layer.
type CandidateRow struct {
	MemberID    uuid.UUID  `db:"member_id"`
	MemberName  string     `db:"member_name"`
	ProjectID   uuid.UUID  `db:"project_id"`
	ProjectName string     `db:"project_name"`
	StartDate   *time.Time `db:"start_date"`
	EndDate     *time.Time `db:"end_date"`
	StartHour   int        `db:"start_hour"`
	EndHour     int        `db:"end_hour"`
}

type ProjectRepositoryInterface interface {
	WithTx(tx database.IDatabase) ProjectRepositoryInterface

	CreateProject(ctx context.Context, project *entity.Project) (*entity.Project, error)
	GetProjectByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	GetProjectsByCompany(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedProjectEntity, error)
	UpdateProject(ctx context.Context, project *entity.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	CreateAssignment(ctx context.Context, assignment *entity.Assignment) (*entity.Assignment, error)
	GetAssignmentByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error)
	GetAssignmentsByProjectID(ctx context.Context, projectID uuid.UUID) ([]entity.Assignment, error)
	CountAssignments(ctx context.Context, projectID uuid.UUID) (int, error)
	DeleteAssignment(ctx context.Context, id uuid.UUID) error
	SetAssignmentCalendarRef(ctx context.Context, id uuid.UUID, calendarEventID *string) error

	AdvisoryLockMembers(ctx context.Context, memberIDs []uuid.UUID) error
	GetMemberOtherAssignments(ctx context.Context, projectID, companyID uuid.UUID) ([]CandidateRow, error)
}

type ProjectRepository struct {
	DB database.IDatabase
}

func NewProjectRepository(db database.IDatabase) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

// WithTx returns a view of the repository bound to a transaction handle.
func (r *ProjectRepository) WithTx(tx database.IDatabase) ProjectRepositoryInterface {
	return &ProjectRepository{DB: tx}
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation (duplicate member assignment).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if ok := asPqError(err, &pqErr); ok {
		return pqErr.Code == "23505"
	}
	return false
}

func asPqError(err error, target **pq.Error) bool {
	for err != nil {
		if e, ok := err.(*pq.Error); ok {
			*target = e
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

// ===================== Projects =====================

func (r *ProjectRepository) CreateProject(ctx context.Context, project *entity.Project) (*entity.Project, error) {
	query := `
		INSERT INTO projects (company_id, name, description, start_date, end_date, start_hour, end_hour, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, company_id, name, description, start_date, end_date, start_hour, end_hour, status, created_at, updated_at
	`

	var created entity.Project
	err := r.DB.GetContext(ctx, &created, query,
		project.CompanyID, project.Name, project.Description,
		project.StartDate, project.EndDate, project.StartHour, project.EndHour, project.Status)
	if err != nil {
		logger.Error("ProjectRepository:CreateProject", err)
		return nil, err
	}

	return &created, nil
}

func (r *ProjectRepository) GetProjectByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	query := `
		SELECT id, company_id, name, description, start_date, end_date, start_hour, end_hour, status, created_at, updated_at
		FROM projects WHERE id = $1
	`

	var project entity.Project
	err := r.DB.GetContext(ctx, &project, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ProjectRepository:GetProjectByID", err)
		return nil, err
	}

	return &project, nil
}

func (r *ProjectRepository) GetProjectsByCompany(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedProjectEntity, error) {
	offset := (p.PageNumber - 1) * p.PageSize

	conditions := []string{"company_id = $1"}
	args := []any{companyID}
	argIndex := 2

	if p.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+p.Search+"%")
		argIndex++
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var totalItems int
	countQuery := `SELECT COUNT(*) FROM projects` + whereClause
	if err := r.DB.GetContext(ctx, &totalItems, countQuery, args...); err != nil {
		logger.Error("ProjectRepository:GetProjectsByCompany:Count", err)
		return nil, err
	}

	listQuery := fmt.Sprintf(`
		SELECT id, company_id, name, description, start_date, end_date, start_hour, end_hour, status, created_at, updated_at
		FROM projects%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)
	args = append(args, p.PageSize, offset)

	var projects []entity.Project
	if err := r.DB.SelectContext(ctx, &projects, listQuery, args...); err != nil {
		logger.Error("ProjectRepository:GetProjectsByCompany:List", err)
		return nil, err
	}

	totalPages := 0
	if p.PageSize > 0 {
		totalPages = (totalItems + p.PageSize - 1) / p.PageSize
	}

	return &entity.PaginatedProjectEntity{
		Items:      projects,
		TotalItems: totalItems,
		TotalPages: totalPages,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, project *entity.Project) error {
	query := `
		UPDATE projects
		SET name = $2, description = $3, start_date = $4, end_date = $5,
		    start_hour = $6, end_hour = $7, status = $8, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		project.ID, project.Name, project.Description,
		project.StartDate, project.EndDate, project.StartHour, project.EndHour, project.Status)
	if err != nil {
		logger.Error("ProjectRepository:UpdateProject", err)
		return err
	}
	return nil
}

func (r *ProjectRepository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("ProjectRepository:DeleteProject", err)
		return err
	}
	return nil
}

// ===================== Assignments =====================

func (r *ProjectRepository) CreateAssignment(ctx context.Context, assignment *entity.Assignment) (*entity.Assignment, error) {
	query := `
		INSERT INTO project_assignments (project_id, member_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, project_id, member_id, role, calendar_event_id, created_at, updated_at
	`

	var created entity.Assignment
	err := r.DB.GetContext(ctx, &created, query,
		assignment.ProjectID, assignment.MemberID, assignment.Role)
	if err != nil {
		logger.Error("ProjectRepository:CreateAssignment", err)
		return nil, err
	}

	return &created, nil
}

func (r *ProjectRepository) GetAssignmentByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error) {
	query := `
		SELECT id, project_id, member_id, role, calendar_event_id, created_at, updated_at
		FROM project_assignments WHERE id = $1
	`

	var assignment entity.Assignment
	err := r.DB.GetContext(ctx, &assignment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ProjectRepository:GetAssignmentByID", err)
		return nil, err
	}

	return &assignment, nil
}

func (r *ProjectRepository) GetAssignmentsByProjectID(ctx context.Context, projectID uuid.UUID) ([]entity.Assignment, error) {
	query := `
		SELECT id, project_id, member_id, role, calendar_event_id, created_at, updated_at
		FROM project_assignments
		WHERE project_id = $1
		ORDER BY created_at
	`

	var assignments []entity.Assignment
	if err := r.DB.SelectContext(ctx, &assignments, query, projectID); err != nil {
		logger.Error("ProjectRepository:GetAssignmentsByProjectID", err)
		return nil, err
	}
	return assignments, nil
}

func (r *ProjectRepository) CountAssignments(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM project_assignments WHERE project_id = $1`
	if err := r.DB.GetContext(ctx, &count, query, projectID); err != nil {
		logger.Error("ProjectRepository:CountAssignments", err)
		return 0, err
	}
	return count, nil
}

func (r *ProjectRepository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM project_assignments WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("ProjectRepository:DeleteAssignment", err)
		return err
	}
	return nil
}

func (r *ProjectRepository) SetAssignmentCalendarRef(ctx context.Context, id uuid.UUID, calendarEventID *string) error {
	query := `UPDATE project_assignments SET calendar_event_id = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, calendarEventID); err != nil {
		logger.Error("ProjectRepository:SetAssignmentCalendarRef", err)
		return err
	}
	return nil
}

// ===================== Conflict check support =====================

// AdvisoryLockMembers serializes conflict-check-then-mutate sequences that
// touch the same members. The locks are transaction-scoped and released on
// commit or rollback.
func (r *ProjectRepository) AdvisoryLockMembers(ctx context.Context, memberIDs []uuid.UUID) error {
	if len(memberIDs) == 0 {
		return nil
	}

	ids := make([]string, len(memberIDs))
	for i, id := range memberIDs {
		ids[i] = id.String()
	}

	query := `SELECT pg_advisory_xact_lock(hashtextextended(v, 0)) FROM unnest($1::text[]) AS v`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		logger.Error("ProjectRepository:AdvisoryLockMembers", err)
		return err
	}
	defer rows.Close()
	for rows.Next() {
	}
	return rows.Err()
}

// GetMemberOtherAssignments returns, for every member currently assigned to
// projectID, their assignments to OTHER projects of the same company along
// with those projects' schedule windows.
func (r *ProjectRepository) GetMemberOtherAssignments(ctx context.Context, projectID, companyID uuid.UUID) ([]CandidateRow, error) {
	query := `
		SELECT m.id AS member_id, m.full_name AS member_name,
		       q.id AS project_id, q.name AS project_name,
		       q.start_date, q.end_date, q.start_hour, q.end_hour
		FROM project_assignments a
		JOIN members m ON m.id = a.member_id
		JOIN project_assignments other ON other.member_id = m.id AND other.project_id <> $1
		JOIN projects q ON q.id = other.project_id AND q.company_id = $2
		WHERE a.project_id = $1
		ORDER BY m.full_name, q.name
	`

	var rows []CandidateRow
	if err := r.DB.SelectContext(ctx, &rows, query, projectID, companyID); err != nil {
		logger.Error("ProjectRepository:GetMemberOtherAssignments", err)
		return nil, err
	}
	return rows, nil
}
