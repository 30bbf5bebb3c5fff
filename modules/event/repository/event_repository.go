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
	"studio-api/modules/event/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SameDayEventRow is one OTHER event of a member assigned to the event under
// edit that falls on a given date. The hour comparison happens in the
// service layer.
type SameDayEventRow struct {
	MemberID   uuid.UUID `db:"member_id"`
	MemberName string    `db:"member_name"`
	EventID    uuid.UUID `db:"event_id"`
	EventName  string    `db:"event_name"`
	StartHour  int       `db:"start_hour"`
	EndHour    int       `db:"end_hour"`
}

type EventRepositoryInterface interface {
	WithTx(tx database.IDatabase) EventRepositoryInterface

	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetEventsByCompany(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedEventEntity, error)
	UpdateEvent(ctx context.Context, event *entity.Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	CreateAssignment(ctx context.Context, assignment *entity.EventAssignment) (*entity.EventAssignment, error)
	GetAssignmentByID(ctx context.Context, id uuid.UUID) (*entity.EventAssignment, error)
	GetAssignmentsByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.EventAssignment, error)
	DeleteAssignment(ctx context.Context, id uuid.UUID) error
	SetAssignmentCalendarRef(ctx context.Context, id uuid.UUID, calendarEventID *string) error

	AdvisoryLockMembers(ctx context.Context, memberIDs []uuid.UUID) error
	GetMemberSameDayEvents(ctx context.Context, eventID uuid.UUID, date time.Time) ([]SameDayEventRow, error)
}

type EventRepository struct {
	DB database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) WithTx(tx database.IDatabase) EventRepositoryInterface {
	return &EventRepository{DB: tx}
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation.
func IsUniqueViolation(err error) bool {
	for err != nil {
		if e, ok := err.(*pq.Error); ok {
			return e.Code == "23505"
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (company_id, project_id, name, description, date, start_hour, end_hour)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, company_id, project_id, name, description, date, start_hour, end_hour, created_at, updated_at
	`

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.CompanyID, event.ProjectID, event.Name, event.Description,
		event.Date, event.StartHour, event.EndHour)
	if err != nil {
		logger.Error("EventRepository:CreateEvent", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, company_id, project_id, name, description, date, start_hour, end_hour, created_at, updated_at
		FROM events WHERE id = $1
	`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) GetEventsByCompany(ctx context.Context, companyID uuid.UUID, p params.QueryParams) (*entity.PaginatedEventEntity, error) {
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
	countQuery := `SELECT COUNT(*) FROM events` + whereClause
	if err := r.DB.GetContext(ctx, &totalItems, countQuery, args...); err != nil {
		logger.Error("EventRepository:GetEventsByCompany:Count", err)
		return nil, err
	}

	listQuery := fmt.Sprintf(`
		SELECT id, company_id, project_id, name, description, date, start_hour, end_hour, created_at, updated_at
		FROM events%s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)
	args = append(args, p.PageSize, offset)

	var events []entity.Event
	if err := r.DB.SelectContext(ctx, &events, listQuery, args...); err != nil {
		logger.Error("EventRepository:GetEventsByCompany:List", err)
		return nil, err
	}

	totalPages := 0
	if p.PageSize > 0 {
		totalPages = (totalItems + p.PageSize - 1) / p.PageSize
	}

	return &entity.PaginatedEventEntity{
		Items:      events,
		TotalItems: totalItems,
		TotalPages: totalPages,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET name = $2, description = $3, date = $4, start_hour = $5, end_hour = $6, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		event.ID, event.Name, event.Description, event.Date, event.StartHour, event.EndHour)
	if err != nil {
		logger.Error("EventRepository:UpdateEvent", err)
		return err
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("EventRepository:DeleteEvent", err)
		return err
	}
	return nil
}

func (r *EventRepository) CreateAssignment(ctx context.Context, assignment *entity.EventAssignment) (*entity.EventAssignment, error) {
	query := `
		INSERT INTO event_assignments (event_id, member_id)
		VALUES ($1, $2)
		RETURNING id, event_id, member_id, calendar_event_id, created_at, updated_at
	`

	var created entity.EventAssignment
	err := r.DB.GetContext(ctx, &created, query, assignment.EventID, assignment.MemberID)
	if err != nil {
		logger.Error("EventRepository:CreateAssignment", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetAssignmentByID(ctx context.Context, id uuid.UUID) (*entity.EventAssignment, error) {
	query := `
		SELECT id, event_id, member_id, calendar_event_id, created_at, updated_at
		FROM event_assignments WHERE id = $1
	`

	var assignment entity.EventAssignment
	err := r.DB.GetContext(ctx, &assignment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetAssignmentByID", err)
		return nil, err
	}

	return &assignment, nil
}

func (r *EventRepository) GetAssignmentsByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.EventAssignment, error) {
	query := `
		SELECT id, event_id, member_id, calendar_event_id, created_at, updated_at
		FROM event_assignments
		WHERE event_id = $1
		ORDER BY created_at
	`

	var assignments []entity.EventAssignment
	if err := r.DB.SelectContext(ctx, &assignments, query, eventID); err != nil {
		logger.Error("EventRepository:GetAssignmentsByEventID", err)
		return nil, err
	}
	return assignments, nil
}

func (r *EventRepository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM event_assignments WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("EventRepository:DeleteAssignment", err)
		return err
	}
	return nil
}

func (r *EventRepository) SetAssignmentCalendarRef(ctx context.Context, id uuid.UUID, calendarEventID *string) error {
	query := `UPDATE event_assignments SET calendar_event_id = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, calendarEventID); err != nil {
		logger.Error("EventRepository:SetAssignmentCalendarRef", err)
		return err
	}
	return nil
}

func (r *EventRepository) AdvisoryLockMembers(ctx context.Context, memberIDs []uuid.UUID) error {
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
		logger.Error("EventRepository:AdvisoryLockMembers", err)
		return err
	}
	defer rows.Close()
	for rows.Next() {
	}
	return rows.Err()
}

// GetMemberSameDayEvents returns, for every member assigned to eventID,
// their assignments to OTHER events falling on the given calendar date.
func (r *EventRepository) GetMemberSameDayEvents(ctx context.Context, eventID uuid.UUID, date time.Time) ([]SameDayEventRow, error) {
	query := `
		SELECT m.id AS member_id, m.full_name AS member_name,
		       ev.id AS event_id, ev.name AS event_name,
		       ev.start_hour, ev.end_hour
		FROM event_assignments a
		JOIN members m ON m.id = a.member_id
		JOIN event_assignments other ON other.member_id = m.id AND other.event_id <> $1
		JOIN events ev ON ev.id = other.event_id AND ev.date = $2::date
		WHERE a.event_id = $1
		ORDER BY m.full_name, ev.name
	`

	var rows []SameDayEventRow
	if err := r.DB.SelectContext(ctx, &rows, query, eventID, date); err != nil {
		logger.Error("EventRepository:GetMemberSameDayEvents", err)
		return nil, err
	}
	return rows, nil
}
