package repository

import (
	"context"
	"database/sql"
	"time"

	"studio-api/core/database"
	"studio-api/core/logger"
	"studio-api/modules/calendar/entity"

	"github.com/google/uuid"
)

// ProjectSyncInfo is the subset of a project needed to mirror it onto an
// external calendar.
type ProjectSyncInfo struct {
	Name        string     `db:"name"`
	Description *string    `db:"description"`
	StartDate   *time.Time `db:"start_date"`
	EndDate     *time.Time `db:"end_date"`
	StartHour   int        `db:"start_hour"`
	EndHour     int        `db:"end_hour"`
}

// EventSyncInfo is the subset of an event needed to mirror it onto an
// external calendar.
type EventSyncInfo struct {
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Date        time.Time `db:"date"`
	StartHour   int       `db:"start_hour"`
	EndHour     int       `db:"end_hour"`
}

type CalendarRepositoryInterface interface {
	CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error)
	GetConnectionByMember(ctx context.Context, memberID uuid.UUID) (*entity.CalendarConnection, error)
	GetConnectionsByCompany(ctx context.Context, companyID uuid.UUID) ([]entity.CalendarConnection, error)
	UpdateConnection(ctx context.Context, conn *entity.CalendarConnection) error
	DeactivateConnection(ctx context.Context, memberID uuid.UUID) error
	DeleteConnection(ctx context.Context, memberID uuid.UUID) error

	GetProjectSyncInfo(ctx context.Context, projectID uuid.UUID) (*ProjectSyncInfo, error)
	GetEventSyncInfo(ctx context.Context, eventID uuid.UUID) (*EventSyncInfo, error)
	SetProjectAssignmentRef(ctx context.Context, assignmentID uuid.UUID, calendarEventID string) error
	SetEventAssignmentRef(ctx context.Context, assignmentID uuid.UUID, calendarEventID string) error
}

type CalendarRepository struct {
	DB database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) *CalendarRepository {
	return &CalendarRepository{DB: db}
}

func (r *CalendarRepository) CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	query := `
		INSERT INTO calendar_connections (member_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, member_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active, created_at, updated_at
	`

	var created entity.CalendarConnection
	err := r.DB.GetContext(ctx, &created, query,
		conn.MemberID, conn.Provider, conn.AccessToken, conn.RefreshToken,
		conn.TokenExpiresAt, conn.CalendarEmail, conn.IsActive)
	if err != nil {
		logger.Error("CalendarRepository:CreateConnection", err)
		return nil, err
	}

	return &created, nil
}

func (r *CalendarRepository) GetConnectionByMember(ctx context.Context, memberID uuid.UUID) (*entity.CalendarConnection, error) {
	query := `
		SELECT id, member_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active, created_at, updated_at
		FROM calendar_connections WHERE member_id = $1
	`

	var conn entity.CalendarConnection
	err := r.DB.GetContext(ctx, &conn, query, memberID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetConnectionByMember", err)
		return nil, err
	}

	return &conn, nil
}

func (r *CalendarRepository) GetConnectionsByCompany(ctx context.Context, companyID uuid.UUID) ([]entity.CalendarConnection, error) {
	query := `
		SELECT c.id, c.member_id, c.provider, c.access_token, c.refresh_token, c.token_expires_at, c.calendar_email, c.is_active, c.created_at, c.updated_at
		FROM calendar_connections c
		JOIN members m ON m.id = c.member_id
		WHERE m.company_id = $1
		ORDER BY c.created_at
	`

	var connections []entity.CalendarConnection
	if err := r.DB.SelectContext(ctx, &connections, query, companyID); err != nil {
		logger.Error("CalendarRepository:GetConnectionsByCompany", err)
		return nil, err
	}
	return connections, nil
}

func (r *CalendarRepository) UpdateConnection(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $2, refresh_token = $3, token_expires_at = $4, calendar_email = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		conn.ID, conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt, conn.CalendarEmail, conn.IsActive)
	if err != nil {
		logger.Error("CalendarRepository:UpdateConnection", err)
		return err
	}
	return nil
}

func (r *CalendarRepository) DeactivateConnection(ctx context.Context, memberID uuid.UUID) error {
	query := `UPDATE calendar_connections SET is_active = false, updated_at = NOW() WHERE member_id = $1`
	if err := r.DB.ExecContext(ctx, query, memberID); err != nil {
		logger.Error("CalendarRepository:DeactivateConnection", err)
		return err
	}
	return nil
}

func (r *CalendarRepository) DeleteConnection(ctx context.Context, memberID uuid.UUID) error {
	query := `DELETE FROM calendar_connections WHERE member_id = $1`
	if err := r.DB.ExecContext(ctx, query, memberID); err != nil {
		logger.Error("CalendarRepository:DeleteConnection", err)
		return err
	}
	return nil
}

func (r *CalendarRepository) GetProjectSyncInfo(ctx context.Context, projectID uuid.UUID) (*ProjectSyncInfo, error) {
	query := `
		SELECT name, description, start_date, end_date, start_hour, end_hour
		FROM projects WHERE id = $1
	`

	var info ProjectSyncInfo
	err := r.DB.GetContext(ctx, &info, query, projectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetProjectSyncInfo", err)
		return nil, err
	}

	return &info, nil
}

func (r *CalendarRepository) GetEventSyncInfo(ctx context.Context, eventID uuid.UUID) (*EventSyncInfo, error) {
	query := `
		SELECT name, description, date, start_hour, end_hour
		FROM events WHERE id = $1
	`

	var info EventSyncInfo
	err := r.DB.GetContext(ctx, &info, query, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetEventSyncInfo", err)
		return nil, err
	}

	return &info, nil
}

func (r *CalendarRepository) SetProjectAssignmentRef(ctx context.Context, assignmentID uuid.UUID, calendarEventID string) error {
	query := `UPDATE project_assignments SET calendar_event_id = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, assignmentID, calendarEventID); err != nil {
		logger.Error("CalendarRepository:SetProjectAssignmentRef", err)
		return err
	}
	return nil
}

func (r *CalendarRepository) SetEventAssignmentRef(ctx context.Context, assignmentID uuid.UUID, calendarEventID string) error {
	query := `UPDATE event_assignments SET calendar_event_id = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, assignmentID, calendarEventID); err != nil {
		logger.Error("CalendarRepository:SetEventAssignmentRef", err)
		return err
	}
	return nil
}
