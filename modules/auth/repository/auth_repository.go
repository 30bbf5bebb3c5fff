package repository

import (
	"context"
	"database/sql"
	"time"

	"studio-api/core/database"
	"studio-api/core/logger"
	"studio-api/modules/auth/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type AuthRepositoryInterface interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	CreateOAuthState(ctx context.Context, state *entity.OAuthState) error
	ConsumeOAuthState(ctx context.Context, state string) (*entity.OAuthState, error)
}

type AuthRepository struct {
	DB database.IDatabase
}

func NewAuthRepository(db database.IDatabase) *AuthRepository {
	return &AuthRepository{DB: db}
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation (duplicate email).
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

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, password_hash, full_name)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, full_name, email_verified_at, created_at, updated_at
	`

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query, user.Email, user.PasswordHash, user.FullName)
	if err != nil {
		logger.Error("AuthRepository:CreateUser", err)
		return nil, err
	}

	return &created, nil
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, email_verified_at, created_at, updated_at
		FROM users WHERE email = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByEmail", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, email_verified_at, created_at, updated_at
		FROM users WHERE id = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByID", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, passwordHash); err != nil {
		logger.Error("AuthRepository:UpdatePassword", err)
		return err
	}
	return nil
}

func (r *AuthRepository) CreateOAuthState(ctx context.Context, state *entity.OAuthState) error {
	query := `
		INSERT INTO oauth_states (state, user_id, member_id, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	err := r.DB.ExecContext(ctx, query, state.State, state.UserID, state.MemberID, state.ExpiresAt)
	if err != nil {
		logger.Error("AuthRepository:CreateOAuthState", err)
		return err
	}
	return nil
}

// ConsumeOAuthState deletes and returns the state row in one statement so a
// state value can be redeemed at most once. Expired rows are not returned.
func (r *AuthRepository) ConsumeOAuthState(ctx context.Context, state string) (*entity.OAuthState, error) {
	query := `
		DELETE FROM oauth_states
		WHERE state = $1 AND expires_at > $2
		RETURNING state, user_id, member_id, expires_at, created_at
	`

	var row entity.OAuthState
	err := r.DB.GetContext(ctx, &row, query, state, time.Now())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:ConsumeOAuthState", err)
		return nil, err
	}

	return &row, nil
}
