package entity

import (
	"time"

	"studio-api/core/entity"

	"github.com/google/uuid"
)

// User is a login account. Studio members are a separate concept; a user
// owns companies and manages their schedules.
type User struct {
	entity.BaseEntity
	Email           string     `db:"email" json:"email"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	FullName        string     `db:"full_name" json:"full_name"`
	EmailVerifiedAt *time.Time `db:"email_verified_at" json:"email_verified_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// OAuthState is a one-shot anti-forgery value for the Google OAuth flow.
// MemberID is the member whose calendar is being connected.
type OAuthState struct {
	State     string    `db:"state"`
	UserID    uuid.UUID `db:"user_id"`
	MemberID  uuid.UUID `db:"member_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (OAuthState) TableName() string {
	return "oauth_states"
}
