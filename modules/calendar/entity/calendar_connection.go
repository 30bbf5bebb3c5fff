package entity

import (
	"time"

	"studio-api/core/entity"

	"github.com/google/uuid"
)

// CalendarConnection holds the OAuth credentials for one member's external
// calendar. A connection is deactivated, not deleted, when its refresh token
// stops working, so reconnecting preserves history.
type CalendarConnection struct {
	entity.BaseEntity
	MemberID       uuid.UUID `db:"member_id" json:"member_id"`
	Provider       string    `db:"provider" json:"provider"`
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	CalendarEmail  string    `db:"calendar_email" json:"calendar_email"`
	IsActive       bool      `db:"is_active" json:"is_active"`
}

func (CalendarConnection) TableName() string {
	return "calendar_connections"
}
