package dto

import (
	"studio-api/modules/calendar/entity"

	"github.com/google/uuid"
)

type CalendarConnectionResponse struct {
	ID            uuid.UUID `json:"id"`
	MemberID      uuid.UUID `json:"member_id"`
	Provider      string    `json:"provider"`
	CalendarEmail string    `json:"calendar_email"`
	IsActive      bool      `json:"is_active"`
	ConnectedAt   string    `json:"connected_at"`
}

func ToConnectionResponse(c *entity.CalendarConnection) CalendarConnectionResponse {
	return CalendarConnectionResponse{
		ID:            c.ID,
		MemberID:      c.MemberID,
		Provider:      c.Provider,
		CalendarEmail: c.CalendarEmail,
		IsActive:      c.IsActive,
		ConnectedAt:   c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
