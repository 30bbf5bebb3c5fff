package tasks

import (
	"encoding/json"
	"fmt"

	"studio-api/core/config"
	"studio-api/core/constants"
	"studio-api/core/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task payloads. Calendar tasks run after the owning transaction commits;
// their failure never affects the committed schedule change.
type (
	CalendarSyncPayload struct {
		MemberID     uuid.UUID `json:"member_id"`
		EntityType   string    `json:"entity_type"` // "project" | "event"
		EntityID     uuid.UUID `json:"entity_id"`
		AssignmentID uuid.UUID `json:"assignment_id"`
	}

	CalendarEditPayload struct {
		MemberID        uuid.UUID `json:"member_id"`
		EntityType      string    `json:"entity_type"`
		EntityID        uuid.UUID `json:"entity_id"`
		CalendarEventID string    `json:"calendar_event_id"`
	}

	CalendarDeletePayload struct {
		MemberID        uuid.UUID `json:"member_id"`
		CalendarEventID string    `json:"calendar_event_id"`
	}

	MemberInvitePayload struct {
		Email       string `json:"email"`
		MemberName  string `json:"member_name"`
		CompanyName string `json:"company_name"`
		InviteURL   string `json:"invite_url"`
	}
)

// Client enqueues background tasks.
type Client struct {
	client *asynq.Client
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{client: asynq.NewClient(RedisOpt(cfg))}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) enqueue(typename string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Tasks:Enqueue:Marshal", "type", typename, "error", err)
		return
	}
	info, err := c.client.Enqueue(asynq.NewTask(typename, data), asynq.MaxRetry(3))
	if err != nil {
		// Best effort: enqueue failures are logged, never escalated.
		logger.Error("Tasks:Enqueue", "type", typename, "error", err)
		return
	}
	logger.Info("Tasks:Enqueued", "type", typename, "task_id", info.ID)
}

func (c *Client) EnqueueCalendarSync(p CalendarSyncPayload) {
	c.enqueue(constants.TaskCalendarSync, p)
}

func (c *Client) EnqueueCalendarEdit(p CalendarEditPayload) {
	c.enqueue(constants.TaskCalendarEdit, p)
}

func (c *Client) EnqueueCalendarDelete(p CalendarDeletePayload) {
	c.enqueue(constants.TaskCalendarDelete, p)
}

func (c *Client) EnqueueMemberInvite(p MemberInvitePayload) {
	c.enqueue(constants.TaskMemberInvite, p)
}
