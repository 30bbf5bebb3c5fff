package tasks

import (
	"context"
	"encoding/json"

	"studio-api/core/config"
	"studio-api/core/constants"
	"studio-api/core/logger"
	"studio-api/core/mailer"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// CalendarSyncer is the slice of the calendar service the worker needs.
// All calls are best-effort: errors are logged and retried by asynq, never
// surfaced to the request that enqueued them.
type CalendarSyncer interface {
	SyncToCalendar(ctx context.Context, memberID uuid.UUID, entityType string, entityID, assignmentID uuid.UUID) error
	EditEvent(ctx context.Context, memberID uuid.UUID, entityType string, entityID uuid.UUID, calendarEventID string) error
	DeleteEvent(ctx context.Context, memberID uuid.UUID, calendarEventID string) error
}

type Worker struct {
	server *asynq.Server
	syncer CalendarSyncer
	mail   mailer.Mailer
}

func NewWorker(cfg config.RedisConfig, syncer CalendarSyncer, mail mailer.Mailer) *Worker {
	server := asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency: 5,
	})
	return &Worker{server: server, syncer: syncer, mail: mail}
}

// Run blocks processing tasks until Shutdown.
func (w *Worker) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskCalendarSync, w.handleCalendarSync)
	mux.HandleFunc(constants.TaskCalendarEdit, w.handleCalendarEdit)
	mux.HandleFunc(constants.TaskCalendarDelete, w.handleCalendarDelete)
	mux.HandleFunc(constants.TaskMemberInvite, w.handleMemberInvite)
	return w.server.Run(mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleCalendarSync(ctx context.Context, t *asynq.Task) error {
	var p CalendarSyncPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := w.syncer.SyncToCalendar(ctx, p.MemberID, p.EntityType, p.EntityID, p.AssignmentID); err != nil {
		logger.Error("Worker:CalendarSync", "member_id", p.MemberID, "entity_id", p.EntityID, "error", err)
		return err
	}
	return nil
}

func (w *Worker) handleCalendarEdit(ctx context.Context, t *asynq.Task) error {
	var p CalendarEditPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := w.syncer.EditEvent(ctx, p.MemberID, p.EntityType, p.EntityID, p.CalendarEventID); err != nil {
		logger.Error("Worker:CalendarEdit", "member_id", p.MemberID, "entity_id", p.EntityID, "error", err)
		return err
	}
	return nil
}

func (w *Worker) handleCalendarDelete(ctx context.Context, t *asynq.Task) error {
	var p CalendarDeletePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := w.syncer.DeleteEvent(ctx, p.MemberID, p.CalendarEventID); err != nil {
		logger.Error("Worker:CalendarDelete", "member_id", p.MemberID, "error", err)
		return err
	}
	return nil
}

func (w *Worker) handleMemberInvite(ctx context.Context, t *asynq.Task) error {
	var p MemberInvitePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := w.mail.SendMemberInvite(p.Email, p.MemberName, p.CompanyName, p.InviteURL); err != nil {
		logger.Error("Worker:MemberInvite", "email", p.Email, "error", err)
		return err
	}
	return nil
}
