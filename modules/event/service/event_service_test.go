package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"studio-api/core/database"
	"studio-api/core/errors"
	"studio-api/core/params"
	"studio-api/core/tasks"
	"studio-api/modules/event/dto"
	"studio-api/modules/event/entity"
	"studio-api/modules/event/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ===================== Fakes =====================

type fakeEventRepo struct {
	event       *entity.Event
	assignments []entity.EventAssignment
	sameDay     []repository.SameDayEventRow

	createAssignmentErr error

	queriedDate   time.Time
	lockedMembers []uuid.UUID
	updateCalled  bool
	deleteCalled  bool
}

func (f *fakeEventRepo) WithTx(tx database.IDatabase) repository.EventRepositoryInterface {
	return f
}

func (f *fakeEventRepo) CreateEvent(ctx context.Context, e *entity.Event) (*entity.Event, error) {
	created := *e
	created.ID = uuid.New()
	return &created, nil
}

func (f *fakeEventRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, nil
	}
	copied := *f.event
	return &copied, nil
}

func (f *fakeEventRepo) GetEventsByCompany(ctx context.Context, companyID uuid.UUID, _ params.QueryParams) (*entity.PaginatedEventEntity, error) {
	return &entity.PaginatedEventEntity{}, nil
}

func (f *fakeEventRepo) UpdateEvent(ctx context.Context, e *entity.Event) error {
	f.updateCalled = true
	f.event = e
	return nil
}

func (f *fakeEventRepo) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	f.deleteCalled = true
	return nil
}

func (f *fakeEventRepo) CreateAssignment(ctx context.Context, a *entity.EventAssignment) (*entity.EventAssignment, error) {
	if f.createAssignmentErr != nil {
		return nil, f.createAssignmentErr
	}
	created := *a
	created.ID = uuid.New()
	return &created, nil
}

func (f *fakeEventRepo) GetAssignmentByID(ctx context.Context, id uuid.UUID) (*entity.EventAssignment, error) {
	for i := range f.assignments {
		if f.assignments[i].ID == id {
			return &f.assignments[i], nil
		}
	}
	return nil, nil
}

func (f *fakeEventRepo) GetAssignmentsByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.EventAssignment, error) {
	return f.assignments, nil
}

func (f *fakeEventRepo) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	f.deleteCalled = true
	return nil
}

func (f *fakeEventRepo) SetAssignmentCalendarRef(ctx context.Context, id uuid.UUID, calendarEventID *string) error {
	return nil
}

func (f *fakeEventRepo) AdvisoryLockMembers(ctx context.Context, memberIDs []uuid.UUID) error {
	f.lockedMembers = memberIDs
	return nil
}

func (f *fakeEventRepo) GetMemberSameDayEvents(ctx context.Context, eventID uuid.UUID, date time.Time) ([]repository.SameDayEventRow, error) {
	f.queriedDate = date
	return f.sameDay, nil
}

type fakeTransactor struct {
	invoked    bool
	committed  bool
	rolledBack bool
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(tx database.IDatabase) error) error {
	f.invoked = true
	if err := fn(nil); err != nil {
		f.rolledBack = true
		return err
	}
	f.committed = true
	return nil
}

type fakeEnqueuer struct {
	syncs   []tasks.CalendarSyncPayload
	edits   []tasks.CalendarEditPayload
	deletes []tasks.CalendarDeletePayload
}

func (f *fakeEnqueuer) EnqueueCalendarSync(p tasks.CalendarSyncPayload)  { f.syncs = append(f.syncs, p) }
func (f *fakeEnqueuer) EnqueueCalendarEdit(p tasks.CalendarEditPayload) { f.edits = append(f.edits, p) }
func (f *fakeEnqueuer) EnqueueCalendarDelete(p tasks.CalendarDeletePayload) {
	f.deletes = append(f.deletes, p)
}

// ===================== Helpers =====================

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func strptr(s string) *string { return &s }
func intptr(n int) *int       { return &n }

func baseEvent() *entity.Event {
	e := &entity.Event{
		CompanyID: uuid.New(),
		Name:      "Venue walkthrough",
		Date:      mustDate("2024-07-01"),
		StartHour: 9,
		EndHour:   11,
	}
	e.ID = uuid.New()
	return e
}

func eventScheduleUpdate() *dto.UpdateEventRequest {
	return &dto.UpdateEventRequest{
		IsScheduleUpdate: true,
		Date:             strptr("2024-07-02"),
		StartHour:        intptr(14),
		EndHour:          intptr(16),
	}
}

// ===================== Tests =====================

func TestUpdateEventCollisionRollsBack(t *testing.T) {
	event := baseEvent()
	memberID := uuid.New()
	repo := &fakeEventRepo{
		event:       event,
		assignments: []entity.EventAssignment{{EventID: event.ID, MemberID: memberID}},
		sameDay: []repository.SameDayEventRow{
			{MemberID: memberID, MemberName: "Ana", EventID: uuid.New(), EventName: "Client tasting", StartHour: 15, EndHour: 17},
		},
	}
	tx := &fakeTransactor{}
	queue := &fakeEnqueuer{}
	svc := NewEventService(repo, tx, queue)

	_, appErr := svc.UpdateEvent(context.Background(), event.ID, eventScheduleUpdate())
	if appErr == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if appErr.Code != errors.ErrScheduleConflict {
		t.Fatalf("code = %s, want %s", appErr.Code, errors.ErrScheduleConflict)
	}
	if !strings.Contains(appErr.Message, "Ana") || !strings.Contains(appErr.Message, "Client tasting") {
		t.Errorf("message %q does not name the colliding member and event", appErr.Message)
	}
	if !strings.Contains(appErr.Message, "2024-07-02") {
		t.Errorf("message %q does not name the proposed date", appErr.Message)
	}

	if repo.updateCalled {
		t.Error("event row was updated despite the collision")
	}
	if !tx.rolledBack {
		t.Error("transaction was not rolled back")
	}
	if len(queue.syncs)+len(queue.edits) != 0 {
		t.Error("calendar tasks were enqueued for a rejected update")
	}
}

func TestUpdateEventChecksProposedDate(t *testing.T) {
	event := baseEvent()
	repo := &fakeEventRepo{event: event}
	svc := NewEventService(repo, &fakeTransactor{}, &fakeEnqueuer{})

	if _, appErr := svc.UpdateEvent(context.Background(), event.ID, eventScheduleUpdate()); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	// The candidate query must use the proposed date, not the stored one.
	if got := repo.queriedDate.Format("2006-01-02"); got != "2024-07-02" {
		t.Errorf("same-day query used date %s, want 2024-07-02", got)
	}
}

func TestUpdateEventNoCollisionCommits(t *testing.T) {
	event := baseEvent()
	memberID := uuid.New()
	calRef := "cal-evt-3"
	assignment := entity.EventAssignment{EventID: event.ID, MemberID: memberID, CalendarEventID: &calRef}
	assignment.ID = uuid.New()

	repo := &fakeEventRepo{
		event:       event,
		assignments: []entity.EventAssignment{assignment},
		sameDay: []repository.SameDayEventRow{
			// Same day but hours touch the new [14, 16) window without overlap.
			{MemberID: memberID, MemberName: "Ana", EventID: uuid.New(), EventName: "Morning prep", StartHour: 12, EndHour: 14},
		},
	}
	tx := &fakeTransactor{}
	queue := &fakeEnqueuer{}
	svc := NewEventService(repo, tx, queue)

	resp, appErr := svc.UpdateEvent(context.Background(), event.ID, eventScheduleUpdate())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if !tx.committed || !repo.updateCalled {
		t.Error("update did not commit")
	}
	if resp.Date != "2024-07-02" || resp.StartHour != 14 || resp.EndHour != 16 {
		t.Errorf("response window = %s [%d, %d), want 2024-07-02 [14, 16)", resp.Date, resp.StartHour, resp.EndHour)
	}
	if len(queue.edits) != 1 || queue.edits[0].CalendarEventID != calRef {
		t.Errorf("edits = %+v, want one edit for %s", queue.edits, calRef)
	}
}

func TestUpdateEventNonScheduleSkipsCheck(t *testing.T) {
	event := baseEvent()
	repo := &fakeEventRepo{
		event: event,
		sameDay: []repository.SameDayEventRow{
			{MemberID: uuid.New(), MemberName: "Ana", EventID: uuid.New(), EventName: "Overlap", StartHour: 9, EndHour: 11},
		},
	}
	tx := &fakeTransactor{}
	svc := NewEventService(repo, tx, &fakeEnqueuer{})

	resp, appErr := svc.UpdateEvent(context.Background(), event.ID, &dto.UpdateEventRequest{Name: "Renamed"})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if tx.invoked {
		t.Error("non-schedule update opened a transaction")
	}
	if resp.Name != "Renamed" || resp.Date != "2024-07-01" {
		t.Errorf("response = %s / %s", resp.Name, resp.Date)
	}
}

func TestUpdateEventValidation(t *testing.T) {
	event := baseEvent()

	tests := []struct {
		name  string
		patch func(r *dto.UpdateEventRequest)
	}{
		{"malformed date", func(r *dto.UpdateEventRequest) { r.Date = strptr("July 2nd") }},
		{"inverted hours", func(r *dto.UpdateEventRequest) { r.StartHour = intptr(16); r.EndHour = intptr(14) }},
		{"hour past 24", func(r *dto.UpdateEventRequest) { r.EndHour = intptr(30) }},
		{"empty hours", func(r *dto.UpdateEventRequest) { r.StartHour = intptr(10); r.EndHour = intptr(10) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeEventRepo{event: event}
			tx := &fakeTransactor{}
			svc := NewEventService(repo, tx, &fakeEnqueuer{})

			req := eventScheduleUpdate()
			tt.patch(req)

			_, appErr := svc.UpdateEvent(context.Background(), event.ID, req)
			if appErr == nil {
				t.Fatal("expected validation error, got nil")
			}
			if appErr.Code != errors.ErrInvalidRequestData {
				t.Errorf("code = %s, want %s", appErr.Code, errors.ErrInvalidRequestData)
			}
			if tx.invoked {
				t.Error("invalid schedule reached the transaction")
			}
		})
	}
}

func TestCreateEventValidation(t *testing.T) {
	svc := NewEventService(&fakeEventRepo{}, &fakeTransactor{}, &fakeEnqueuer{})

	_, appErr := svc.CreateEvent(context.Background(), &dto.CreateEventRequest{
		CompanyID: uuid.New(),
		Name:      "",
		Date:      "not-a-date",
		StartHour: 12,
		EndHour:   10,
	})
	if appErr == nil || appErr.Code != errors.ErrInvalidRequestData {
		t.Fatalf("appErr = %v, want INVALID_REQUEST_DATA", appErr)
	}
}

func TestAddEventAssignmentDuplicate(t *testing.T) {
	event := baseEvent()
	repo := &fakeEventRepo{event: event, createAssignmentErr: &pq.Error{Code: "23505"}}
	svc := NewEventService(repo, &fakeTransactor{}, &fakeEnqueuer{})

	_, appErr := svc.AddAssignment(context.Background(), event.ID, &dto.AddEventAssignmentRequest{MemberID: uuid.New()})
	if appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Fatalf("appErr = %v, want ALREADY_EXISTS", appErr)
	}
}

func TestRemoveEventAssignmentEnqueuesDelete(t *testing.T) {
	event := baseEvent()
	calRef := "cal-evt-8"
	assignment := entity.EventAssignment{EventID: event.ID, MemberID: uuid.New(), CalendarEventID: &calRef}
	assignment.ID = uuid.New()

	repo := &fakeEventRepo{event: event, assignments: []entity.EventAssignment{assignment}}
	queue := &fakeEnqueuer{}
	svc := NewEventService(repo, &fakeTransactor{}, queue)

	if appErr := svc.RemoveAssignment(context.Background(), event.ID, assignment.ID); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(queue.deletes) != 1 || queue.deletes[0].CalendarEventID != calRef {
		t.Errorf("deletes = %+v, want one delete for %s", queue.deletes, calRef)
	}
}

func TestDescribeHourCollisionsAggregates(t *testing.T) {
	event := baseEvent()
	event.StartHour = 10
	event.EndHour = 14

	rows := []repository.SameDayEventRow{
		{MemberName: "Ana", EventName: "Tasting", StartHour: 13, EndHour: 15},
		{MemberName: "Bo", EventName: "Fitting", StartHour: 16, EndHour: 18}, // disjoint, skipped
		{MemberName: "Cai", EventName: "Scout", StartHour: 9, EndHour: 11},
	}

	msg := describeHourCollisions(event, rows)
	if msg == "" {
		t.Fatal("expected a collision message")
	}
	if !strings.Contains(msg, "Ana") || !strings.Contains(msg, "Cai") {
		t.Errorf("message %q missing colliding members", msg)
	}
	if strings.Contains(msg, "Bo") {
		t.Errorf("message %q names a non-colliding member", msg)
	}

	if got := describeHourCollisions(event, rows[1:2]); got != "" {
		t.Errorf("disjoint row produced message %q", got)
	}
}
