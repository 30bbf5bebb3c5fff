package service

import (
	"context"
	"reflect"
	"testing"

	"studio-api/modules/schedule/dto"
	"studio-api/modules/schedule/repository"

	"github.com/google/uuid"
)

type fakeScheduleRepo struct {
	companyExists bool
	rows          []repository.MemberAssignmentRow

	lastExclude *uuid.UUID
	calls       int
}

func (f *fakeScheduleRepo) CompanyExists(ctx context.Context, companyID uuid.UUID) (bool, error) {
	return f.companyExists, nil
}

func (f *fakeScheduleRepo) GetMemberAssignments(ctx context.Context, companyID uuid.UUID, excludeProjectID *uuid.UUID) ([]repository.MemberAssignmentRow, error) {
	f.calls++
	f.lastExclude = excludeProjectID
	return f.rows, nil
}

func strptr(s string) *string { return &s }
func intptr(n int) *int       { return &n }

func assignmentRow(memberID uuid.UUID, name string, projectID uuid.UUID, projectName, start, end string, startHour, endHour int) repository.MemberAssignmentRow {
	row := repository.MemberAssignmentRow{
		MemberID:    memberID,
		FullName:    name,
		Email:       name + "@studio.test",
		ProjectID:   &projectID,
		ProjectName: strptr(projectName),
		StartHour:   intptr(startHour),
		EndHour:     intptr(endHour),
	}
	if start != "" {
		row.StartDate = day(start)
	}
	if end != "" {
		row.EndDate = day(end)
	}
	return row
}

func validRequest(companyID uuid.UUID) *dto.AvailabilityRequest {
	return &dto.AvailabilityRequest{
		CompanyID: companyID,
		StartDate: "2024-06-03",
		EndDate:   "2024-06-05",
		StartHour: 18,
		EndHour:   20,
	}
}

func TestGetAvailableMembersValidation(t *testing.T) {
	companyID := uuid.New()
	svc := NewAvailabilityService(&fakeScheduleRepo{companyExists: true})

	tests := []struct {
		name   string
		mutate func(*dto.AvailabilityRequest)
	}{
		{"missing company", func(r *dto.AvailabilityRequest) { r.CompanyID = uuid.Nil }},
		{"bad start date", func(r *dto.AvailabilityRequest) { r.StartDate = "06/03/2024" }},
		{"bad end date", func(r *dto.AvailabilityRequest) { r.EndDate = "" }},
		{"end before start", func(r *dto.AvailabilityRequest) { r.StartDate = "2024-06-10" }},
		{"start hour out of range", func(r *dto.AvailabilityRequest) { r.StartHour = -1 }},
		{"end hour out of range", func(r *dto.AvailabilityRequest) { r.EndHour = 25 }},
		{"start hour not before end", func(r *dto.AvailabilityRequest) { r.StartHour = 20; r.EndHour = 20 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(companyID)
			tt.mutate(req)

			_, appErr := svc.GetAvailableMembers(context.Background(), req)
			if appErr == nil {
				t.Fatal("expected validation error, got nil")
			}
			if appErr.Details == nil {
				t.Error("validation error should identify the offending field")
			}
		})
	}
}

func TestGetAvailableMembersCompanyNotFound(t *testing.T) {
	svc := NewAvailabilityService(&fakeScheduleRepo{companyExists: false})

	_, appErr := svc.GetAvailableMembers(context.Background(), validRequest(uuid.New()))
	if appErr == nil || appErr.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", appErr)
	}
}

// Member M has project P1 on 2024-06-01..2024-06-03, hours 9..17. A request
// for 2024-06-03..2024-06-05 hours 18..20 shares June 3 but no hours, so M
// is partially available with one date_only conflict referencing P1.
func TestGetAvailableMembersDateOnlyConflict(t *testing.T) {
	companyID := uuid.New()
	memberID := uuid.New()
	projectID := uuid.New()

	repo := &fakeScheduleRepo{
		companyExists: true,
		rows: []repository.MemberAssignmentRow{
			assignmentRow(memberID, "mira", projectID, "Wedding Shoot", "2024-06-01", "2024-06-03", 9, 17),
		},
	}
	svc := NewAvailabilityService(repo)

	report, appErr := svc.GetAvailableMembers(context.Background(), validRequest(companyID))
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	if len(report.Members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(report.Members))
	}
	m := report.Members[0]
	if m.Status != dto.StatusPartiallyAvailable {
		t.Errorf("status = %s, want %s", m.Status, dto.StatusPartiallyAvailable)
	}
	if len(m.Conflicts) != 1 || m.Conflicts[0].Kind != dto.ConflictDateOnly {
		t.Fatalf("expected one date_only conflict, got %+v", m.Conflicts)
	}
	if m.Conflicts[0].ProjectID != projectID {
		t.Error("conflict should reference the overlapping project")
	}
	if report.Counts.PartiallyAvailable != 1 || report.Counts.Total != 1 {
		t.Errorf("counts = %+v", report.Counts)
	}
}

// Same member and project, but a request for 2024-06-02 hours 10..12
// overlaps both dimensions, so M is unavailable with one date_and_time
// conflict.
func TestGetAvailableMembersDateAndTimeConflict(t *testing.T) {
	companyID := uuid.New()
	memberID := uuid.New()
	projectID := uuid.New()

	repo := &fakeScheduleRepo{
		companyExists: true,
		rows: []repository.MemberAssignmentRow{
			assignmentRow(memberID, "mira", projectID, "Wedding Shoot", "2024-06-01", "2024-06-03", 9, 17),
		},
	}
	svc := NewAvailabilityService(repo)

	req := validRequest(companyID)
	req.StartDate = "2024-06-02"
	req.EndDate = "2024-06-02"
	req.StartHour = 10
	req.EndHour = 12

	report, appErr := svc.GetAvailableMembers(context.Background(), req)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	m := report.Members[0]
	if m.Status != dto.StatusUnavailable {
		t.Errorf("status = %s, want %s", m.Status, dto.StatusUnavailable)
	}
	if len(m.Conflicts) != 1 || m.Conflicts[0].Kind != dto.ConflictDateAndTime {
		t.Fatalf("expected one date_and_time conflict, got %+v", m.Conflicts)
	}
	if report.Counts.Unavailable != 1 {
		t.Errorf("counts = %+v", report.Counts)
	}
}

// A date_and_time conflict dominates: the reported conflict list holds only
// the date_and_time records even when date_only records exist too.
func TestGetAvailableMembersDateAndTimeDominates(t *testing.T) {
	companyID := uuid.New()
	memberID := uuid.New()
	hardID := uuid.New()

	repo := &fakeScheduleRepo{
		companyExists: true,
		rows: []repository.MemberAssignmentRow{
			assignmentRow(memberID, "mira", uuid.New(), "Morning Shoot", "2024-06-03", "2024-06-04", 6, 8),
			assignmentRow(memberID, "mira", hardID, "Evening Shoot", "2024-06-03", "2024-06-04", 17, 21),
		},
	}
	svc := NewAvailabilityService(repo)

	report, appErr := svc.GetAvailableMembers(context.Background(), validRequest(companyID))
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	m := report.Members[0]
	if m.Status != dto.StatusUnavailable {
		t.Fatalf("status = %s, want unavailable", m.Status)
	}
	if len(m.Conflicts) != 1 || m.Conflicts[0].ProjectID != hardID {
		t.Fatalf("expected only the date_and_time conflict, got %+v", m.Conflicts)
	}
}

// An open-ended project (start set, end null) conflicts with any window
// ending on or after its start.
func TestGetAvailableMembersOpenEndedProject(t *testing.T) {
	companyID := uuid.New()
	memberID := uuid.New()

	repo := &fakeScheduleRepo{
		companyExists: true,
		rows: []repository.MemberAssignmentRow{
			assignmentRow(memberID, "mira", uuid.New(), "Retainer", "2024-06-01", "", 18, 20),
		},
	}
	svc := NewAvailabilityService(repo)

	report, appErr := svc.GetAvailableMembers(context.Background(), validRequest(companyID))
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if report.Members[0].Status != dto.StatusUnavailable {
		t.Errorf("open-ended project should conflict, got %s", report.Members[0].Status)
	}
}

func TestGetAvailableMembersNoAssignments(t *testing.T) {
	companyID := uuid.New()
	memberID := uuid.New()

	repo := &fakeScheduleRepo{
		companyExists: true,
		rows: []repository.MemberAssignmentRow{
			{MemberID: memberID, FullName: "jo", Email: "jo@studio.test"},
		},
	}
	svc := NewAvailabilityService(repo)

	report, appErr := svc.GetAvailableMembers(context.Background(), validRequest(companyID))
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	m := report.Members[0]
	if m.Status != dto.StatusFullyAvailable || len(m.Conflicts) != 0 {
		t.Errorf("member with no assignments should be fully available, got %+v", m)
	}
}

// The exclude project id is pushed down to the repository so the project
// being edited never conflicts with itself.
func TestGetAvailableMembersExcludePushdown(t *testing.T) {
	companyID := uuid.New()
	exclude := uuid.New()

	repo := &fakeScheduleRepo{companyExists: true}
	svc := NewAvailabilityService(repo)

	req := validRequest(companyID)
	req.ExcludeProjectID = &exclude

	if _, appErr := svc.GetAvailableMembers(context.Background(), req); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if repo.lastExclude == nil || *repo.lastExclude != exclude {
		t.Error("exclude_project_id not forwarded to repository")
	}
}

// Identical inputs with no writes in between yield identical reports.
func TestGetAvailableMembersIdempotent(t *testing.T) {
	companyID := uuid.New()
	memberID := uuid.New()

	repo := &fakeScheduleRepo{
		companyExists: true,
		rows: []repository.MemberAssignmentRow{
			assignmentRow(memberID, "mira", uuid.New(), "Wedding Shoot", "2024-06-01", "2024-06-03", 9, 17),
		},
	}
	svc := NewAvailabilityService(repo)

	first, appErr := svc.GetAvailableMembers(context.Background(), validRequest(companyID))
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	second, appErr := svc.GetAvailableMembers(context.Background(), validRequest(companyID))
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("availability evaluation is not idempotent")
	}
}

func TestGetAvailableMembersOrderingStable(t *testing.T) {
	companyID := uuid.New()
	a, b := uuid.New(), uuid.New()

	repo := &fakeScheduleRepo{
		companyExists: true,
		rows: []repository.MemberAssignmentRow{
			{MemberID: a, FullName: "alice", Email: "alice@studio.test"},
			{MemberID: b, FullName: "bob", Email: "bob@studio.test"},
		},
	}
	svc := NewAvailabilityService(repo)

	report, appErr := svc.GetAvailableMembers(context.Background(), validRequest(companyID))
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	got := []uuid.UUID{report.Members[0].MemberID, report.Members[1].MemberID}
	want := []uuid.UUID{a, b}
	if !reflect.DeepEqual(got, want) {
		t.Error("members should keep repository ordering")
	}
}
