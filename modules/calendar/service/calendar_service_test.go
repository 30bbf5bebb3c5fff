package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"studio-api/core/config"
	"studio-api/core/constants"
	"studio-api/modules/calendar/entity"
	"studio-api/modules/calendar/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("DB_NAME", "test")
	if _, err := config.Load(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeCalendarRepo struct {
	connections map[uuid.UUID]*entity.CalendarConnection
	projectInfo *repository.ProjectSyncInfo
	eventInfo   *repository.EventSyncInfo

	created          *entity.CalendarConnection
	updated          *entity.CalendarConnection
	deactivated      []uuid.UUID
	deleted          []uuid.UUID
	projectRefs      map[uuid.UUID]string
	eventRefs        map[uuid.UUID]string
	companyListCalls int
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{
		connections: map[uuid.UUID]*entity.CalendarConnection{},
		projectRefs: map[uuid.UUID]string{},
		eventRefs:   map[uuid.UUID]string{},
	}
}

func (f *fakeCalendarRepo) CreateConnection(_ context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	f.created = conn
	f.connections[conn.MemberID] = conn
	return conn, nil
}

func (f *fakeCalendarRepo) GetConnectionByMember(_ context.Context, memberID uuid.UUID) (*entity.CalendarConnection, error) {
	return f.connections[memberID], nil
}

func (f *fakeCalendarRepo) GetConnectionsByCompany(_ context.Context, _ uuid.UUID) ([]entity.CalendarConnection, error) {
	f.companyListCalls++
	result := []entity.CalendarConnection{}
	for _, c := range f.connections {
		result = append(result, *c)
	}
	return result, nil
}

func (f *fakeCalendarRepo) UpdateConnection(_ context.Context, conn *entity.CalendarConnection) error {
	f.updated = conn
	f.connections[conn.MemberID] = conn
	return nil
}

func (f *fakeCalendarRepo) DeactivateConnection(_ context.Context, memberID uuid.UUID) error {
	f.deactivated = append(f.deactivated, memberID)
	if c := f.connections[memberID]; c != nil {
		c.IsActive = false
	}
	return nil
}

func (f *fakeCalendarRepo) DeleteConnection(_ context.Context, memberID uuid.UUID) error {
	f.deleted = append(f.deleted, memberID)
	delete(f.connections, memberID)
	return nil
}

func (f *fakeCalendarRepo) GetProjectSyncInfo(_ context.Context, _ uuid.UUID) (*repository.ProjectSyncInfo, error) {
	return f.projectInfo, nil
}

func (f *fakeCalendarRepo) GetEventSyncInfo(_ context.Context, _ uuid.UUID) (*repository.EventSyncInfo, error) {
	return f.eventInfo, nil
}

func (f *fakeCalendarRepo) SetProjectAssignmentRef(_ context.Context, assignmentID uuid.UUID, calendarEventID string) error {
	f.projectRefs[assignmentID] = calendarEventID
	return nil
}

func (f *fakeCalendarRepo) SetEventAssignmentRef(_ context.Context, assignmentID uuid.UUID, calendarEventID string) error {
	f.eventRefs[assignmentID] = calendarEventID
	return nil
}

func newTestService(repo repository.CalendarRepositoryInterface, apiBase, tokenURL, userinfoURL string) *CalendarService {
	return &CalendarService{
		repo:        repo,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		apiBase:     apiBase,
		tokenURL:    tokenURL,
		userinfoURL: userinfoURL,
	}
}

func activeConn(memberID uuid.UUID) *entity.CalendarConnection {
	return &entity.CalendarConnection{
		MemberID:       memberID,
		Provider:       constants.ProviderGoogle,
		AccessToken:    "valid-token",
		RefreshToken:   "refresh-token",
		TokenExpiresAt: time.Now().Add(time.Hour),
		IsActive:       true,
	}
}

func datePtr(t time.Time) *time.Time { return &t }

func TestSyncToCalendarStoresProjectRef(t *testing.T) {
	memberID := uuid.New()
	assignmentID := uuid.New()
	repo := newFakeCalendarRepo()
	repo.connections[memberID] = activeConn(memberID)
	repo.projectInfo = &repository.ProjectSyncInfo{
		Name:      "Harbor wedding",
		StartDate: datePtr(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)),
		EndDate:   datePtr(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)),
		StartHour: 9,
		EndHour:   17,
	}

	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"id": "gcal-123"})
	}))
	defer srv.Close()

	svc := newTestService(repo, srv.URL, srv.URL+"/token", srv.URL+"/userinfo")
	err := svc.SyncToCalendar(context.Background(), memberID, constants.EntityTypeProject, uuid.New(), assignmentID)
	if err != nil {
		t.Fatalf("SyncToCalendar() error = %v", err)
	}

	if gotAuth != "Bearer valid-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["summary"] != "Harbor wedding" {
		t.Errorf("summary = %v", gotBody["summary"])
	}
	start, _ := gotBody["start"].(map[string]any)
	if start["dateTime"] != "2024-06-03T09:00:00Z" {
		t.Errorf("start.dateTime = %v", start["dateTime"])
	}
	end, _ := gotBody["end"].(map[string]any)
	if end["dateTime"] != "2024-06-05T17:00:00Z" {
		t.Errorf("end.dateTime = %v", end["dateTime"])
	}
	if repo.projectRefs[assignmentID] != "gcal-123" {
		t.Errorf("stored ref = %q, want gcal-123", repo.projectRefs[assignmentID])
	}
}

func TestSyncToCalendarEventUsesSingleDay(t *testing.T) {
	memberID := uuid.New()
	assignmentID := uuid.New()
	repo := newFakeCalendarRepo()
	repo.connections[memberID] = activeConn(memberID)
	repo.eventInfo = &repository.EventSyncInfo{
		Name:      "Client tasting",
		Date:      time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC),
		StartHour: 15,
		EndHour:   17,
	}

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"id": "gcal-evt-9"})
	}))
	defer srv.Close()

	svc := newTestService(repo, srv.URL, srv.URL+"/token", srv.URL+"/userinfo")
	if err := svc.SyncToCalendar(context.Background(), memberID, constants.EntityTypeEvent, uuid.New(), assignmentID); err != nil {
		t.Fatalf("SyncToCalendar() error = %v", err)
	}

	start, _ := gotBody["start"].(map[string]any)
	end, _ := gotBody["end"].(map[string]any)
	if start["dateTime"] != "2024-07-02T15:00:00Z" || end["dateTime"] != "2024-07-02T17:00:00Z" {
		t.Errorf("window = %v .. %v", start["dateTime"], end["dateTime"])
	}
	if repo.eventRefs[assignmentID] != "gcal-evt-9" {
		t.Errorf("stored ref = %q", repo.eventRefs[assignmentID])
	}
}

func TestSyncToCalendarSkipsOpenEndedProject(t *testing.T) {
	memberID := uuid.New()
	repo := newFakeCalendarRepo()
	repo.connections[memberID] = activeConn(memberID)
	repo.projectInfo = &repository.ProjectSyncInfo{Name: "Ongoing retainer", StartHour: 9, EndHour: 17}

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	svc := newTestService(repo, srv.URL, srv.URL+"/token", srv.URL+"/userinfo")
	if err := svc.SyncToCalendar(context.Background(), memberID, constants.EntityTypeProject, uuid.New(), uuid.New()); err != nil {
		t.Fatalf("SyncToCalendar() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("API calls = %d, want 0", calls)
	}
	if len(repo.projectRefs) != 0 {
		t.Errorf("unexpected stored refs: %v", repo.projectRefs)
	}
}

func TestSyncToCalendarSkipsWithoutConnection(t *testing.T) {
	repo := newFakeCalendarRepo()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	svc := newTestService(repo, srv.URL, srv.URL+"/token", srv.URL+"/userinfo")
	if err := svc.SyncToCalendar(context.Background(), uuid.New(), constants.EntityTypeProject, uuid.New(), uuid.New()); err != nil {
		t.Fatalf("SyncToCalendar() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("API calls = %d, want 0", calls)
	}
}

func TestEnsureValidTokenRefreshesExpired(t *testing.T) {
	memberID := uuid.New()
	repo := newFakeCalendarRepo()
	conn := activeConn(memberID)
	conn.AccessToken = "stale-token"
	conn.TokenExpiresAt = time.Now().Add(-time.Minute)
	repo.connections[memberID] = conn
	repo.eventInfo = &repository.EventSyncInfo{
		Name:      "Rehearsal",
		Date:      time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC),
		StartHour: 10,
		EndHour:   12,
	}

	var eventAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if got := r.FormValue("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.FormValue("refresh_token"); got != "refresh-token" {
			t.Errorf("refresh_token = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"access_token": "fresh-token", "expires_in": 3600})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		eventAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"id": "gcal-1"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := newTestService(repo, srv.URL, srv.URL+"/token", srv.URL+"/userinfo")
	if err := svc.SyncToCalendar(context.Background(), memberID, constants.EntityTypeEvent, uuid.New(), uuid.New()); err != nil {
		t.Fatalf("SyncToCalendar() error = %v", err)
	}

	if eventAuth != "Bearer fresh-token" {
		t.Errorf("Authorization = %q, want refreshed token", eventAuth)
	}
	if repo.updated == nil || repo.updated.AccessToken != "fresh-token" {
		t.Errorf("connection not persisted with refreshed token: %+v", repo.updated)
	}
	if !repo.updated.TokenExpiresAt.After(time.Now().Add(30 * time.Minute)) {
		t.Errorf("TokenExpiresAt not advanced: %v", repo.updated.TokenExpiresAt)
	}
}

func TestEnsureValidTokenFailureDeactivates(t *testing.T) {
	memberID := uuid.New()
	repo := newFakeCalendarRepo()
	conn := activeConn(memberID)
	conn.TokenExpiresAt = time.Now().Add(-time.Minute)
	repo.connections[memberID] = conn
	repo.eventInfo = &repository.EventSyncInfo{
		Name:      "Rehearsal",
		Date:      time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC),
		StartHour: 10,
		EndHour:   12,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Error("events API called after failed refresh")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := newTestService(repo, srv.URL, srv.URL+"/token", srv.URL+"/userinfo")
	err := svc.SyncToCalendar(context.Background(), memberID, constants.EntityTypeEvent, uuid.New(), uuid.New())
	if err == nil {
		t.Fatal("SyncToCalendar() expected error after failed refresh")
	}

	if len(repo.deactivated) != 1 || repo.deactivated[0] != memberID {
		t.Errorf("deactivated = %v, want [%s]", repo.deactivated, memberID)
	}
}

func TestEditEventPatchesExisting(t *testing.T) {
	memberID := uuid.New()
	repo := newFakeCalendarRepo()
	repo.connections[memberID] = activeConn(memberID)
	repo.eventInfo = &repository.EventSyncInfo{
		Name:      "Moved tasting",
		Date:      time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
		StartHour: 11,
		EndHour:   13,
	}

	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{"id": "gcal-55"})
	}))
	defer srv.Close()

	svc := newTestService(repo, srv.URL, srv.URL+"/token", srv.URL+"/userinfo")
	if err := svc.EditEvent(context.Background(), memberID, constants.EntityTypeEvent, uuid.New(), "gcal-55"); err != nil {
		t.Fatalf("EditEvent() error = %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("method = %s, want PATCH", gotMethod)
	}
	if gotPath != "/gcal-55" {
		t.Errorf("path = %s, want /gcal-55", gotPath)
	}
}

func TestDeleteEventToleratesMissing(t *testing.T) {
	memberID := uuid.New()
	repo := newFakeCalendarRepo()
	repo.connections[memberID] = activeConn(memberID)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	svc := newTestService(repo, srv.URL, srv.URL+"/token", srv.URL+"/userinfo")
	if err := svc.DeleteEvent(context.Background(), memberID, "gcal-gone"); err != nil {
		t.Errorf("DeleteEvent() error = %v, want nil for missing event", err)
	}
}

func TestSaveGoogleConnectionCreatesThenUpdates(t *testing.T) {
	memberID := uuid.New()
	repo := newFakeCalendarRepo()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"email": "ana@example.com"})
	}))
	defer srv.Close()

	svc := newTestService(repo, srv.URL, srv.URL+"/token", srv.URL)
	first := &oauth2.Token{
		AccessToken:  "token-1",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(time.Hour),
	}
	if err := svc.SaveGoogleConnection(context.Background(), memberID, first); err != nil {
		t.Fatalf("SaveGoogleConnection() error = %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected a new connection")
	}
	if repo.created.CalendarEmail != "ana@example.com" {
		t.Errorf("CalendarEmail = %q", repo.created.CalendarEmail)
	}
	if !repo.created.IsActive {
		t.Error("new connection should be active")
	}

	// Reconnect without a refresh token keeps the stored one.
	repo.connections[memberID].IsActive = false
	second := &oauth2.Token{
		AccessToken: "token-2",
		Expiry:      time.Now().Add(2 * time.Hour),
	}
	if err := svc.SaveGoogleConnection(context.Background(), memberID, second); err != nil {
		t.Fatalf("SaveGoogleConnection() reconnect error = %v", err)
	}
	if repo.updated == nil {
		t.Fatal("expected an update on reconnect")
	}
	if repo.updated.AccessToken != "token-2" {
		t.Errorf("AccessToken = %q", repo.updated.AccessToken)
	}
	if repo.updated.RefreshToken != "refresh-1" {
		t.Errorf("RefreshToken = %q, want preserved refresh-1", repo.updated.RefreshToken)
	}
	if !repo.updated.IsActive {
		t.Error("reconnect should reactivate the connection")
	}
}

func TestDisconnectRemovesConnection(t *testing.T) {
	memberID := uuid.New()
	repo := newFakeCalendarRepo()
	repo.connections[memberID] = activeConn(memberID)

	svc := newTestService(repo, "http://unused", "http://unused", "http://unused")
	if err := svc.Disconnect(context.Background(), memberID); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != memberID {
		t.Errorf("deleted = %v", repo.deleted)
	}

	connected, err := svc.HasActiveConnection(context.Background(), memberID)
	if err != nil {
		t.Fatalf("HasActiveConnection() error = %v", err)
	}
	if connected {
		t.Error("member should no longer be connected")
	}
}
