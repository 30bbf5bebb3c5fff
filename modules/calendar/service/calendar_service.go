package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"studio-api/core/config"
	"studio-api/core/constants"
	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/modules/calendar/dto"
	"studio-api/modules/calendar/entity"
	"studio-api/modules/calendar/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"
	googleEventsAPI       = googleCalendarAPIBase + "/calendars/primary/events"
	googleTokenAPI        = "https://oauth2.googleapis.com/token"
	googleUserinfoAPI     = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// tokenSkew refreshes access tokens slightly before their recorded expiry
// so in-flight API calls never race the deadline.
const tokenSkew = 5 * time.Minute

type CalendarService struct {
	repo        repository.CalendarRepositoryInterface
	httpClient  *http.Client
	apiBase     string
	tokenURL    string
	userinfoURL string
}

type CalendarServiceInterface interface {
	SaveGoogleConnection(ctx context.Context, memberID uuid.UUID, token *oauth2.Token) error
	GetConnections(ctx context.Context, companyID uuid.UUID) ([]dto.CalendarConnectionResponse, error)
	HasActiveConnection(ctx context.Context, memberID uuid.UUID) (bool, error)
	Disconnect(ctx context.Context, memberID uuid.UUID) error

	SyncToCalendar(ctx context.Context, memberID uuid.UUID, entityType string, entityID, assignmentID uuid.UUID) error
	EditEvent(ctx context.Context, memberID uuid.UUID, entityType string, entityID uuid.UUID, calendarEventID string) error
	DeleteEvent(ctx context.Context, memberID uuid.UUID, calendarEventID string) error
}

func NewCalendarService(repo repository.CalendarRepositoryInterface) CalendarServiceInterface {
	return &CalendarService{
		repo:        repo,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		apiBase:     googleEventsAPI,
		tokenURL:    googleTokenAPI,
		userinfoURL: googleUserinfoAPI,
	}
}

// SaveGoogleConnection upserts the member's Google connection after an OAuth
// exchange. A reconnect overwrites the stored tokens and reactivates the row.
func (s *CalendarService) SaveGoogleConnection(ctx context.Context, memberID uuid.UUID, token *oauth2.Token) error {
	email := s.fetchCalendarEmail(token.AccessToken)

	existing, err := s.repo.GetConnectionByMember(ctx, memberID)
	if err != nil {
		return err
	}

	if existing != nil {
		existing.AccessToken = token.AccessToken
		if token.RefreshToken != "" {
			existing.RefreshToken = token.RefreshToken
		}
		existing.TokenExpiresAt = token.Expiry
		if email != "" {
			existing.CalendarEmail = email
		}
		existing.IsActive = true
		return s.repo.UpdateConnection(ctx, existing)
	}

	_, err = s.repo.CreateConnection(ctx, &entity.CalendarConnection{
		MemberID:       memberID,
		Provider:       constants.ProviderGoogle,
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		TokenExpiresAt: token.Expiry,
		CalendarEmail:  email,
		IsActive:       true,
	})
	if err != nil {
		return err
	}

	logger.Info("CalendarService:SaveGoogleConnection", "member_id", memberID)
	return nil
}

func (s *CalendarService) fetchCalendarEmail(accessToken string) string {
	req, err := http.NewRequest(http.MethodGet, s.userinfoURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Warn("CalendarService:fetchCalendarEmail", "error", err)
		return ""
	}
	defer resp.Body.Close()

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return ""
	}
	return info.Email
}

func (s *CalendarService) GetConnections(ctx context.Context, companyID uuid.UUID) ([]dto.CalendarConnectionResponse, error) {
	connections, err := s.repo.GetConnectionsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.CalendarConnectionResponse, 0, len(connections))
	for i := range connections {
		result = append(result, dto.ToConnectionResponse(&connections[i]))
	}
	return result, nil
}

func (s *CalendarService) HasActiveConnection(ctx context.Context, memberID uuid.UUID) (bool, error) {
	conn, err := s.repo.GetConnectionByMember(ctx, memberID)
	if err != nil {
		return false, err
	}
	return conn != nil && conn.IsActive, nil
}

func (s *CalendarService) Disconnect(ctx context.Context, memberID uuid.UUID) error {
	return s.repo.DeleteConnection(ctx, memberID)
}

// SyncToCalendar mirrors a fresh assignment onto the member's calendar and
// records the resulting external event id on the assignment row. Members
// without an active connection are skipped silently.
func (s *CalendarService) SyncToCalendar(ctx context.Context, memberID uuid.UUID, entityType string, entityID, assignmentID uuid.UUID) error {
	conn, err := s.activeConnection(ctx, memberID)
	if err != nil || conn == nil {
		return err
	}

	payload, ok, err := s.buildEventPayload(ctx, entityType, entityID)
	if err != nil || !ok {
		return err
	}

	accessToken, err := s.ensureValidToken(ctx, conn)
	if err != nil {
		return err
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("google calendar create failed: %s", string(raw))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if result.ID == "" {
		return fmt.Errorf("google calendar create returned no event id")
	}

	switch entityType {
	case constants.EntityTypeProject:
		err = s.repo.SetProjectAssignmentRef(ctx, assignmentID, result.ID)
	case constants.EntityTypeEvent:
		err = s.repo.SetEventAssignmentRef(ctx, assignmentID, result.ID)
	default:
		err = fmt.Errorf("unknown entity type %q", entityType)
	}
	if err != nil {
		return err
	}

	logger.Info("CalendarService:SyncToCalendar", "member_id", memberID, "entity_type", entityType, "calendar_event_id", result.ID)
	return nil
}

// EditEvent pushes the current schedule of a project or event to an already
// synced calendar entry.
func (s *CalendarService) EditEvent(ctx context.Context, memberID uuid.UUID, entityType string, entityID uuid.UUID, calendarEventID string) error {
	conn, err := s.activeConnection(ctx, memberID)
	if err != nil || conn == nil {
		return err
	}

	payload, ok, err := s.buildEventPayload(ctx, entityType, entityID)
	if err != nil || !ok {
		return err
	}

	accessToken, err := s.ensureValidToken(ctx, conn)
	if err != nil {
		return err
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.apiBase+"/"+calendarEventID, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		logger.Warn("CalendarService:EditEvent:Missing", "calendar_event_id", calendarEventID)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("google calendar edit failed: %s", string(raw))
	}

	logger.Info("CalendarService:EditEvent", "member_id", memberID, "calendar_event_id", calendarEventID)
	return nil
}

// DeleteEvent removes a synced calendar entry. Already-deleted entries are
// treated as success.
func (s *CalendarService) DeleteEvent(ctx context.Context, memberID uuid.UUID, calendarEventID string) error {
	conn, err := s.activeConnection(ctx, memberID)
	if err != nil || conn == nil {
		return err
	}

	accessToken, err := s.ensureValidToken(ctx, conn)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.apiBase+"/"+calendarEventID, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK, http.StatusNotFound, http.StatusGone:
		logger.Info("CalendarService:DeleteEvent", "member_id", memberID, "calendar_event_id", calendarEventID)
		return nil
	default:
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("google calendar delete failed: %s", string(raw))
	}
}

func (s *CalendarService) activeConnection(ctx context.Context, memberID uuid.UUID) (*entity.CalendarConnection, error) {
	conn, err := s.repo.GetConnectionByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if conn == nil || !conn.IsActive {
		logger.Info("CalendarService:NoActiveConnection", "member_id", memberID)
		return nil, nil
	}
	return conn, nil
}

// buildEventPayload resolves the entity into a Google Calendar event body.
// Returns ok=false when the entity no longer exists or has no concrete
// dates to place on a calendar.
func (s *CalendarService) buildEventPayload(ctx context.Context, entityType string, entityID uuid.UUID) (map[string]any, bool, error) {
	switch entityType {
	case constants.EntityTypeProject:
		info, err := s.repo.GetProjectSyncInfo(ctx, entityID)
		if err != nil {
			return nil, false, err
		}
		if info == nil {
			logger.Warn("CalendarService:buildEventPayload:ProjectGone", "project_id", entityID)
			return nil, false, nil
		}
		if info.StartDate == nil || info.EndDate == nil {
			logger.Info("CalendarService:buildEventPayload:OpenEnded", "project_id", entityID)
			return nil, false, nil
		}
		start := atHour(*info.StartDate, info.StartHour)
		end := atHour(*info.EndDate, info.EndHour)
		return eventBody(info.Name, info.Description, start, end), true, nil

	case constants.EntityTypeEvent:
		info, err := s.repo.GetEventSyncInfo(ctx, entityID)
		if err != nil {
			return nil, false, err
		}
		if info == nil {
			logger.Warn("CalendarService:buildEventPayload:EventGone", "event_id", entityID)
			return nil, false, nil
		}
		start := atHour(info.Date, info.StartHour)
		end := atHour(info.Date, info.EndHour)
		return eventBody(info.Name, info.Description, start, end), true, nil

	default:
		return nil, false, fmt.Errorf("unknown entity type %q", entityType)
	}
}

func atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).Add(time.Duration(hour) * time.Hour)
}

func eventBody(name string, description *string, start, end time.Time) map[string]any {
	body := map[string]any{
		"summary": name,
		"start":   map[string]string{"dateTime": start.Format(time.RFC3339), "timeZone": "UTC"},
		"end":     map[string]string{"dateTime": end.Format(time.RFC3339), "timeZone": "UTC"},
	}
	if description != nil && *description != "" {
		body["description"] = *description
	}
	return body
}

// ensureValidToken returns a usable access token, refreshing through the
// OAuth token endpoint when the stored one is near expiry. A failed refresh
// deactivates the connection so the member can be prompted to reconnect.
func (s *CalendarService) ensureValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, error) {
	if time.Now().Before(conn.TokenExpiresAt.Add(-tokenSkew)) {
		return conn.AccessToken, nil
	}

	cfg, ok := config.GetSafe()
	if !ok {
		return "", fmt.Errorf("config not loaded")
	}

	data := url.Values{}
	data.Set("client_id", cfg.GoogleAPI.ClientID)
	data.Set("client_secret", cfg.GoogleAPI.ClientSecret)
	data.Set("refresh_token", conn.RefreshToken)
	data.Set("grant_type", "refresh_token")

	resp, err := s.httpClient.PostForm(s.tokenURL, data)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		AccessToken      string `json:"access_token"`
		ExpiresIn        int    `json:"expires_in"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if result.Error != "" || result.AccessToken == "" {
		logger.Warn("CalendarService:ensureValidToken:RefreshFailed",
			"member_id", conn.MemberID, "error", result.Error, "description", result.ErrorDescription)
		if err := s.repo.DeactivateConnection(ctx, conn.MemberID); err != nil {
			logger.Error("CalendarService:ensureValidToken:Deactivate", err)
		}
		return "", errors.NewAppError(errors.ErrUnauthorized, "Calendar token refresh failed", nil)
	}

	if result.ExpiresIn == 0 {
		result.ExpiresIn = 3600
	}

	conn.AccessToken = result.AccessToken
	conn.TokenExpiresAt = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	if err := s.repo.UpdateConnection(ctx, conn); err != nil {
		logger.Error("CalendarService:ensureValidToken:Update", err)
	}

	return result.AccessToken, nil
}
