package service

import (
	"context"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"studio-api/core/config"
	"studio-api/core/errors"
	"studio-api/modules/auth/dto"
	"studio-api/modules/auth/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
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

// ===================== Fakes =====================

type fakeAuthRepo struct {
	usersByEmail map[string]*entity.User
	states       map[string]*entity.OAuthState

	duplicateEmail bool
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		usersByEmail: map[string]*entity.User{},
		states:       map[string]*entity.OAuthState{},
	}
}

func pqUniqueErr() error {
	return &pq.Error{Code: "23505"}
}

func (f *fakeAuthRepo) CreateUser(ctx context.Context, u *entity.User) (*entity.User, error) {
	if f.duplicateEmail || f.usersByEmail[u.Email] != nil {
		return nil, pqUniqueErr()
	}
	created := *u
	created.ID = uuid.New()
	f.usersByEmail[created.Email] = &created
	return &created, nil
}

func (f *fakeAuthRepo) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return f.usersByEmail[email], nil
}

func (f *fakeAuthRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.usersByEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeAuthRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	for _, u := range f.usersByEmail {
		if u.ID == id {
			u.PasswordHash = hash
		}
	}
	return nil
}

func (f *fakeAuthRepo) CreateOAuthState(ctx context.Context, s *entity.OAuthState) error {
	f.states[s.State] = s
	return nil
}

func (f *fakeAuthRepo) ConsumeOAuthState(ctx context.Context, state string) (*entity.OAuthState, error) {
	row := f.states[state]
	if row == nil || row.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	delete(f.states, state)
	return row, nil
}

type fakeCache struct {
	blacklist map[string]bool
	otps      map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{blacklist: map[string]bool{}, otps: map[string]string{}}
}

func (f *fakeCache) AddToTokenBlacklist(ctx context.Context, token string) error {
	f.blacklist[token] = true
	return nil
}

func (f *fakeCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return f.blacklist[token], nil
}

func (f *fakeCache) SetOTP(ctx context.Context, key, code string) error {
	f.otps[key] = code
	return nil
}

func (f *fakeCache) GetOTP(ctx context.Context, key string) (string, error) {
	return f.otps[key], nil
}

func (f *fakeCache) Close() error { return nil }

type fakeMailer struct {
	otpTo   []string
	lastOTP string
}

func (f *fakeMailer) SendMemberInvite(to, memberName, companyName, inviteURL string) error {
	return nil
}

func (f *fakeMailer) SendPasswordOTP(to, code string) error {
	f.otpTo = append(f.otpTo, to)
	f.lastOTP = code
	return nil
}

type fakeConnector struct {
	saved map[uuid.UUID]*oauth2.Token
}

func (f *fakeConnector) SaveGoogleConnection(ctx context.Context, memberID uuid.UUID, token *oauth2.Token) error {
	if f.saved == nil {
		f.saved = map[uuid.UUID]*oauth2.Token{}
	}
	f.saved[memberID] = token
	return nil
}

func newService(repo *fakeAuthRepo, c *fakeCache, m *fakeMailer) AuthServiceInterface {
	return NewAuthService(repo, c, m, &fakeConnector{}, config.GoogleAPIConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost/callback",
	})
}

// ===================== Tests =====================

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := newService(repo, newFakeCache(), &fakeMailer{})

	reg, appErr := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "Owner@Example.COM",
		Password: "supersecret",
		FullName: "Studio Owner",
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if reg.AccessToken == "" {
		t.Error("no access token issued")
	}
	if reg.User.Email != "owner@example.com" {
		t.Errorf("email = %s, want lowercased", reg.User.Email)
	}

	login, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "owner@example.com",
		Password: "supersecret",
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if login.User.ID != reg.User.ID {
		t.Error("login resolved a different user")
	}

	_, appErr = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "owner@example.com",
		Password: "wrongpassword",
	})
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("appErr = %v, want UNAUTHORIZED", appErr)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newService(newFakeAuthRepo(), newFakeCache(), &fakeMailer{})

	_, appErr := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "not-an-email",
		Password: "short",
		FullName: " ",
	})
	if appErr == nil || appErr.Code != errors.ErrInvalidRequestData {
		t.Fatalf("appErr = %v, want INVALID_REQUEST_DATA", appErr)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.duplicateEmail = true
	svc := newService(repo, newFakeCache(), &fakeMailer{})

	_, appErr := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "owner@example.com",
		Password: "supersecret",
		FullName: "Studio Owner",
	})
	if appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Fatalf("appErr = %v, want ALREADY_EXISTS", appErr)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	repo := newFakeAuthRepo()
	c := newFakeCache()
	mail := &fakeMailer{}
	svc := newService(repo, c, mail)

	if _, appErr := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "owner@example.com", Password: "supersecret", FullName: "Owner",
	}); appErr != nil {
		t.Fatalf("register: %v", appErr)
	}

	// Unknown email succeeds without sending anything.
	if appErr := svc.RequestPasswordReset(context.Background(), &dto.RequestPasswordResetRequest{Email: "nobody@example.com"}); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(mail.otpTo) != 0 {
		t.Error("OTP sent for unknown email")
	}

	if appErr := svc.RequestPasswordReset(context.Background(), &dto.RequestPasswordResetRequest{Email: "owner@example.com"}); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(mail.otpTo) != 1 || mail.lastOTP == "" {
		t.Fatal("no OTP email sent")
	}

	// Wrong code is rejected.
	appErr := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email: "owner@example.com", OTP: "000000x", NewPassword: "newsecret123",
	})
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("appErr = %v, want UNAUTHORIZED", appErr)
	}

	if appErr := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email: "owner@example.com", OTP: mail.lastOTP, NewPassword: "newsecret123",
	}); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	if _, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "owner@example.com", Password: "newsecret123",
	}); appErr != nil {
		t.Fatalf("login with new password: %v", appErr)
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	c := newFakeCache()
	svc := newService(newFakeAuthRepo(), c, &fakeMailer{})

	if appErr := svc.Logout(context.Background(), "some-token"); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if !c.blacklist["some-token"] {
		t.Error("token not blacklisted")
	}
}

func TestGoogleAuthURLCarriesState(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := newService(repo, newFakeCache(), &fakeMailer{})

	resp, appErr := svc.GetGoogleAuthURL(context.Background(), uuid.New(), uuid.New())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	parsed, err := url.Parse(resp.AuthURL)
	if err != nil {
		t.Fatalf("invalid auth URL: %v", err)
	}
	state := parsed.Query().Get("state")
	if state == "" {
		t.Fatal("auth URL has no state")
	}
	if repo.states[state] == nil {
		t.Error("state not persisted")
	}
	if !strings.Contains(resp.AuthURL, "calendar.events") {
		t.Error("auth URL does not request the calendar scope")
	}
}

func TestGoogleCallbackUnknownState(t *testing.T) {
	svc := newService(newFakeAuthRepo(), newFakeCache(), &fakeMailer{})

	appErr := svc.HandleGoogleCallback(context.Background(), "bogus", "code")
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("appErr = %v, want UNAUTHORIZED", appErr)
	}
}
