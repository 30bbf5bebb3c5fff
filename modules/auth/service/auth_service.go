package service

import (
	"context"
	"strings"
	"time"

	"studio-api/core/cache"
	"studio-api/core/config"
	"studio-api/core/constants"
	"studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/core/mailer"
	"studio-api/core/utils"
	"studio-api/modules/auth/dto"
	"studio-api/modules/auth/entity"
	"studio-api/modules/auth/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

const oauthStateTTL = 10 * time.Minute

// calendarScope is requested during Google connect so synced assignments can
// be written to the member's calendar.
const calendarScope = "https://www.googleapis.com/auth/calendar.events"

// CalendarConnector stores the Google token obtained for a member. Owned by
// the calendar module.
type CalendarConnector interface {
	SaveGoogleConnection(ctx context.Context, memberID uuid.UUID, token *oauth2.Token) error
}

type AuthService struct {
	repo     repository.AuthRepositoryInterface
	cache    cache.Cache
	mail     mailer.Mailer
	calendar CalendarConnector
	oauth    *oauth2.Config
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	RequestPasswordReset(ctx context.Context, req *dto.RequestPasswordResetRequest) *errors.AppError
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) *errors.AppError

	GetGoogleAuthURL(ctx context.Context, userID, memberID uuid.UUID) (*dto.GoogleAuthURLResponse, *errors.AppError)
	HandleGoogleCallback(ctx context.Context, state, code string) *errors.AppError
}

func NewAuthService(repo repository.AuthRepositoryInterface, c cache.Cache, mail mailer.Mailer, calendar CalendarConnector, cfg config.GoogleAPIConfig) AuthServiceInterface {
	return &AuthService{
		repo:     repo,
		cache:    c,
		mail:     mail,
		calendar: calendar,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{calendarScope},
			Endpoint:     googleoauth.Endpoint,
		},
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError) {
	var details []controller.ValidationError
	if !strings.Contains(req.Email, "@") {
		details = append(details, controller.NewValidationError("email", "must be a valid email address"))
	}
	if len(req.Password) < 8 {
		details = append(details, controller.NewValidationError("password", "must be at least 8 characters"))
	}
	if strings.TrimSpace(req.FullName) == "" {
		details = append(details, controller.NewValidationError("full_name", "full_name is required"))
	}
	if len(details) > 0 {
		return nil, errors.NewAppErrorWithDetails(errors.ErrInvalidRequestData, "Invalid registration data", details)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, &entity.User{
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		FullName:     req.FullName,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "Email is already registered", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create user", err)
	}

	token, err := utils.GenerateToken(user.ID, nil, nil, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue token", err)
	}

	logger.Info("AuthService:Register", "user_id", user.ID)
	return &dto.AuthResponse{AccessToken: token, User: dto.ToUserResponse(user)}, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load user", err)
	}
	if user == nil || !utils.ComparePassword(user.PasswordHash, req.Password) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}

	token, err := utils.GenerateToken(user.ID, nil, nil, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue token", err)
	}

	logger.Info("AuthService:Login", "user_id", user.ID)
	return &dto.AuthResponse{AccessToken: token, User: dto.ToUserResponse(user)}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	if err := s.cache.AddToTokenBlacklist(ctx, token); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to revoke token", err)
	}
	return nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// RequestPasswordReset emails a short-lived OTP. Unknown emails return
// success so the endpoint cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req *dto.RequestPasswordResetRequest) *errors.AppError {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load user", err)
	}
	if user == nil {
		return nil
	}

	code := utils.GenerateOTP()
	key := constants.RedisKeyOTP + user.ID.String()
	if err := s.cache.SetOTP(ctx, key, code); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to store OTP", err)
	}

	if err := s.mail.SendPasswordOTP(user.Email, code); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to send OTP email", err)
	}

	logger.Info("AuthService:RequestPasswordReset", "user_id", user.ID)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) *errors.AppError {
	if len(req.NewPassword) < 8 {
		return errors.NewAppErrorWithDetails(errors.ErrInvalidRequestData, "Invalid password",
			[]controller.ValidationError{controller.NewValidationError("new_password", "must be at least 8 characters")})
	}

	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load user", err)
	}
	if user == nil {
		return errors.NewAppError(errors.ErrUnauthorized, "Invalid OTP", nil)
	}

	key := constants.RedisKeyOTP + user.ID.String()
	stored, err := s.cache.GetOTP(ctx, key)
	if err != nil || stored == "" || stored != req.OTP {
		return errors.NewAppError(errors.ErrUnauthorized, "Invalid OTP", nil)
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to update password", err)
	}

	logger.Info("AuthService:ResetPassword", "user_id", user.ID)
	return nil
}

// GetGoogleAuthURL starts the consent flow for connecting a member's Google
// Calendar. The state value is single-use and expires after ten minutes.
func (s *AuthService) GetGoogleAuthURL(ctx context.Context, userID, memberID uuid.UUID) (*dto.GoogleAuthURLResponse, *errors.AppError) {
	if memberID == uuid.Nil {
		return nil, errors.NewAppErrorWithDetails(errors.ErrInvalidRequestData, "Invalid connect request",
			[]controller.ValidationError{controller.NewValidationError("member_id", "member_id is required")})
	}

	state := utils.GenerateRandomString(32)
	err := s.repo.CreateOAuthState(ctx, &entity.OAuthState{
		State:     state,
		UserID:    userID,
		MemberID:  memberID,
		ExpiresAt: time.Now().Add(oauthStateTTL),
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to store OAuth state", err)
	}

	url := s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	return &dto.GoogleAuthURLResponse{AuthURL: url}, nil
}

func (s *AuthService) HandleGoogleCallback(ctx context.Context, state, code string) *errors.AppError {
	row, err := s.repo.ConsumeOAuthState(ctx, state)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to verify OAuth state", err)
	}
	if row == nil {
		return errors.NewAppError(errors.ErrUnauthorized, "Unknown or expired OAuth state", nil)
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:Exchange", err)
		return errors.NewAppError(errors.ErrInternalServer, "Failed to exchange authorization code", err)
	}

	if err := s.calendar.SaveGoogleConnection(ctx, row.MemberID, token); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to save calendar connection", err)
	}

	logger.Info("AuthService:HandleGoogleCallback", "member_id", row.MemberID)
	return nil
}
