package controller

import (
	"strings"

	"studio-api/core/constants"
	"studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/core/utils"
	"studio-api/modules/auth/dto"
	"studio-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

func bearerToken(ctx echo.Context) string {
	header := ctx.Request().Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Register handles POST /auth/register
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /public/auth/register [post]
func (c *AuthController) Register(ctx echo.Context) error {
	var req dto.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AuthService.Register(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Account created")
}

// Login handles POST /auth/login
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} errors.AppError
// @Router /public/auth/login [post]
func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AuthService.Login(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Logged in")
}

// Logout handles POST /auth/logout
// @Summary Revoke the current access token
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} controller.SuccessResponse
// @Router /private/auth/logout [post]
func (c *AuthController) Logout(ctx echo.Context) error {
	token := bearerToken(ctx)
	if token == "" {
		return c.Unauthorized(errors.ErrMissingAuthorizationHeader, "Missing Authorization header")
	}

	if appErr := c.AuthService.Logout(ctx.Request().Context(), token); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Logged out")
}

// GetProfile handles GET /auth/me
// @Summary Get the caller's profile
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Router /private/auth/me [get]
func (c *AuthController) GetProfile(ctx echo.Context) error {
	claims, _ := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if claims == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Missing token data")
	}

	result, appErr := c.AuthService.GetProfile(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Profile retrieved")
}

// RequestPasswordReset handles POST /auth/password/forgot
// @Summary Email a password reset code
// @Tags Auth
// @Accept json
// @Param request body dto.RequestPasswordResetRequest true "Account email"
// @Success 200 {object} controller.SuccessResponse
// @Router /public/auth/password/forgot [post]
func (c *AuthController) RequestPasswordReset(ctx echo.Context) error {
	var req dto.RequestPasswordResetRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	if appErr := c.AuthService.RequestPasswordReset(ctx.Request().Context(), &req); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "If the email exists, a reset code was sent")
}

// ResetPassword handles POST /auth/password/reset
// @Summary Reset a password using the emailed code
// @Tags Auth
// @Accept json
// @Param request body dto.ResetPasswordRequest true "Reset data"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} errors.AppError
// @Router /public/auth/password/reset [post]
func (c *AuthController) ResetPassword(ctx echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	if appErr := c.AuthService.ResetPassword(ctx.Request().Context(), &req); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Password updated")
}

// ConnectGoogle handles POST /auth/google/connect
// @Summary Start the Google Calendar consent flow for a member
// @Tags Auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ConnectGoogleRequest true "Member to connect"
// @Success 200 {object} dto.GoogleAuthURLResponse
// @Router /private/auth/google/connect [post]
func (c *AuthController) ConnectGoogle(ctx echo.Context) error {
	claims, _ := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if claims == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Missing token data")
	}

	var req dto.ConnectGoogleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AuthService.GetGoogleAuthURL(ctx.Request().Context(), claims.UserID, req.MemberID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Consent URL generated")
}

// GoogleCallback handles GET /auth/google/callback
// @Summary OAuth redirect target for Google Calendar consent
// @Tags Auth
// @Param state query string true "State"
// @Param code query string true "Authorization code"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} errors.AppError
// @Router /public/auth/google/callback [get]
func (c *AuthController) GoogleCallback(ctx echo.Context) error {
	state := ctx.QueryParam("state")
	code := ctx.QueryParam("code")
	if state == "" || code == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Missing state or code")
	}

	if appErr := c.AuthService.HandleGoogleCallback(ctx.Request().Context(), state, code); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Calendar connected")
}
