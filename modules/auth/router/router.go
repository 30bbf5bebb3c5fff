package router

import (
	"studio-api/core/middleware"
	"studio-api/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	AuthController *controller.AuthController
}

func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		AuthController: authController,
	}
}

func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	publicRoutes := v1.Group("/public/auth")
	publicRoutes.POST("/register", r.AuthController.Register)
	publicRoutes.POST("/login", r.AuthController.Login)
	publicRoutes.POST("/password/forgot", r.AuthController.RequestPasswordReset)
	publicRoutes.POST("/password/reset", r.AuthController.ResetPassword)
	publicRoutes.GET("/google/callback", r.AuthController.GoogleCallback)

	privateRoutes := v1.Group("/private/auth", mw.AuthMiddleware())
	privateRoutes.POST("/logout", r.AuthController.Logout)
	privateRoutes.GET("/me", r.AuthController.GetProfile)
	privateRoutes.POST("/google/connect", r.AuthController.ConnectGoogle)
}
