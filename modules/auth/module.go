package auth

import (
	"studio-api/core/cache"
	"studio-api/core/config"
	"studio-api/core/database"
	"studio-api/core/mailer"
	"studio-api/core/middleware"
	"studio-api/modules/auth/controller"
	"studio-api/modules/auth/repository"
	"studio-api/modules/auth/router"
	"studio-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and registers routes. The calendar
// connector is injected so completed OAuth flows land in the calendar
// module's connection store.
func Init(e *echo.Echo, db *database.Database, mw *middleware.Middleware, c cache.Cache, mail mailer.Mailer, connector service.CalendarConnector, cfg *config.Config) {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c, mail, connector, cfg.GoogleAPI)
	ctrl := controller.NewAuthController(svc)
	rtr := router.NewAuthRouter(ctrl)

	rtr.Setup(e, mw)
}
