package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"biotrack/internal/authz"
	"biotrack/internal/handlers"
	"biotrack/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtKey []byte,
	limiter *middleware.RateLimiter,
	registrationHandler *handlers.RegistrationHandler,
	authHandler *handlers.AuthHandler,
	sessionHandler *handlers.SessionHandler,
	accountHandler *handlers.AccountHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---- public (с лимитом по IP: сюда летят перебор паролей и кодов)
	public := r.Group("/", limiter.Limit())
	{
		public.POST("/register", registrationHandler.Start)
		public.POST("/register/confirm", registrationHandler.Confirm)
		public.POST("/register/resend", registrationHandler.Resend)
		public.GET("/register/state", registrationHandler.State)

		public.POST("/login", authHandler.Login)
		public.POST("/login/code", authHandler.LoginCode)
		public.POST("/login/code/confirm", authHandler.LoginCodeConfirm)
		public.POST("/refresh", authHandler.Refresh)

		public.POST("/password-reset/request", authHandler.PasswordResetRequest)
		public.POST("/password-reset/confirm", authHandler.PasswordResetConfirm)
	}

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtKey))

	r.POST("/logout", authHandler.Logout)
	r.GET("/accounts/me", accountHandler.Me)

	sessions := r.Group("/sessions")
	{
		sessions.GET("/", sessionHandler.List)
		sessions.DELETE("/:id", sessionHandler.Revoke)
	}

	// ---- admin
	admin := r.Group("/", middleware.RequireRoles(authz.RoleAdmin))
	{
		admin.GET("/accounts", accountHandler.List)
		admin.GET("/accounts/count", accountHandler.Count)
		admin.GET("/reports/accounts.pdf", reportHandler.AccountsPDF)
	}

	return r
}
