package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cryptoupi/internal/authz"
	"cryptoupi/internal/handlers"
	"cryptoupi/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	issuer *authz.Issuer,
	pageHandler *handlers.PageHandler,
	sessionHandler *handlers.SessionHandler,
	directoryHandler *handlers.DirectoryHandler,
	accountHandler *handlers.AccountHandler,
	health gin.HandlerFunc,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if pageHandler != nil {
		r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/login") })
		r.GET("/login", pageHandler.Login)
		r.GET("/admin", pageHandler.Admin)
	}

	// PHONE LOGIN
	sessions := r.Group("/auth/phone/sessions")
	{
		sessions.POST("", sessionHandler.Create)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.DELETE("/:id", sessionHandler.Delete)
		sessions.POST("/:id/code", sessionHandler.RequestCode)
		sessions.POST("/:id/verify", sessionHandler.SubmitCode)
		sessions.POST("/:id/reset", sessionHandler.Reset)
		sessions.POST("/:id/provision", sessionHandler.RetryProvisioning)
	}

	// ---- protected (admin / auditor)
	admin := r.Group("/admin",
		middleware.AdminAuth(issuer),
		middleware.RequireRoles(authz.RoleAdmin, authz.RoleAuditor),
		middleware.ReadOnlyGuard(),
	)

	directory := admin.Group("/directory")
	{
		directory.GET("", directoryHandler.List)
		directory.GET("/report", directoryHandler.Report)
		directory.GET("/:id", directoryHandler.Get)
		directory.POST("", directoryHandler.Create)
		directory.PUT("/:id", directoryHandler.Update)
		directory.DELETE("/:id", directoryHandler.Delete)
	}

	accounts := admin.Group("/accounts")
	{
		accounts.GET("/:wallet", accountHandler.Get)
		accounts.PATCH("/:wallet", accountHandler.Patch)
	}

	return r
}
