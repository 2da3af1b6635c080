package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orgdesa/orgdesa/internal/api/handlers"
	"github.com/orgdesa/orgdesa/internal/api/middleware"
	"github.com/orgdesa/orgdesa/internal/auth"
	"github.com/orgdesa/orgdesa/internal/config"
	"github.com/orgdesa/orgdesa/internal/metrics"
	"github.com/orgdesa/orgdesa/internal/policy"
	"github.com/orgdesa/orgdesa/internal/rbac"
	"github.com/orgdesa/orgdesa/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators the router wires into handlers.
type Deps struct {
	DB            *gorm.DB
	Enforcer      *rbac.Enforcer
	Authenticator auth.Authenticator
	OIDC          *auth.OIDCAuthenticator // nil when OIDC is not configured
	Metrics       *metrics.Metrics        // nil when metrics are disabled
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(loggingMiddleware())
	router.Use(corsMiddleware())
	if deps.Metrics != nil {
		router.Use(metrics.GinMiddleware(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	pol := policy.New(deps.Enforcer)
	authn := deps.Authenticator

	activityHandler := handlers.NewActivityHandler(service.NewActivityService(deps.DB, pol), pol)
	minuteHandler := handlers.NewMeetingMinuteHandler(service.NewMeetingMinuteService(deps.DB, pol), pol)
	documentHandler := handlers.NewDocumentHandler(service.NewDocumentService(deps.DB, pol), pol, cfg.Storage.DocumentsDir, deps.Metrics)
	orgHandler := handlers.NewOrganizationHandler(service.NewOrganizationService(deps.DB, pol), service.NewHomeService(deps.DB, pol))
	adminHandler := handlers.NewAdminHandler(service.NewUserService(deps.DB, pol))

	router.GET("/health-check", handlers.HealthCheck(deps.DB))

	// Public routes; a bearer token, when sent, identifies the viewer
	public := router.Group("/api/v1")
	public.Use(authn.OptionalMiddleware())
	{
		public.GET("/version", handlers.GetVersion)
		public.POST("/auth/login", handlers.Login(authn))
		if deps.OIDC != nil {
			public.GET("/auth/oidc/login", handlers.OIDCLogin(deps.OIDC))
			public.GET("/auth/oidc/callback", handlers.OIDCCallback(deps.OIDC))
		}

		public.GET("/home", orgHandler.GetHome)
		public.GET("/organization", orgHandler.GetOrganization)

		public.GET("/activities", activityHandler.ListActivities)
		public.GET("/activities/:id", activityHandler.GetActivity)

		public.GET("/meeting-minutes", minuteHandler.ListMeetingMinutes)
		public.GET("/meeting-minutes/:id", minuteHandler.GetMeetingMinute)

		public.GET("/documents", documentHandler.ListDocuments)
		public.GET("/documents/categories", documentHandler.ListCategories)
		public.GET("/documents/:id", documentHandler.GetDocument)
		public.GET("/documents/:id/download", documentHandler.DownloadDocument)
	}

	// Protected routes (require authentication)
	protected := router.Group("/api/v1")
	protected.Use(authn.Middleware())
	{
		protected.GET("/auth/me", handlers.CurrentUser(pol))

		protected.PUT("/organization", middleware.RequirePermission(pol, rbac.ResourceOrganization, rbac.ActionUpdate), orgHandler.UpdateOrganization)

		protected.POST("/activities", middleware.RequirePermission(pol, rbac.ResourceActivity, rbac.ActionCreate), activityHandler.CreateActivity)
		protected.PUT("/activities/:id", middleware.RequirePermission(pol, rbac.ResourceActivity, rbac.ActionUpdate), activityHandler.UpdateActivity)
		protected.DELETE("/activities/:id", middleware.RequirePermission(pol, rbac.ResourceActivity, rbac.ActionDelete), activityHandler.DeleteActivity)
		protected.POST("/activities/:id/documents", middleware.RequirePermission(pol, rbac.ResourceActivityDocument, rbac.ActionCreate), activityHandler.AttachDocument)
		protected.DELETE("/activities/:id/documents/:doc", middleware.RequirePermission(pol, rbac.ResourceActivityDocument, rbac.ActionDelete), activityHandler.DeleteDocument)

		protected.POST("/meeting-minutes", middleware.RequirePermission(pol, rbac.ResourceMeetingMinute, rbac.ActionCreate), minuteHandler.CreateMeetingMinute)
		protected.PUT("/meeting-minutes/:id", middleware.RequirePermission(pol, rbac.ResourceMeetingMinute, rbac.ActionUpdate), minuteHandler.UpdateMeetingMinute)
		protected.DELETE("/meeting-minutes/:id", middleware.RequirePermission(pol, rbac.ResourceMeetingMinute, rbac.ActionDelete), minuteHandler.DeleteMeetingMinute)

		protected.POST("/documents", middleware.RequirePermission(pol, rbac.ResourceDocument, rbac.ActionCreate), documentHandler.CreateDocument)
		protected.PUT("/documents/:id", middleware.RequirePermission(pol, rbac.ResourceDocument, rbac.ActionUpdate), documentHandler.UpdateDocument)
		protected.DELETE("/documents/:id", middleware.RequirePermission(pol, rbac.ResourceDocument, rbac.ActionDelete), documentHandler.DeleteDocument)

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireAdmin(pol))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.PATCH("/users/:id", adminHandler.UpdateUser)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
		}
	}

	// Swagger documentation
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	slog.Info("API router initialized", "mode", cfg.Server.Mode, "oidc", deps.OIDC != nil, "metrics", deps.Metrics != nil)
	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		slog.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
