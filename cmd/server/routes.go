package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"notify-gate.backend/internal/interfaces/http/handlers"
	"notify-gate.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	healthHandler       *handlers.HealthHandler
	validateHandler     *handlers.ValidateHandler
	notificationHandler *handlers.NotificationHandler
	organizationHandler *handlers.OrganizationHandler
	apiKeyHandler       *handlers.ApiKeyHandler
	auditHandler        *handlers.AuditHandler

	adminAuth gin.HandlerFunc
	sendAuth  gin.HandlerFunc
	readAuth  gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID, Idempotency-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})
}

func registerOpsRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/health", d.healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Delivery surface, authenticated by API key.
		notifications := v1.Group("/notifications")
		{
			notifications.POST("", d.sendAuth, middleware.IdempotencyMiddleware(), d.notificationHandler.SendNotification)
			notifications.GET("", d.readAuth, d.notificationHandler.ListNotifications)
			notifications.GET("/:id", d.readAuth, d.notificationHandler.GetNotification)
		}

		// Credential introspection for internal services.
		internal := v1.Group("/internal")
		internal.Use(d.adminAuth)
		{
			internal.POST("/validate", d.validateHandler.Validate)
		}

		// Management surface, authenticated by service token.
		admin := v1.Group("/admin")
		admin.Use(d.adminAuth)
		{
			admin.POST("/organizations", d.organizationHandler.CreateOrganization)
			admin.GET("/organizations", d.organizationHandler.ListOrganizations)
			admin.GET("/organizations/:orgId", d.organizationHandler.GetOrganization)
			admin.DELETE("/organizations/:orgId", d.organizationHandler.DeactivateOrganization)

			admin.POST("/organizations/:orgId/api-keys", d.apiKeyHandler.CreateApiKey)
			admin.GET("/organizations/:orgId/api-keys", d.apiKeyHandler.ListApiKeys)
			admin.GET("/organizations/:orgId/api-keys/:id", d.apiKeyHandler.GetApiKey)
			admin.DELETE("/organizations/:orgId/api-keys/:id", d.apiKeyHandler.RevokeApiKey)

			admin.GET("/organizations/:orgId/audit-events", d.auditHandler.ListOrganizationEvents)
			admin.GET("/audit-events", d.auditHandler.ListFingerprintEvents)
		}
	}
}
