// internal/app/router.go
package app

import (
	branchHandler "loyaltyhub-service/internal/handlers/branch"
	portalHandler "loyaltyhub-service/internal/handlers/portal"
	wsHandler "loyaltyhub-service/internal/handlers/websocket"
	"loyaltyhub-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	BranchHandler    *branchHandler.BranchHandler
	PortalHandler    *portalHandler.PortalHandler
	WSHandler        *wsHandler.WSHandler
	PortalMiddleware *middleware.PortalMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Branch Select (public) ====================
	api.GET("/branches", h.BranchHandler.ListBranches)
	api.POST("/portal/sessions", h.PortalHandler.StartSession)

	// ==================== Portal (token required) ====================
	portal := api.Group("/portal")
	portal.Use(h.PortalMiddleware.Auth())
	{
		// Password gate
		portal.POST("/sessions/password", h.PortalHandler.SubmitPassword)

		// Session lifecycle
		portal.GET("/session", h.PortalHandler.GetSession)
		portal.DELETE("/session", h.PortalHandler.Reset)

		// Dashboard
		portal.GET("/stats", h.PortalHandler.GetStats)
		portal.GET("/menu", h.PortalHandler.ListMenu)
		portal.GET("/customers/search", h.PortalHandler.SearchCustomer)
		portal.GET("/customers/:id/transactions", h.PortalHandler.ListCustomerTransactions)

		// Assignment workflow
		portal.PUT("/mode", h.PortalHandler.SetMode)
		portal.PUT("/order-amount", h.PortalHandler.SetOrderAmount)
		portal.PUT("/items/:id/quantity", h.PortalHandler.AdjustQuantity)
		portal.GET("/preview", h.PortalHandler.GetPreview)
		portal.POST("/confirmation", h.PortalHandler.OpenConfirmation)
		portal.DELETE("/confirmation", h.PortalHandler.CloseConfirmation)
		portal.POST("/commit", h.PortalHandler.Commit)
	}

	// ==================== WebSocket ====================
	ws := r.Group("/ws")
	ws.Use(h.PortalMiddleware.Auth())
	{
		ws.GET("/branches/:id/activity", h.WSHandler.BranchActivity)
	}
}
