// internal/app/router.go
package app

import (
	"net/http"

	authHandler "quinto-service/internal/handlers/auth"
	favoriteHandler "quinto-service/internal/handlers/favorite"
	interestHandler "quinto-service/internal/handlers/interest"
	leadHandler "quinto-service/internal/handlers/lead"
	pipelineHandler "quinto-service/internal/handlers/pipeline"
	propertyHandler "quinto-service/internal/handlers/property"
	reportHandler "quinto-service/internal/handlers/report"
	reviewHandler "quinto-service/internal/handlers/review"
	visitHandler "quinto-service/internal/handlers/visit"
	wsHandler "quinto-service/internal/handlers/websocket"
	"quinto-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler     *authHandler.AuthHandler
	PropertyHandler *propertyHandler.PropertyHandler
	PipelineHandler *pipelineHandler.PipelineHandler
	InterestHandler *interestHandler.InterestHandler
	VisitHandler    *visitHandler.VisitHandler
	ReviewHandler   *reviewHandler.ReviewHandler
	FavoriteHandler *favoriteHandler.FavoriteHandler
	LeadHandler     *leadHandler.LeadHandler
	ReportHandler   *reportHandler.ReportHandler
	WSHandler       *wsHandler.WebSocketHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// WebSocket endpoint (authenticates inside the handler, token via query
	// param or header).
	r.GET("/ws", h.WSHandler.HandleConnection)

	api := r.Group("/api/v1")

	auth := h.AuthMiddleware

	// ==================== PUBLIC ROUTES ====================
	{
		api.POST("/auth/register", h.AuthHandler.Register)
		api.POST("/auth/login", h.AuthHandler.Login)

		// Top-of-funnel lead capture from the landing page.
		api.POST("/leads", h.LeadHandler.Capture)

		api.GET("/properties", h.PropertyHandler.Search)
		api.GET("/properties/featured", h.PropertyHandler.ListFeatured)
		api.GET("/properties/:id", h.PropertyHandler.Get)
		api.GET("/properties/:id/reviews", h.ReviewHandler.ListForProperty)
		api.GET("/brokers/:id/reviews", h.ReviewHandler.ListForBroker)
	}

	// ==================== AUTHENTICATED ROUTES ====================
	authed := api.Group("")
	authed.Use(auth.Auth())
	{
		authed.POST("/auth/logout", h.AuthHandler.Logout)
		authed.POST("/auth/logout-all", h.AuthHandler.LogoutAll)
		authed.GET("/auth/me", h.AuthHandler.Me)
		authed.PATCH("/auth/profile", h.AuthHandler.UpdateProfile)

		authed.POST("/properties/:id/interest", h.InterestHandler.Create)

		authed.POST("/properties/:id/visits", h.VisitHandler.Schedule)
		authed.GET("/visits", h.VisitHandler.ListMine)
		authed.POST("/visits/:id/cancel", h.VisitHandler.Cancel)
		authed.POST("/visits/:id/complete", h.VisitHandler.Complete)

		authed.POST("/properties/:id/favorite", h.FavoriteHandler.Toggle)
		authed.GET("/favorites", h.FavoriteHandler.ListMine)
		authed.POST("/favorites/folders", h.FavoriteHandler.CreateFolder)
		authed.GET("/favorites/folders", h.FavoriteHandler.ListFolders)
		authed.PATCH("/favorites/:id/folder", h.FavoriteHandler.AssignFolder)

		authed.POST("/properties/:id/reviews", h.ReviewHandler.CreateForProperty)
		authed.POST("/brokers/:id/reviews", h.ReviewHandler.CreateForBroker)

		authed.POST("/properties/:id/report", h.ReportHandler.Create)
	}

	// ==================== BROKER ROUTES ====================
	broker := api.Group("")
	broker.Use(auth.BrokerOnly()...)
	{
		broker.POST("/properties", h.PropertyHandler.Create)
		broker.GET("/properties/mine", h.PropertyHandler.ListMine)
		broker.PATCH("/properties/:id", h.PropertyHandler.Update)
		broker.PATCH("/properties/:id/status", h.PropertyHandler.UpdateStatus)
		broker.DELETE("/properties/:id", h.PropertyHandler.Delete)
		broker.GET("/properties/:id/analytics", h.PropertyHandler.Analytics)

		broker.GET("/pipeline/board", h.PipelineHandler.GetBoard)
		broker.GET("/pipeline/stats", h.PipelineHandler.GetStats)
		broker.GET("/pipeline/leads/:id", h.PipelineHandler.GetLead)
		broker.GET("/pipeline/leads/:id/history", h.PipelineHandler.GetHistory)
		broker.POST("/pipeline/leads/:id/move", h.PipelineHandler.MoveLead)
		broker.POST("/pipeline/leads/:id/loss", h.PipelineHandler.ConfirmLoss)
		broker.PATCH("/pipeline/leads/:id", h.PipelineHandler.UpdateDetails)
	}

	// ==================== ADMIN ROUTES ====================
	admin := api.Group("/admin")
	admin.Use(auth.AdminOnly()...)
	{
		admin.GET("/leads", h.LeadHandler.List)
		admin.GET("/leads/overview", h.LeadHandler.Overview)
		admin.GET("/leads/:id", h.LeadHandler.Get)
		admin.PATCH("/leads/:id/status", h.LeadHandler.UpdateStatus)

		admin.GET("/reports", h.ReportHandler.List)
		admin.POST("/reports/:id/resolve", h.ReportHandler.Resolve)

		admin.GET("/ws/stats", h.WSHandler.GetStats)
	}

	logger.Info("routes registered")
}
