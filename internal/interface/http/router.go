package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/run-reporter/internal/domain/session"
	"github.com/yanqian/run-reporter/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, sessions session.Service) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.POST("/session", handler.Login)

		authed := api.Group("")
		authed.Use(authMiddleware(sessions))
		authed.DELETE("/session", handler.Logout)
		authed.GET("/activities/latest", handler.LatestActivity)
		authed.GET("/activities", handler.ListActivities)
		authed.POST("/activities/:id/select", handler.SelectActivity)
		authed.GET("/activities/selected", handler.SelectedActivity)
		authed.POST("/reports", handler.GenerateReport)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
