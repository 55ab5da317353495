package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-chat-client/internal/application/facade"
	"go-chat-client/internal/application/toast"
	"go-chat-client/internal/infrastructure/logger"
	"go-chat-client/internal/infrastructure/metrics"
	"go-chat-client/internal/infrastructure/store"
	"go-chat-client/internal/interfaces/rest/v1/handler"
	"go-chat-client/internal/interfaces/sse"
)

func InitRouter(
	log logger.Logger,
	stores *store.Stores,
	chat *facade.ChatApplicationService,
	toasts *toast.Manager,
	m *metrics.Metrics,
) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	rootGroup := router.Group("")

	rootGroup.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	rootGroup.GET("/metrics", gin.WrapH(m.Handler()))

	handler.InitRESTRouter(
		handler.NewChatHandler(chat, stores, log),
		handler.NewToastHandler(toasts, log),
		rootGroup,
	)
	sse.InitSSERouter(log, stores, rootGroup)

	return router
}
