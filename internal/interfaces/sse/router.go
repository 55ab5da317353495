package sse

import (
	"github.com/gin-gonic/gin"

	"go-chat-client/internal/infrastructure/logger"
	"go-chat-client/internal/infrastructure/store"
)

func InitSSERouter(logger logger.Logger, stores *store.Stores, rg *gin.RouterGroup) {
	handler := NewStateEventHandler(stores, logger)
	rg.GET("/events", handler.Stream)
}
