package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-chat-client/internal/application/facade"
	"go-chat-client/internal/domain/model"
	"go-chat-client/internal/infrastructure/logger"
	"go-chat-client/internal/infrastructure/store"
)

type ChatHandler struct {
	chat   *facade.ChatApplicationService
	stores *store.Stores
	logger logger.Logger
}

type ChatMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type RegisterNameRequest struct {
	Name string `json:"name" binding:"required"`
}

func NewChatHandler(chat *facade.ChatApplicationService, stores *store.Stores, logger logger.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		stores: stores,
		logger: logger.WithField("handler", "chat"),
	}
}

// Status reports connection and registration state
func (h *ChatHandler) Status(c *gin.Context) {
	connID := ""
	if conn := h.stores.Connection.Read(); conn != nil {
		connID = conn.ID()
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":     connID != "",
		"connection_id": connID,
		"name":          h.stores.Name.Read(),
		"registered":    h.stores.HasRegisteredName.Read(),
		"messages":      len(h.stores.Messages.Read()),
		"toasts":        len(h.stores.Toasts.Read()),
	})
}

func (h *ChatHandler) RegisterName(c *gin.Context) {
	var req RegisterNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid name format"})
		return
	}

	if err := h.chat.RegisterName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "requested",
		"name":   h.stores.Name.Read(),
	})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	messages := h.stores.Messages.Read()
	if messages == nil {
		messages = []model.ChatMessage{}
	}
	c.JSON(http.StatusOK, gin.H{
		"total":    len(messages),
		"messages": messages,
	})
}

// SendMessage hands the text to the dispatcher. Delivery is best-effort,
// so success only means the message was accepted locally.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnf("Invalid request format: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message format"})
		return
	}

	if err := h.chat.SendChat(req.Message); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, facade.ErrNotRegistered) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":    "accepted",
		"connected": h.stores.Connection.Read() != nil,
	})
}
