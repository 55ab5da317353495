package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-chat-client/internal/application/toast"
	"go-chat-client/internal/domain/model"
	"go-chat-client/internal/infrastructure/logger"
)

type ToastHandler struct {
	toasts *toast.Manager
	logger logger.Logger
}

type CreateToastRequest struct {
	Category model.ToastCategory `json:"category" binding:"required"`
	Text     string              `json:"text"     binding:"required"`
}

func NewToastHandler(toasts *toast.Manager, logger logger.Logger) *ToastHandler {
	return &ToastHandler{
		toasts: toasts,
		logger: logger.WithField("handler", "toast"),
	}
}

func (h *ToastHandler) List(c *gin.Context) {
	items := h.toasts.Items()
	c.JSON(http.StatusOK, gin.H{
		"total":       len(items),
		"toasts":      items,
		"duration_ms": h.toasts.Duration().Milliseconds(),
	})
}

func (h *ToastHandler) Create(c *gin.Context) {
	var req CreateToastRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Category.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid toast format"})
		return
	}

	item := h.toasts.Add(model.ToastRequest{Category: req.Category, Text: req.Text})
	c.JSON(http.StatusCreated, item)
}

// Remove always succeeds; unknown ids are already gone
func (h *ToastHandler) Remove(c *gin.Context) {
	h.toasts.Remove(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *ToastHandler) Reset(c *gin.Context) {
	h.toasts.Reset()
	c.Status(http.StatusNoContent)
}
