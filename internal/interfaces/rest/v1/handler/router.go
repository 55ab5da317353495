package handler

import "github.com/gin-gonic/gin"

// InitRESTRouter mounts the local control API under /api
func InitRESTRouter(chat *ChatHandler, toasts *ToastHandler, rg *gin.RouterGroup) {
	api := rg.Group("/api")
	{
		api.GET("/status", chat.Status)
		api.POST("/name", chat.RegisterName)
		api.GET("/messages", chat.ListMessages)
		api.POST("/messages", chat.SendMessage)

		api.GET("/toasts", toasts.List)
		api.POST("/toasts", toasts.Create)
		api.DELETE("/toasts", toasts.Reset)
		api.DELETE("/toasts/:id", toasts.Remove)
	}
}
