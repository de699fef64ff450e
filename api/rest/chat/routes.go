package chat

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/mysticoracle/server/internal/auth"
	"codeberg.org/mysticoracle/server/internal/exchange"
)

// registers the chat route behind authentication
func RegisterRoutes(router *gin.RouterGroup, orchestrator *exchange.Orchestrator) {
	chatGroup := router.Group("/chat", auth.AuthMiddleware())
	{
		chatGroup.POST("", AskHandler(orchestrator))
	}
}
