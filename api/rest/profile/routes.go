package profile

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/mysticoracle/server/internal/auth"
	"codeberg.org/mysticoracle/server/internal/persona"
	"codeberg.org/mysticoracle/server/oracle/users"
)

// registers the profile route behind authentication
func RegisterRoutes(router *gin.RouterGroup, userRepo users.Repository, personas *persona.Library) {
	profileGroup := router.Group("/profile", auth.AuthMiddleware())
	{
		profileGroup.GET("", GetHandler(userRepo, personas))
	}
}
