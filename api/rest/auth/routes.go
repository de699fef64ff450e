package auth

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/mysticoracle/server/internal/auth"
	"codeberg.org/mysticoracle/server/internal/mailer"
	"codeberg.org/mysticoracle/server/internal/resettokens"
	"codeberg.org/mysticoracle/server/oracle/users"
)

// registers all authentication and account routes
func RegisterRoutes(
	router *gin.RouterGroup,
	userRepo users.Repository,
	tokens *resettokens.Store,
	mail *mailer.Mailer,
	rateLimit gin.HandlerFunc,
) {
	authGroup := router.Group("/auth")
	if rateLimit != nil {
		authGroup.Use(rateLimit)
	}
	{
		authGroup.POST("/register", RegisterHandler(userRepo))
		authGroup.POST("/login", LoginHandler(userRepo))
		authGroup.POST("/request-reset", RequestResetHandler(userRepo, tokens, mail))
		authGroup.POST("/reset-password", ResetPasswordHandler(userRepo, tokens))
		authGroup.GET("/:provider", BeginAuthHandler())
		authGroup.GET("/:provider/callback", CallbackHandler(userRepo))
	}

	accountGroup := router.Group("/account", auth.AuthMiddleware())
	{
		accountGroup.POST("/email", UpdateEmailHandler(userRepo))
		accountGroup.POST("/password", UpdatePasswordHandler(userRepo))
	}
}
