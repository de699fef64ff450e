package main

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/mysticoracle/server/api/rest/auth"
	"codeberg.org/mysticoracle/server/api/rest/billing"
	"codeberg.org/mysticoracle/server/api/rest/chat"
	"codeberg.org/mysticoracle/server/api/rest/health"
	"codeberg.org/mysticoracle/server/api/rest/profile"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config))
	router.GET("/health", health.Handler)

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(v1, server.userRepo, server.tokens, server.mail, AuthRateLimiter())
		chat.RegisterRoutes(v1, server.orchestrator)
		profile.RegisterRoutes(v1, server.userRepo, server.personas)

		if server.billing != nil {
			billing.RegisterRoutes(v1, server.billing, server.userRepo)
		}
	}
}
