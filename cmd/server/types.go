package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"codeberg.org/mysticoracle/server/internal/billing"
	"codeberg.org/mysticoracle/server/internal/config"
	"codeberg.org/mysticoracle/server/internal/exchange"
	"codeberg.org/mysticoracle/server/internal/mailer"
	"codeberg.org/mysticoracle/server/internal/persona"
	"codeberg.org/mysticoracle/server/internal/resettokens"
	"codeberg.org/mysticoracle/server/oracle/users"
)

// holds all dependencies and state for the API server
type Server struct {
	db           *pgxpool.Pool
	redis        *redis.Client
	config       *config.Config
	userRepo     users.Repository
	orchestrator *exchange.Orchestrator
	personas     *persona.Library
	billing      *billing.Service
	tokens       *resettokens.Store
	mail         *mailer.Mailer
	router       *gin.Engine
}
