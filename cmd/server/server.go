package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"codeberg.org/mysticoracle/server/internal/billing"
	"codeberg.org/mysticoracle/server/internal/config"
	"codeberg.org/mysticoracle/server/internal/exchange"
	"codeberg.org/mysticoracle/server/internal/llm"
	"codeberg.org/mysticoracle/server/internal/logger"
	"codeberg.org/mysticoracle/server/internal/mailer"
	"codeberg.org/mysticoracle/server/internal/persona"
	"codeberg.org/mysticoracle/server/internal/resettokens"
	"codeberg.org/mysticoracle/server/oracle/users"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// keep the pool small, the workload is a handful of row lookups per exchange
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	userRepo := users.NewRepository(db)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	tokens := resettokens.NewStore(redisClient)

	generator, err := llm.NewGenerator()
	if err != nil {
		redisClient.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		db.Close()
		return nil, fmt.Errorf("failed to create text generator: %w", err)
	}

	personas := persona.NewLibrary()
	orchestrator := exchange.New(userRepo, generator, personas, exchange.Config{})

	// billing is optional: without Stripe keys checkout routes are not registered
	var billingService *billing.Service
	if cfg.StripeAPIKey != "" {
		billingService, err = billing.NewService(billing.Config{
			APIKey:        cfg.StripeAPIKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			Users:         userRepo,
			Prices:        billing.LoadPriceTable(),
			SuccessURL:    cfg.FrontendURL + "/subscription/success",
			CancelURL:     cfg.FrontendURL + "/subscription/cancel",
		})
		if err != nil {
			redisClient.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
			db.Close()
			return nil, fmt.Errorf("failed to create billing service: %w", err)
		}
	} else {
		logger.Warn("stripe is not configured, billing routes disabled")
	}

	// mail is optional: without SMTP config reset emails are skipped
	mail, err := mailer.New(mailer.Config{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPass,
		FrontendURL: cfg.FrontendURL,
	})
	if err != nil {
		logger.Warn("smtp is not configured, password reset emails disabled", "error", err)
		mail = nil
	}

	router := gin.Default()

	server := &Server{
		db:           db,
		redis:        redisClient,
		config:       cfg,
		userRepo:     userRepo,
		orchestrator: orchestrator,
		personas:     personas,
		billing:      billingService,
		tokens:       tokens,
		mail:         mail,
		router:       router,
	}

	RegisterRoutes(router, server)

	return server, nil
}
