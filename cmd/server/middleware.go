package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"codeberg.org/mysticoracle/server/internal/config"
	"codeberg.org/mysticoracle/server/internal/logger"
)

// allows the frontend origin with credentials and the Authorization header
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.Environment != "production" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, "http://localhost:5173")
	}

	return cors.New(corsConfig)
}

// limits login and registration attempts per client IP
func AuthRateLimiter() gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted("20-M")
	if err != nil {
		logger.FatalErr(err, "failed to parse auth rate limit")
	}

	return mgin.NewMiddleware(limiter.New(memory.NewStore(), rate))
}
