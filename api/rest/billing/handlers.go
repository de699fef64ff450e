package billing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/mysticoracle/server/internal/auth"
	"codeberg.org/mysticoracle/server/internal/billing"
	apierrors "codeberg.org/mysticoracle/server/internal/errors"
	"codeberg.org/mysticoracle/server/internal/logger"
	"codeberg.org/mysticoracle/server/oracle/users"
)

// creates a hosted checkout session for the requested plan
func CheckoutHandler(service *billing.Service, userRepo users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationError(c, err)
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				apierrors.NotFound(c, "user")
				return
			}

			apierrors.InternalError(c, "failed to load user", err)
			return
		}

		url, err := service.CheckoutURL(c.Request.Context(), user, users.Plan(req.Plan))
		if err != nil {
			if errors.Is(err, billing.ErrUnknownPlan) {
				apierrors.BadRequest(c, "unknown plan", err)
				return
			}

			apierrors.InternalError(c, "failed to create checkout session", err)
			return
		}

		c.JSON(http.StatusOK, CheckoutResponse{URL: url})
	}
}

// verifies and applies incoming billing events
func WebhookHandler(service *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := c.GetRawData()
		if err != nil {
			apierrors.BadRequest(c, "failed to read webhook payload", err)
			return
		}

		event, err := service.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			apierrors.BadRequest(c, "webhook signature verification failed", err)
			return
		}

		if err := service.HandleEvent(c.Request.Context(), event); err != nil {
			logger.ErrorErr(err, "failed to handle billing event", "type", event.Type)
			apierrors.InternalError(c, "failed to handle billing event", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
