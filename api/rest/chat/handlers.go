package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/mysticoracle/server/internal/auth"
	apierrors "codeberg.org/mysticoracle/server/internal/errors"
	"codeberg.org/mysticoracle/server/internal/exchange"
	"codeberg.org/mysticoracle/server/oracle/users"
)

// runs one question through the oracle and maps exchange errors to responses
func AskHandler(orchestrator *exchange.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		var req AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationError(c, err)
			return
		}

		resp, err := orchestrator.Ask(c.Request.Context(), exchange.Request{
			UserID:   userID,
			Message:  req.Message,
			Language: req.Language,
		})

		if err != nil {
			switch {
			case errors.Is(err, exchange.ErrBusy):
				apierrors.OracleBusy(c)
			case errors.Is(err, exchange.ErrNoSubscription):
				apierrors.NoSubscription(c)
			case errors.Is(err, exchange.ErrQuotaExhausted):
				apierrors.QuotaExhausted(c)
			case errors.Is(err, exchange.ErrEmptyMessage):
				apierrors.EmptyMessage(c)
			case errors.Is(err, users.ErrNotFound):
				apierrors.NotFound(c, "user")
			case errors.Is(err, exchange.ErrProviderFailure):
				apierrors.OracleUnavailable(c, err)
			default:
				apierrors.InternalError(c, "exchange failed", err)
			}

			return
		}

		c.JSON(http.StatusOK, AskResponse{
			Answer:      resp.Answer,
			MinutesLeft: resp.MinutesLeft,
			Language:    resp.Language,
		})
	}
}
