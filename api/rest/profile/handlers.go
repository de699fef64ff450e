package profile

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"codeberg.org/mysticoracle/server/internal/auth"
	apierrors "codeberg.org/mysticoracle/server/internal/errors"
	"codeberg.org/mysticoracle/server/internal/exchange"
	"codeberg.org/mysticoracle/server/internal/persona"
	"codeberg.org/mysticoracle/server/oracle/users"
)

// returns the account profile, refreshing the daily allowance on a new day
func GetHandler(userRepo users.Repository, personas *persona.Library) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		today := time.Now().Format("2006-01-02")
		user, err := userRepo.Update(c.Request.Context(), userID, func(u *users.User) error {
			exchange.EnsureFreshAllowance(u, today)
			return nil
		})
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				apierrors.NotFound(c, "user")
				return
			}

			apierrors.InternalError(c, "failed to load profile", err)
			return
		}

		readings := user.Readings
		if readings == nil {
			readings = []users.Reading{}
		}

		c.JSON(http.StatusOK, Response{
			ID:               user.ID,
			Email:            user.Email,
			Name:             user.Name,
			Plan:             user.Plan,
			MinutesLeftToday: user.MinutesLeftToday,
			UsedMinutesToday: user.UsedMinutesToday,
			Language:         user.Language,
			Languages:        personas.Languages(),
			Readings:         readings,
		})
	}
}
