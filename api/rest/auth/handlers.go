package auth

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"

	"codeberg.org/mysticoracle/server/internal/auth"
	apierrors "codeberg.org/mysticoracle/server/internal/errors"
	"codeberg.org/mysticoracle/server/internal/exchange"
	"codeberg.org/mysticoracle/server/internal/logger"
	"codeberg.org/mysticoracle/server/internal/mailer"
	"codeberg.org/mysticoracle/server/internal/persona"
	"codeberg.org/mysticoracle/server/internal/resettokens"
	"codeberg.org/mysticoracle/server/oracle/users"
)

// creates a password account with no subscription
func RegisterHandler(userRepo users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationError(c, err)
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			apierrors.InternalError(c, "failed to create account", err)
			return
		}

		_, err = userRepo.Create(c.Request.Context(), &users.User{
			Email:         req.Email,
			Name:          req.Name,
			PasswordHash:  hash,
			Plan:          users.PlanNone,
			LastResetDate: time.Now().Format("2006-01-02"),
			Language:      persona.DefaultLanguage,
		})
		if err != nil {
			if errors.Is(err, users.ErrEmailTaken) {
				apierrors.Conflict(c, "email already registered")
				return
			}

			apierrors.InternalError(c, "failed to create account", err)
			return
		}

		c.JSON(http.StatusCreated, MessageResponse{Message: "account created"})
	}
}

// authenticates a password account and issues a JWT
func LoginHandler(userRepo users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationError(c, err)
			return
		}

		user, err := userRepo.FindByEmail(c.Request.Context(), req.Email)
		if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
			apierrors.Unauthorized(c, "invalid email or password")
			return
		}

		// logging in on a new day refills the allowance before the client
		// renders the remaining minutes
		today := time.Now().Format("2006-01-02")
		user, err = userRepo.Update(c.Request.Context(), user.ID, func(u *users.User) error {
			exchange.EnsureFreshAllowance(u, today)
			return nil
		})
		if err != nil {
			apierrors.InternalError(c, "failed to refresh allowance", err)
			return
		}

		token, err := auth.GenerateJWT(user.ID, user.Email)
		if err != nil {
			apierrors.InternalError(c, "failed to generate token", err)
			return
		}

		c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
	}
}

// begins the OAuth flow with the requested provider
func BeginAuthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := c.Param("provider")

		if provider != "google" {
			apierrors.BadRequest(c, "invalid provider", nil)
			return
		}

		// set provider in query for gothic
		q := c.Request.URL.Query()
		q.Add("provider", provider)
		c.Request.URL.RawQuery = q.Encode()

		gothic.BeginAuthHandler(c.Writer, c.Request)
	}
}

// completes the OAuth flow and redirects to the frontend with a JWT
func CallbackHandler(userRepo users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := c.Param("provider")

		q := c.Request.URL.Query()
		q.Add("provider", provider)
		c.Request.URL.RawQuery = q.Encode()

		gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
		if err != nil {
			apierrors.InternalError(c, "authentication failed", err)
			return
		}

		user, err := userRepo.FindOrCreateByProvider(
			c.Request.Context(),
			gothUser.Provider,
			gothUser.UserID,
			gothUser.Email,
			gothUser.Name,
		)
		if err != nil {
			apierrors.InternalError(c, "failed to create user", err)
			return
		}

		token, err := auth.GenerateJWT(user.ID, user.Email)
		if err != nil {
			apierrors.InternalError(c, "failed to generate token", err)
			return
		}

		frontendURL := os.Getenv("FRONTEND_URL")
		if frontendURL == "" {
			frontendURL = "http://localhost:5173"
		}

		c.Redirect(http.StatusFound, frontendURL+"/login?token="+token)
	}
}

// starts the password-reset flow; always succeeds to avoid leaking which
// emails exist
func RequestResetHandler(userRepo users.Repository, tokens *resettokens.Store, mail *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RequestResetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationError(c, err)
			return
		}

		ctx := c.Request.Context()

		if _, err := userRepo.FindByEmail(ctx, req.Email); err == nil {
			token, err := tokens.Issue(ctx, req.Email)
			if err != nil {
				logger.ErrorErr(err, "failed to issue reset token", "email", req.Email)
			} else if mail != nil {
				if err := mail.SendPasswordReset(ctx, req.Email, token); err != nil {
					logger.ErrorErr(err, "failed to send reset email", "email", req.Email)
				}
			} else {
				logger.Warn("mailer not configured, reset token issued but not delivered")
			}
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "if the email exists, a reset link has been sent"})
	}
}

// completes the password-reset flow with a single-use token
func ResetPasswordHandler(userRepo users.Repository, tokens *resettokens.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationError(c, err)
			return
		}

		ctx := c.Request.Context()

		email, err := tokens.Consume(ctx, req.Token)
		if err != nil {
			if errors.Is(err, resettokens.ErrInvalidToken) {
				apierrors.BadRequest(c, "invalid or expired token", nil)
				return
			}

			apierrors.InternalError(c, "failed to verify token", err)
			return
		}

		user, err := userRepo.FindByEmail(ctx, email)
		if err != nil {
			apierrors.NotFound(c, "user")
			return
		}

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			apierrors.InternalError(c, "failed to update password", err)
			return
		}

		if _, err := userRepo.Update(ctx, user.ID, func(u *users.User) error {
			u.PasswordHash = hash
			return nil
		}); err != nil {
			apierrors.InternalError(c, "failed to update password", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
	}
}

// changes the account email after re-checking the current password
func UpdateEmailHandler(userRepo users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		var req UpdateEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationError(c, err)
			return
		}

		ctx := c.Request.Context()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			apierrors.NotFound(c, "user")
			return
		}

		if !auth.CheckPassword(user.PasswordHash, req.Password) {
			apierrors.Forbidden(c, "invalid password")
			return
		}

		if _, err := userRepo.Update(ctx, userID, func(u *users.User) error {
			u.Email = req.NewEmail
			return nil
		}); err != nil {
			if errors.Is(err, users.ErrEmailTaken) {
				apierrors.Conflict(c, "email already in use")
				return
			}

			apierrors.InternalError(c, "failed to update email", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "email updated"})
	}
}

// changes the account password after re-checking the current one
func UpdatePasswordHandler(userRepo users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		var req UpdatePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationError(c, err)
			return
		}

		ctx := c.Request.Context()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			apierrors.NotFound(c, "user")
			return
		}

		if !auth.CheckPassword(user.PasswordHash, req.Password) {
			apierrors.Forbidden(c, "invalid password")
			return
		}

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			apierrors.InternalError(c, "failed to update password", err)
			return
		}

		if _, err := userRepo.Update(ctx, userID, func(u *users.User) error {
			u.PasswordHash = hash
			return nil
		}); err != nil {
			apierrors.InternalError(c, "failed to update password", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
	}
}
