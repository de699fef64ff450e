package auth

import "codeberg.org/mysticoracle/server/oracle/users"

// AuthResponse returned after successful login or OAuth callback
type AuthResponse struct {
	User  *users.User `json:"user"`
	Token string      `json:"token"`
}

// MessageResponse for simple success messages
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest creates a password account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"max=100"`
}

// LoginRequest authenticates a password account
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RequestResetRequest starts the password-reset flow
type RequestResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the password-reset flow
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// UpdateEmailRequest changes the account email; requires the current password
type UpdateEmailRequest struct {
	NewEmail string `json:"new_email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required"`
}

// UpdatePasswordRequest changes the account password
type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
	Password    string `json:"password" binding:"required"`
}
