package users

import (
	"context"
	"errors"
	"time"
)

// subscription tiers sold through the billing provider
type Plan string

const (
	PlanNone       Plan = "none"
	PlanStarter    Plan = "starter"
	PlanSeeker     Plan = "seeker"
	PlanPathfinder Plan = "pathfinder"
	PlanUnlimited  Plan = "unlimited"
)

// message roles in the conversation history
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

// one entry in the conversation history
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// one completed question/answer pair, shown on the profile page
type Reading struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// represents a registered seeker
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	PasswordHash     string    `json:"-"`
	Provider         string    `json:"provider,omitempty"`
	ProviderID       string    `json:"-"`
	Plan             Plan      `json:"plan"`
	MinutesLeftToday int       `json:"minutes_left_today"`
	UsedMinutesToday int       `json:"used_minutes_today"`
	LastResetDate    string    `json:"last_reset_date"`
	Language         string    `json:"language"`
	SubscriptionID   string    `json:"-"`
	ChatHistory      []Message `json:"-"`
	Readings         []Reading `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// storage port for user accounts
//
// Update applies fn to the current account state and persists the result as a
// single atomic read-modify-write. All quota, history, and reading mutations
// go through it so two concurrent writers cannot lose each other's changes.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindOrCreateByProvider(ctx context.Context, provider, providerID, email, name string) (*User, error)
	Update(ctx context.Context, id string, fn func(*User) error) (*User, error)
}
