package exchange

import (
	"errors"
	"time"
)

// typed rejections surfaced to the HTTP layer; no raw provider or storage
// errors cross this boundary
var (
	ErrBusy            = errors.New("an exchange is already in flight for this seeker")
	ErrNoSubscription  = errors.New("no active subscription")
	ErrQuotaExhausted  = errors.New("no minutes left today")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrProviderFailure = errors.New("oracle provider failure")
)

// one inbound chat request from an authenticated seeker
type Request struct {
	UserID   string
	Message  string
	Language string // optional requested directive language
}

// the completed exchange returned to the caller
type Response struct {
	Answer      string
	MinutesLeft int
	Language    string
}

// tunes the orchestrator's pacing and provider behavior
type Config struct {
	// uniform contemplation delay range applied before the provider call
	DelayMin time.Duration
	DelayMax time.Duration

	// upper bound on a single provider call
	ProviderTimeout time.Duration

	// clock override for tests
	Now func() time.Time
}

const (
	defaultDelayMin        = 1800 * time.Millisecond
	defaultDelayMax        = 3 * time.Second
	defaultProviderTimeout = 60 * time.Second
)
