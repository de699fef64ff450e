// Package resettokens stores single-use password-reset tokens in Redis with a
// short TTL, so tokens expire on their own and survive server restarts.
package resettokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "reset_token:"
	defaultTTL = 15 * time.Minute
)

var ErrInvalidToken = errors.New("invalid or expired reset token")

// issues and consumes reset tokens
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// creates a store over an existing Redis client
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: defaultTTL}
}

// issues a fresh token bound to the given email
func (s *Store) Issue(ctx context.Context, email string) (string, error) {
	token := uuid.NewString()

	if err := s.client.Set(ctx, keyPrefix+token, email, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	return token, nil
}

// consumes a token and returns the bound email; each token works exactly once
func (s *Store) Consume(ctx context.Context, token string) (string, error) {
	email, err := s.client.GetDel(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrInvalidToken
		}

		return "", fmt.Errorf("failed to consume reset token: %w", err)
	}

	return email, nil
}
