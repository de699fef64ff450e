package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// in-memory Repository used by tests and local development
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]*User
}

// creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*User)}
}

func (r *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, ErrEmailTaken
		}
	}

	stored := cloneUser(user)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.users[stored.ID] = stored

	return cloneUser(stored), nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	return cloneUser(user), nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}

	return nil, ErrNotFound
}

func (r *MemoryRepository) FindOrCreateByProvider(
	_ context.Context,
	provider, providerID, email, name string,
) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Provider == provider && user.ProviderID == providerID {
			user.Email = email
			user.Name = name
			user.UpdatedAt = time.Now()

			return cloneUser(user), nil
		}
	}

	// a password account with the same email is the same seeker: attach the
	// provider identity instead of creating a duplicate
	for _, user := range r.users {
		if user.Email == email {
			user.Provider = provider
			user.ProviderID = providerID
			if user.Name == "" {
				user.Name = name
			}
			user.UpdatedAt = time.Now()

			return cloneUser(user), nil
		}
	}

	now := time.Now()
	user := &User{
		ID:            uuid.NewString(),
		Email:         email,
		Name:          name,
		Provider:      provider,
		ProviderID:    providerID,
		Plan:          PlanNone,
		LastResetDate: now.Format("2006-01-02"),
		Language:      "en",
		ChatHistory:   []Message{},
		Readings:      []Reading{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.users[user.ID] = user

	return cloneUser(user), nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, fn func(*User) error) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	// mutate a copy so a failing fn leaves the stored account untouched
	updated := cloneUser(user)
	if err := fn(updated); err != nil {
		return nil, err
	}

	updated.UpdatedAt = time.Now()
	r.users[id] = updated

	return cloneUser(updated), nil
}

func cloneUser(user *User) *User {
	copied := *user
	copied.ChatHistory = append([]Message(nil), user.ChatHistory...)
	copied.Readings = append([]Reading(nil), user.Readings...)

	return &copied
}
