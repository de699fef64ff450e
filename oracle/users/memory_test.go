package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndFind(t *testing.T) {
	repo := NewMemoryRepository()

	created, err := repo.Create(context.Background(), &User{
		Email: "seeker@example.com",
		Name:  "Seeker",
		Plan:  PlanNone,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "seeker@example.com", byID.Email)

	byEmail, err := repo.FindByEmail(context.Background(), "seeker@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepository_CreateDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Create(context.Background(), &User{Email: "taken@example.com"})
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), &User{Email: "taken@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestMemoryRepository_FindOrCreateByProvider(t *testing.T) {
	repo := NewMemoryRepository()

	first, err := repo.FindOrCreateByProvider(context.Background(), "google", "g-123", "oauth@example.com", "OAuth Person")
	require.NoError(t, err)
	assert.Equal(t, PlanNone, first.Plan)

	// a second login with the same provider identity returns the same account
	second, err := repo.FindOrCreateByProvider(context.Background(), "google", "g-123", "renamed@example.com", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "renamed@example.com", second.Email)
}

func TestMemoryRepository_FindOrCreateByProvider_LinksPasswordAccount(t *testing.T) {
	repo := NewMemoryRepository()

	// registered with a password first, signs in with Google later
	existing, err := repo.Create(context.Background(), &User{
		Email:            "seeker@example.com",
		Name:             "Seeker",
		PasswordHash:     "bcrypt-hash",
		Plan:             PlanSeeker,
		MinutesLeftToday: 42,
		ChatHistory:      []Message{{Role: RoleUser, Content: "hello"}},
	})
	require.NoError(t, err)

	linked, err := repo.FindOrCreateByProvider(context.Background(), "google", "g-1", "seeker@example.com", "Seeker G")
	require.NoError(t, err)

	assert.Equal(t, existing.ID, linked.ID, "OAuth login with a known email must reuse the account")
	assert.Equal(t, "google", linked.Provider)
	assert.Equal(t, "g-1", linked.ProviderID)
	assert.Equal(t, "Seeker", linked.Name, "an existing name is not overwritten")
	assert.Equal(t, PlanSeeker, linked.Plan)
	assert.Equal(t, 42, linked.MinutesLeftToday)
	assert.Equal(t, "bcrypt-hash", linked.PasswordHash, "password login keeps working")
	assert.Len(t, linked.ChatHistory, 1)

	// no duplicate account was created
	byEmail, err := repo.FindByEmail(context.Background(), "seeker@example.com")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, byEmail.ID)

	// subsequent logins with the same identity still resolve to it
	again, err := repo.FindOrCreateByProvider(context.Background(), "google", "g-1", "seeker@example.com", "Seeker G")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, again.ID)
}

func TestMemoryRepository_Update(t *testing.T) {
	repo := NewMemoryRepository()

	created, err := repo.Create(context.Background(), &User{
		Email:            "seeker@example.com",
		Plan:             PlanSeeker,
		MinutesLeftToday: 60,
	})
	require.NoError(t, err)

	updated, err := repo.Update(context.Background(), created.ID, func(u *User) error {
		u.MinutesLeftToday--
		u.ChatHistory = append(u.ChatHistory, Message{Role: RoleUser, Content: "hello"})

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 59, updated.MinutesLeftToday)
	assert.Len(t, updated.ChatHistory, 1)

	_, err = repo.Update(context.Background(), "missing", func(u *User) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepository_UpdateFailureLeavesStateUntouched(t *testing.T) {
	repo := NewMemoryRepository()

	created, err := repo.Create(context.Background(), &User{
		Email:            "seeker@example.com",
		MinutesLeftToday: 60,
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = repo.Update(context.Background(), created.ID, func(u *User) error {
		u.MinutesLeftToday = 0

		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, stored.MinutesLeftToday, "a failed update must not be persisted")
}

func TestMemoryRepository_ReturnsClones(t *testing.T) {
	repo := NewMemoryRepository()

	created, err := repo.Create(context.Background(), &User{
		Email:       "seeker@example.com",
		ChatHistory: []Message{{Role: RoleUser, Content: "original"}},
	})
	require.NoError(t, err)

	// mutating a returned value must not leak into the store
	created.ChatHistory[0].Content = "mutated"
	created.Email = "hacked@example.com"

	stored, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "seeker@example.com", stored.Email)
	assert.Equal(t, "original", stored.ChatHistory[0].Content)
}
