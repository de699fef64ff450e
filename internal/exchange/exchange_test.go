package exchange

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mysticoracle/server/internal/llm"
	"codeberg.org/mysticoracle/server/internal/persona"
	"codeberg.org/mysticoracle/server/oracle/users"
)

// mock text generator with an injectable completion function
type mockGenerator struct {
	completeFunc func(ctx context.Context, req llm.ChatRequest) (string, error)
}

func (m *mockGenerator) Complete(ctx context.Context, req llm.ChatRequest) (string, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, req)
	}

	return "the cards are silent", nil
}

func (m *mockGenerator) Model() string {
	return "mock-model"
}

var testClock = func() time.Time {
	return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
}

func newTestOrchestrator(repo users.Repository, gen llm.TextGenerator) *Orchestrator {
	return New(repo, gen, persona.NewLibrary(), Config{
		DelayMin:        time.Millisecond,
		DelayMax:        time.Millisecond,
		ProviderTimeout: time.Second,
		Now:             testClock,
	})
}

func seedUser(t *testing.T, repo users.Repository, user *users.User) *users.User {
	t.Helper()

	created, err := repo.Create(context.Background(), user)
	require.NoError(t, err)

	return created
}

func TestAsk_Success(t *testing.T) {
	repo := users.NewMemoryRepository()
	user := seedUser(t, repo, &users.User{
		Email:            "seeker@example.com",
		Plan:             users.PlanSeeker,
		MinutesLeftToday: 1,
		UsedMinutesToday: 59,
		LastResetDate:    "2025-03-15",
		Language:         "en",
	})

	orchestrator := newTestOrchestrator(repo, &mockGenerator{})

	resp, err := orchestrator.Ask(context.Background(), Request{
		UserID:  user.ID,
		Message: "  will I find what I seek?  ",
	})

	require.NoError(t, err)
	assert.Equal(t, "the cards are silent", resp.Answer)
	assert.Equal(t, 0, resp.MinutesLeft)
	assert.Equal(t, "en", resp.Language)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.MinutesLeftToday)
	assert.Equal(t, 60, stored.UsedMinutesToday)

	require.Len(t, stored.ChatHistory, 2)
	assert.Equal(t, users.RoleUser, stored.ChatHistory[0].Role)
	assert.Equal(t, "will I find what I seek?", stored.ChatHistory[0].Content, "message should be trimmed before storage")
	assert.Equal(t, users.RoleAssistant, stored.ChatHistory[1].Role)

	require.Len(t, stored.Readings, 1)
	assert.Equal(t, "will I find what I seek?", stored.Readings[0].Question)
	assert.Equal(t, "the cards are silent", stored.Readings[0].Answer)
	assert.Equal(t, testClock(), stored.Readings[0].AskedAt)
}

func TestAsk_NoSubscription(t *testing.T) {
	repo := users.NewMemoryRepository()
	user := seedUser(t, repo, &users.User{
		Email:         "free@example.com",
		Plan:          users.PlanNone,
		LastResetDate: "2025-03-15",
	})

	orchestrator := newTestOrchestrator(repo, &mockGenerator{})

	_, err := orchestrator.Ask(context.Background(), Request{UserID: user.ID, Message: "hello"})

	assert.ErrorIs(t, err, ErrNoSubscription)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ChatHistory, "nothing should be persisted on rejection")
}

func TestAsk_QuotaExhausted(t *testing.T) {
	repo := users.NewMemoryRepository()
	user := seedUser(t, repo, &users.User{
		Email:            "tired@example.com",
		Plan:             users.PlanStarter,
		MinutesLeftToday: 0,
		UsedMinutesToday: 20,
		LastResetDate:    "2025-03-15",
	})

	orchestrator := newTestOrchestrator(repo, &mockGenerator{})

	_, err := orchestrator.Ask(context.Background(), Request{UserID: user.ID, Message: "one more?"})

	assert.ErrorIs(t, err, ErrQuotaExhausted)
}

func TestAsk_NewDayRefillsAllowance(t *testing.T) {
	repo := users.NewMemoryRepository()
	user := seedUser(t, repo, &users.User{
		Email:            "returning@example.com",
		Plan:             users.PlanStarter,
		MinutesLeftToday: 0,
		UsedMinutesToday: 20,
		LastResetDate:    "2025-03-14", // yesterday relative to the test clock
	})

	orchestrator := newTestOrchestrator(repo, &mockGenerator{})

	resp, err := orchestrator.Ask(context.Background(), Request{UserID: user.ID, Message: "a new dawn"})

	require.NoError(t, err)
	assert.Equal(t, 19, resp.MinutesLeft)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", stored.LastResetDate)
	assert.Equal(t, 1, stored.UsedMinutesToday)
}

func TestAsk_EmptyMessage(t *testing.T) {
	repo := users.NewMemoryRepository()
	user := seedUser(t, repo, &users.User{
		Email:            "quiet@example.com",
		Plan:             users.PlanSeeker,
		MinutesLeftToday: 60,
		LastResetDate:    "2025-03-15",
	})

	orchestrator := newTestOrchestrator(repo, &mockGenerator{})

	for _, message := range []string{"", "   ", "\n\t"} {
		_, err := orchestrator.Ask(context.Background(), Request{UserID: user.ID, Message: message})
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, stored.MinutesLeftToday, "empty messages should not cost minutes")
}

func TestAsk_UnknownUser(t *testing.T) {
	repo := users.NewMemoryRepository()
	orchestrator := newTestOrchestrator(repo, &mockGenerator{})

	_, err := orchestrator.Ask(context.Background(), Request{UserID: "missing", Message: "hello"})

	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestAsk_ProviderFailureLeavesAccountUntouched(t *testing.T) {
	repo := users.NewMemoryRepository()
	user := seedUser(t, repo, &users.User{
		Email:            "unlucky@example.com",
		Plan:             users.PlanSeeker,
		MinutesLeftToday: 60,
		LastResetDate:    "2025-03-15",
	})

	failing := &mockGenerator{
		completeFunc: func(ctx context.Context, req llm.ChatRequest) (string, error) {
			return "", errors.New("upstream 500")
		},
	}

	orchestrator := newTestOrchestrator(repo, failing)

	_, err := orchestrator.Ask(context.Background(), Request{UserID: user.ID, Message: "what awaits me?"})

	assert.ErrorIs(t, err, ErrProviderFailure)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, stored.MinutesLeftToday, "failed exchanges should not cost minutes")
	assert.Empty(t, stored.ChatHistory, "failed exchanges should not be recorded")

	// the gate must be released: a retry goes through
	orchestrator.generator = &mockGenerator{}
	resp, err := orchestrator.Ask(context.Background(), Request{UserID: user.ID, Message: "what awaits me?"})
	require.NoError(t, err)
	assert.Equal(t, 59, resp.MinutesLeft)
}

func TestAsk_SecondQuestionWhileInFlightIsRejected(t *testing.T) {
	repo := users.NewMemoryRepository()
	user := seedUser(t, repo, &users.User{
		Email:            "eager@example.com",
		Plan:             users.PlanUnlimited,
		MinutesLeftToday: 1440,
		LastResetDate:    "2025-03-15",
	})

	providerEntered := make(chan struct{})
	providerRelease := make(chan struct{})
	blocking := &mockGenerator{
		completeFunc: func(ctx context.Context, req llm.ChatRequest) (string, error) {
			close(providerEntered)
			<-providerRelease

			return "patience", nil
		},
	}

	orchestrator := newTestOrchestrator(repo, blocking)

	var wg sync.WaitGroup
	wg.Add(1)

	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = orchestrator.Ask(context.Background(), Request{UserID: user.ID, Message: "first"})
	}()

	<-providerEntered

	_, err := orchestrator.Ask(context.Background(), Request{UserID: user.ID, Message: "second"})
	assert.ErrorIs(t, err, ErrBusy)

	close(providerRelease)
	wg.Wait()
	require.NoError(t, firstErr)

	// once the first exchange completes the seeker can ask again
	orchestrator.generator = &mockGenerator{}
	_, err = orchestrator.Ask(context.Background(), Request{UserID: user.ID, Message: "third"})
	assert.NoError(t, err)
}

func TestAsk_WindowLimitsProviderContext(t *testing.T) {
	history := make([]users.Message, 0, 14)
	for i := 0; i < 7; i++ {
		history = append(history,
			users.Message{Role: users.RoleUser, Content: "old question"},
			users.Message{Role: users.RoleAssistant, Content: "old answer"},
		)
	}

	repo := users.NewMemoryRepository()
	user := seedUser(t, repo, &users.User{
		Email:            "regular@example.com",
		Plan:             users.PlanPathfinder,
		MinutesLeftToday: 720,
		LastResetDate:    "2025-03-15",
		ChatHistory:      history,
	})

	var captured llm.ChatRequest
	capturing := &mockGenerator{
		completeFunc: func(ctx context.Context, req llm.ChatRequest) (string, error) {
			captured = req

			return "noted", nil
		},
	}

	orchestrator := newTestOrchestrator(repo, capturing)

	_, err := orchestrator.Ask(context.Background(), Request{UserID: user.ID, Message: "the fresh question"})
	require.NoError(t, err)

	require.Len(t, captured.Messages, WindowSize)
	assert.Equal(t, "the fresh question", captured.Messages[WindowSize-1].Content, "newest message must close the window")
	assert.NotEmpty(t, captured.System, "the persona directive rides outside the window")

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, stored.ChatHistory, 16, "full history is kept in storage, only the provider view is windowed")
}

func TestAsk_LanguageFallbackAndPersistence(t *testing.T) {
	repo := users.NewMemoryRepository()
	user := seedUser(t, repo, &users.User{
		Email:            "poliglot@example.com",
		Plan:             users.PlanSeeker,
		MinutesLeftToday: 60,
		LastResetDate:    "2025-03-15",
		Language:         "sl",
	})

	orchestrator := newTestOrchestrator(repo, &mockGenerator{})

	// unsupported request falls back to the stored preference
	resp, err := orchestrator.Ask(context.Background(), Request{UserID: user.ID, Message: "kaj me čaka?", Language: "fr"})
	require.NoError(t, err)
	assert.Equal(t, "sl", resp.Language)

	// a supported request wins and is persisted
	resp, err = orchestrator.Ask(context.Background(), Request{UserID: user.ID, Message: "and now?", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "en", resp.Language)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "en", stored.Language)
}

func TestAsk_ExchangeStraddlingMidnightKeepsNewDayRefill(t *testing.T) {
	repo := users.NewMemoryRepository()
	user := seedUser(t, repo, &users.User{
		Email:            "nightowl@example.com",
		Plan:             users.PlanSeeker,
		MinutesLeftToday: 5,
		UsedMinutesToday: 55,
		LastResetDate:    "2025-03-15",
	})

	// the exchange starts just before midnight; while the provider is busy the
	// clock rolls over and a concurrent profile view refills the allowance
	var clock atomic.Value
	clock.Store(time.Date(2025, 3, 15, 23, 59, 58, 0, time.UTC))

	crossing := &mockGenerator{
		completeFunc: func(ctx context.Context, req llm.ChatRequest) (string, error) {
			clock.Store(time.Date(2025, 3, 16, 0, 0, 2, 0, time.UTC))

			_, err := repo.Update(context.Background(), user.ID, func(u *users.User) error {
				EnsureFreshAllowance(u, "2025-03-16")
				return nil
			})

			return "midnight counsel", err
		},
	}

	orchestrator := New(repo, crossing, persona.NewLibrary(), Config{
		DelayMin:        time.Millisecond,
		DelayMax:        time.Millisecond,
		ProviderTimeout: time.Second,
		Now:             func() time.Time { return clock.Load().(time.Time) },
	})

	resp, err := orchestrator.Ask(context.Background(), Request{UserID: user.ID, Message: "what does the new day hold?"})
	require.NoError(t, err)
	assert.Equal(t, 59, resp.MinutesLeft, "the new day's refill must survive the recording step")

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-16", stored.LastResetDate, "the reset date must not roll back to the starting day")
	assert.Equal(t, 1, stored.UsedMinutesToday)
}

func TestAsk_CancelledContextDuringContemplation(t *testing.T) {
	repo := users.NewMemoryRepository()
	user := seedUser(t, repo, &users.User{
		Email:            "impatient@example.com",
		Plan:             users.PlanSeeker,
		MinutesLeftToday: 60,
		LastResetDate:    "2025-03-15",
	})

	orchestrator := New(repo, &mockGenerator{}, persona.NewLibrary(), Config{
		DelayMin: 5 * time.Second,
		DelayMax: 6 * time.Second,
		Now:      testClock,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orchestrator.Ask(ctx, Request{UserID: user.ID, Message: "quick!"})

	assert.ErrorIs(t, err, ErrProviderFailure)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, stored.MinutesLeftToday)
}
