package billing

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83"

	"codeberg.org/mysticoracle/server/oracle/users"
)

func newTestService(t *testing.T, repo users.Repository) *Service {
	t.Helper()

	service, err := NewService(Config{
		APIKey: "sk_test_fake",
		Users:  repo,
		Prices: NewPriceTable(map[users.Plan]string{
			users.PlanStarter: "price_starter",
			users.PlanSeeker:  "price_seeker",
		}),
		WebhookSecret: "whsec_test",
	})
	require.NoError(t, err)

	return service
}

func makeEvent(t *testing.T, eventType string, payload any) *stripe.Event {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	return &stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestHandleEvent_CheckoutCompletedActivatesPlan(t *testing.T) {
	repo := users.NewMemoryRepository()
	user, err := repo.Create(context.Background(), &users.User{
		Email: "buyer@example.com",
		Plan:  users.PlanNone,
	})
	require.NoError(t, err)

	service := newTestService(t, repo)

	event := makeEvent(t, "checkout.session.completed", map[string]any{
		"id": "cs_test_123",
		"metadata": map[string]string{
			"user_id": user.ID,
			"plan":    "seeker",
		},
		"subscription": map[string]any{"id": "sub_123"},
	})

	require.NoError(t, service.HandleEvent(context.Background(), event))

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, users.PlanSeeker, stored.Plan)
	assert.Equal(t, "sub_123", stored.SubscriptionID)
	assert.Equal(t, 60, stored.MinutesLeftToday, "purchase refills the allowance immediately")
	assert.Equal(t, 0, stored.UsedMinutesToday)
}

func TestHandleEvent_CheckoutCompletedFallsBackToClientReference(t *testing.T) {
	repo := users.NewMemoryRepository()
	user, err := repo.Create(context.Background(), &users.User{
		Email: "buyer@example.com",
		Plan:  users.PlanNone,
	})
	require.NoError(t, err)

	service := newTestService(t, repo)

	event := makeEvent(t, "checkout.session.completed", map[string]any{
		"id":                  "cs_test_456",
		"client_reference_id": user.ID,
		"metadata":            map[string]string{"plan": "starter"},
	})

	require.NoError(t, service.HandleEvent(context.Background(), event))

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, users.PlanStarter, stored.Plan)
	assert.Equal(t, 20, stored.MinutesLeftToday)
}

func TestHandleEvent_CheckoutCompletedRejectsUnknownPlan(t *testing.T) {
	repo := users.NewMemoryRepository()
	user, err := repo.Create(context.Background(), &users.User{Email: "buyer@example.com"})
	require.NoError(t, err)

	service := newTestService(t, repo)

	event := makeEvent(t, "checkout.session.completed", map[string]any{
		"id": "cs_test_789",
		"metadata": map[string]string{
			"user_id": user.ID,
			"plan":    "platinum",
		},
	})

	err = service.HandleEvent(context.Background(), event)
	assert.ErrorIs(t, err, ErrUnknownPlan)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, users.Plan(""), stored.Plan, "unknown plans must not be applied")
}

func TestHandleEvent_SubscriptionDeletedDowngrades(t *testing.T) {
	repo := users.NewMemoryRepository()
	user, err := repo.Create(context.Background(), &users.User{
		Email:            "leaver@example.com",
		Plan:             users.PlanSeeker,
		MinutesLeftToday: 42,
		SubscriptionID:   "sub_123",
	})
	require.NoError(t, err)

	service := newTestService(t, repo)

	event := makeEvent(t, "customer.subscription.deleted", map[string]any{
		"id":       "sub_123",
		"metadata": map[string]string{"user_id": user.ID},
	})

	require.NoError(t, service.HandleEvent(context.Background(), event))

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, users.PlanNone, stored.Plan)
	assert.Empty(t, stored.SubscriptionID)
	assert.Equal(t, 0, stored.MinutesLeftToday)
}

func TestHandleEvent_SubscriptionDeletedWithoutMetadataIsIgnored(t *testing.T) {
	repo := users.NewMemoryRepository()
	service := newTestService(t, repo)

	event := makeEvent(t, "customer.subscription.deleted", map[string]any{
		"id": "sub_orphan",
	})

	assert.NoError(t, service.HandleEvent(context.Background(), event))
}

func TestHandleEvent_UnknownTypeIsIgnored(t *testing.T) {
	repo := users.NewMemoryRepository()
	service := newTestService(t, repo)

	event := makeEvent(t, "invoice.paid", map[string]any{"id": "in_123"})

	assert.NoError(t, service.HandleEvent(context.Background(), event))
}

func TestPriceTable(t *testing.T) {
	table := NewPriceTable(map[users.Plan]string{
		users.PlanStarter: "price_starter",
		users.PlanSeeker:  "",
	})

	priceID, ok := table.PriceID(users.PlanStarter)
	assert.True(t, ok)
	assert.Equal(t, "price_starter", priceID)

	// empty price IDs are treated as unconfigured
	_, ok = table.PriceID(users.PlanSeeker)
	assert.False(t, ok)

	plan, ok := table.Plan("price_starter")
	assert.True(t, ok)
	assert.Equal(t, users.PlanStarter, plan)

	_, ok = table.Plan("price_unknown")
	assert.False(t, ok)
}
