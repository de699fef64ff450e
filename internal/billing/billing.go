// Package billing wraps the Stripe integration: checkout session creation for
// plan purchases and webhook processing for subscription lifecycle events.
// The purchased plan identifier always travels in session metadata and is
// applied as authoritative when the webhook arrives.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v83"

	"codeberg.org/mysticoracle/server/internal/exchange"
	"codeberg.org/mysticoracle/server/internal/logger"
	"codeberg.org/mysticoracle/server/oracle/users"
)

// configuration for the billing service
type Config struct {
	APIKey        string
	WebhookSecret string
	Users         users.Repository
	Prices        *PriceTable
	SuccessURL    string
	CancelURL     string
}

// handles checkout creation and webhook events
type Service struct {
	client        *stripe.Client
	users         users.Repository
	prices        *PriceTable
	webhookSecret string
	successURL    string
	cancelURL     string
}

// creates a new billing service
func NewService(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	if cfg.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}

	if cfg.Prices == nil {
		cfg.Prices = LoadPriceTable()
	}

	return &Service{
		client:        stripe.NewClient(cfg.APIKey),
		users:         cfg.Users,
		prices:        cfg.Prices,
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
	}, nil
}

// creates a Stripe Checkout Session for a plan purchase and returns its URL
//
// The user id and purchased plan are injected into both the session and the
// subscription metadata so the webhook handler can apply the correct tier.
func (s *Service) CheckoutURL(ctx context.Context, user *users.User, plan users.Plan) (string, error) {
	priceID, ok := s.prices.PriceID(plan)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlan, plan)
	}

	params := &stripe.CheckoutSessionCreateParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail:     stripe.String(user.Email),
		ClientReferenceID: stripe.String(user.ID),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
	}

	params.AddMetadata("user_id", user.ID)
	params.AddMetadata("plan", string(plan))

	params.SubscriptionData = &stripe.CheckoutSessionCreateSubscriptionDataParams{}
	params.SubscriptionData.AddMetadata("user_id", user.ID)
	params.SubscriptionData.AddMetadata("plan", string(plan))

	session, err := s.client.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return session.URL, nil
}

// verifies a webhook payload signature and parses the event
func (s *Service) VerifyWebhook(payload []byte, signature string) (*stripe.Event, error) {
	if s.webhookSecret == "" {
		return nil, ErrNotConfigured
	}

	event, err := stripe.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	return &event, nil
}

// processes a verified webhook event
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, event)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(ctx, event)
	default:
		// unknown event type - ignore silently
		return nil
	}
}

// applies the purchased plan and performs an immediate allowance refill
func (s *Service) handleCheckoutCompleted(ctx context.Context, event *stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	userID := session.Metadata["user_id"]
	if userID == "" {
		userID = session.ClientReferenceID
	}

	if userID == "" {
		return fmt.Errorf("checkout session %s carries no user id", session.ID)
	}

	plan := users.Plan(session.Metadata["plan"])
	if _, ok := s.prices.PriceID(plan); !ok {
		return fmt.Errorf("%w: %q on session %s", ErrUnknownPlan, plan, session.ID)
	}

	subscriptionID := ""
	if session.Subscription != nil {
		subscriptionID = session.Subscription.ID
	}

	today := time.Now().Format("2006-01-02")

	_, err := s.users.Update(ctx, userID, func(u *users.User) error {
		u.Plan = plan
		u.SubscriptionID = subscriptionID
		u.LastResetDate = today
		u.MinutesLeftToday = exchange.PlanAllowance(plan)
		u.UsedMinutesToday = 0

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply plan %s to user %s: %w", plan, userID, err)
	}

	logger.Info("subscription activated", "user_id", userID, "plan", plan)

	return nil
}

// downgrades the user to the free tier when the subscription ends
func (s *Service) handleSubscriptionDeleted(ctx context.Context, event *stripe.Event) error {
	var subscription stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	userID := subscription.Metadata["user_id"]
	if userID == "" {
		// subscriptions created outside checkout carry no metadata; nothing to do
		logger.Warn("subscription deleted without user metadata", "subscription_id", subscription.ID)
		return nil
	}

	_, err := s.users.Update(ctx, userID, func(u *users.User) error {
		u.Plan = users.PlanNone
		u.SubscriptionID = ""
		u.MinutesLeftToday = 0

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to downgrade user %s: %w", userID, err)
	}

	logger.Info("subscription ended", "user_id", userID)

	return nil
}
