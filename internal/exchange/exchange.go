// Package exchange implements the oracle's turn-taking engine: the single
// service between the HTTP handlers and the language-model provider. It
// enforces one in-flight question per seeker, the daily minutes budget, the
// conversation window, and the contemplation pacing.
package exchange

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"codeberg.org/mysticoracle/server/internal/llm"
	"codeberg.org/mysticoracle/server/internal/logger"
	"codeberg.org/mysticoracle/server/internal/persona"
	"codeberg.org/mysticoracle/server/oracle/users"
)

// runs the exchange state machine for every chat request
type Orchestrator struct {
	users     users.Repository
	generator llm.TextGenerator
	personas  *persona.Library
	gate      *Gate

	delayMin        time.Duration
	delayMax        time.Duration
	providerTimeout time.Duration
	now             func() time.Time
}

// creates an orchestrator owning its own gate
func New(repo users.Repository, generator llm.TextGenerator, personas *persona.Library, cfg Config) *Orchestrator {
	if cfg.DelayMin == 0 && cfg.DelayMax == 0 {
		cfg.DelayMin = defaultDelayMin
		cfg.DelayMax = defaultDelayMax
	}

	if cfg.ProviderTimeout == 0 {
		cfg.ProviderTimeout = defaultProviderTimeout
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Orchestrator{
		users:           repo,
		generator:       generator,
		personas:        personas,
		gate:            NewGate(),
		delayMin:        cfg.DelayMin,
		delayMax:        cfg.DelayMax,
		providerTimeout: cfg.ProviderTimeout,
		now:             cfg.Now,
	}
}

// Ask runs one complete exchange for a seeker.
//
// The gate is held across the contemplation delay and the provider call so a
// double-submit can never spend two minutes at once; it is released on every
// exit path. History and quota are only persisted after the provider
// succeeds, in a single atomic account update.
func (o *Orchestrator) Ask(ctx context.Context, req Request) (*Response, error) {
	if !o.gate.TryAcquire(req.UserID) {
		return nil, ErrBusy
	}
	defer o.gate.Release(req.UserID)

	user, err := o.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	today := o.now().Format(dateLayout)
	EnsureFreshAllowance(user, today)

	if user.Plan == "" || user.Plan == users.PlanNone {
		return nil, ErrNoSubscription
	}

	if user.MinutesLeftToday <= 0 {
		return nil, ErrQuotaExhausted
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	lang := o.personas.Resolve(req.Language, user.Language)
	directive := o.personas.Directive(lang)

	userMessage := users.Message{Role: users.RoleUser, Content: message}
	window := Window(append(user.ChatHistory, userMessage), WindowSize)

	// pacing happens before the provider call so the seeker always waits,
	// even when the provider answers instantly
	if err := o.contemplate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	providerCtx, cancel := context.WithTimeout(ctx, o.providerTimeout)
	defer cancel()

	answer, err := o.generator.Complete(providerCtx, llm.ChatRequest{
		System:   directive,
		Messages: toChatMessages(window),
	})
	if err != nil {
		logger.ErrorErr(err, "oracle completion failed", "user_id", req.UserID, "model", o.generator.Model())
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	updated, err := o.users.Update(ctx, user.ID, func(u *users.User) error {
		// the clock is re-read here: an exchange straddling midnight must not
		// roll the reset date back to the day it started on
		EnsureFreshAllowance(u, o.now().Format(dateLayout))
		u.Language = lang
		u.ChatHistory = append(u.ChatHistory,
			userMessage,
			users.Message{Role: users.RoleAssistant, Content: answer},
		)
		u.Readings = append(u.Readings, users.Reading{
			Question: message,
			Answer:   answer,
			AskedAt:  o.now(),
		})
		ConsumeOneUnit(u)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record exchange: %w", err)
	}

	return &Response{
		Answer:      answer,
		MinutesLeft: updated.MinutesLeftToday,
		Language:    lang,
	}, nil
}

// sleeps for a uniform random duration in the configured range
func (o *Orchestrator) contemplate(ctx context.Context) error {
	delay := o.delayMin
	if span := o.delayMax - o.delayMin; span > 0 {
		delay += time.Duration(rand.Int64N(int64(span)))
	}

	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func toChatMessages(window []users.Message) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, len(window))
	for i, msg := range window {
		messages[i] = llm.ChatMessage{Role: msg.Role, Content: msg.Content}
	}

	return messages
}
