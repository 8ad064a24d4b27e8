// Package relay implements the question/answer correlation and routing
// engine: intake fan-out to the expert panel, mailbox polling with reply
// correlation by subject token, and follow-up reminders for stale
// dispatches.
package relay

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/eldtechnologies/maven/internal/mail"
	"github.com/eldtechnologies/maven/internal/models"
	"github.com/eldtechnologies/maven/internal/store"
)

// Sender delivers answer payloads back to chat-originated questions.
type Sender interface {
	Send(chatID int64, text string) error
}

// Config carries the relay's collaborators and tuning knobs.
type Config struct {
	Store store.QuestionStore
	Seen  *store.SeenCache // optional; nil disables the cache
	Mail  mail.Transport
	Chat  Sender

	Experts []models.Expert

	MinAnswerLen  int           // default 10
	ReminderAfter time.Duration // default 24h
	MailTimeout   time.Duration // default 30s
	Scorer        Scorer        // default KeywordOverlap

	Logger zerolog.Logger
}

// Relay wires the intake router, the reply correlator and the reminder
// sweeper around the shared question registry.
type Relay struct {
	store  store.QuestionStore
	seen   *store.SeenCache
	mail   mail.Transport
	chat   Sender
	logger zerolog.Logger

	experts []models.Expert
	byAddr  map[string]models.Expert

	registry *Registry
	scorer   Scorer

	minAnswerLen  int
	reminderAfter time.Duration
	mailTimeout   time.Duration
}

// New creates a Relay from cfg, applying defaults for unset knobs.
func New(cfg Config) *Relay {
	if cfg.MinAnswerLen <= 0 {
		cfg.MinAnswerLen = 10
	}
	if cfg.ReminderAfter <= 0 {
		cfg.ReminderAfter = 24 * time.Hour
	}
	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = 30 * time.Second
	}
	if cfg.Scorer == nil {
		cfg.Scorer = KeywordOverlap{}
	}

	byAddr := make(map[string]models.Expert, len(cfg.Experts))
	for _, e := range cfg.Experts {
		byAddr[normalizeKey(e.Address)] = e
	}

	return &Relay{
		store:         cfg.Store,
		seen:          cfg.Seen,
		mail:          cfg.Mail,
		chat:          cfg.Chat,
		logger:        cfg.Logger,
		experts:       cfg.Experts,
		byAddr:        byAddr,
		registry:      NewRegistry(),
		scorer:        cfg.Scorer,
		minAnswerLen:  cfg.MinAnswerLen,
		reminderAfter: cfg.ReminderAfter,
		mailTimeout:   cfg.MailTimeout,
	}
}

// SetChat wires the chat sender. Called once at startup, before any timer
// fires; the front-end and the relay reference each other.
func (r *Relay) SetChat(s Sender) {
	r.chat = s
}

// Restore seeds the in-memory registry from the durable store. Called once
// at startup; the correlator reloads on its own when a lookup misses.
func (r *Relay) Restore(ctx context.Context) error {
	questions, err := r.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	r.registry.Merge(questions)
	r.logger.Info().Int("questions", len(questions)).Msg("restored question registry")
	return nil
}

// Registry exposes the shared registry, for the health surface.
func (r *Relay) Registry() *Registry {
	return r.registry
}

func normalizeKey(addr string) string {
	return mail.NormalizeAddress(addr)
}
