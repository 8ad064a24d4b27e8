package relay

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eldtechnologies/maven/internal/mail"
	"github.com/eldtechnologies/maven/internal/metrics"
	"github.com/eldtechnologies/maven/internal/models"
)

// Poll scans the mailbox once and relays every correlatable expert reply
// to its requester. Messages are processed independently: a failure on one
// never aborts the rest, and every message has its unread flag cleared on
// all exit paths.
func (r *Relay) Poll(ctx context.Context) {
	cycle := uuid.NewString()[:8]
	log := r.logger.With().Str("cycle", cycle).Logger()
	start := time.Now()
	defer func() {
		metrics.PollDuration.Observe(time.Since(start).Seconds())
	}()

	ids, err := r.mail.ListUnread(ctx)
	if err != nil {
		log.Error().Err(err).Msg("unread listing failed")
		return
	}
	if len(ids) == 0 {
		return
	}
	log.Debug().Int("unread", len(ids)).Msg("scanning mailbox")

	for _, id := range ids {
		if r.seen.WasProcessed(ctx, id) {
			r.markRead(ctx, id, log)
			continue
		}
		r.processMessage(ctx, id, log)
	}
}

// processMessage runs one inbound message through the correlation
// pipeline: authorize sender, extract the id token, resolve the question,
// clean the body, deliver, record.
func (r *Relay) processMessage(ctx context.Context, msgID string, log zerolog.Logger) {
	// The unread flag must clear even on failure paths, or the message is
	// reprocessed forever.
	defer r.markRead(ctx, msgID, log)

	raw, err := r.mail.FetchRaw(ctx, msgID)
	if err != nil {
		log.Error().Err(err).Str("message_id", msgID).Msg("fetch failed")
		return
	}

	env, err := mail.ParseEnvelope(raw)
	if err != nil {
		r.reject(log, msgID, "malformed", err, "")
		return
	}

	expert, ok := r.byAddr[env.Sender]
	if !ok {
		r.reject(log, msgID, "unauthorized", ErrUnauthorizedSender, env.Sender)
		return
	}

	key := ExtractKey(env.Subject)
	if key == "" {
		// No silent full-text fallback: surface the subject so paraphrased
		// replies are visible to operators.
		log.Warn().Err(ErrNoCorrelationKey).Str("message_id", msgID).Str("subject", env.Subject).Msg("reply dropped")
		metrics.RepliesRejected.WithLabelValues("no_key").Inc()
		return
	}

	q, ok := r.lookup(ctx, key, log)
	if !ok {
		r.reject(log, msgID, "unknown_id", ErrUnknownQuestion, key)
		return
	}

	body := strings.TrimSpace(env.Body)
	if utf8.RuneCountInString(body) < r.minAnswerLen {
		r.reject(log, msgID, "too_short", ErrEmptyReply, env.Sender)
		return
	}

	answer := CleanReply(env.Body)
	if answer == "" {
		r.reject(log, msgID, "empty_after_clean", ErrEmptyReply, env.Sender)
		return
	}

	payload := FormatAnswer(expert, q.Text, answer)
	if err := r.deliver(ctx, q, payload); err != nil {
		// Not retried this cycle; the message is marked read regardless.
		log.Error().Err(err).
			Str("message_id", msgID).
			Str("question_id", q.ID).
			Msg("answer delivery failed")
		return
	}

	q.Answer = answer
	q.AnsweredBy = expert.Label()
	r.registry.Put(q)
	if err := r.store.Upsert(ctx, q); err != nil {
		log.Error().Err(err).Str("question_id", q.ID).Msg("answer persist failed")
	}

	r.seen.MarkProcessed(ctx, msgID)
	metrics.AnswersDelivered.WithLabelValues(string(q.Origin.Kind)).Inc()
	log.Info().
		Str("question_id", q.ID).
		Str("expert", expert.Address).
		Msg("answer delivered")
}

// lookup resolves a correlation key against the registry, reloading from
// the store once on a miss to cover cache loss across restarts.
func (r *Relay) lookup(ctx context.Context, key string, log zerolog.Logger) (*models.Question, bool) {
	if q, ok := r.registry.Get(key); ok {
		return q, true
	}

	questions, err := r.store.LoadAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("registry reload failed")
		return nil, false
	}
	r.registry.Merge(questions)

	q, ok := r.registry.Get(key)
	return q, ok
}

// deliver routes the payload by the question's origin variant.
func (r *Relay) deliver(ctx context.Context, q *models.Question, payload string) error {
	switch q.Origin.Kind {
	case models.OriginChat:
		return r.chat.Send(q.Origin.ChatID, payload)
	case models.OriginMail:
		sctx, cancel := context.WithTimeout(ctx, r.mailTimeout)
		defer cancel()
		return r.mail.Send(sctx, q.Origin.Address, FormatAnswerSubject(q.ID), payload)
	}
	return fmt.Errorf("unknown origin kind %q", q.Origin.Kind)
}

func (r *Relay) reject(log zerolog.Logger, msgID, reason string, err error, detail string) {
	log.Warn().Err(err).Str("message_id", msgID).Str("reason", reason).Str("detail", detail).Msg("reply dropped")
	metrics.RepliesRejected.WithLabelValues(reason).Inc()
}

func (r *Relay) markRead(ctx context.Context, msgID string, log zerolog.Logger) {
	if err := r.mail.MarkRead(ctx, msgID); err != nil {
		log.Error().Err(err).Str("message_id", msgID).Msg("mark read failed")
		metrics.MarkReadFailures.Inc()
	}
}
