package relay

import (
	"context"
	"strings"
	"time"

	"github.com/eldtechnologies/maven/internal/metrics"
	"github.com/eldtechnologies/maven/internal/models"
)

// similarThreshold is the minimum overlap score for tagging two questions
// as topically related.
const similarThreshold = 0.3

// Submit validates, persists and fans out one question to every expert,
// returning its id. An empty title is derived from the text. Persistence
// happens before any network dispatch, so a question is never lost even if
// every expert send fails; per-expert send failures are logged and do not
// stop the loop.
func (r *Relay) Submit(ctx context.Context, text, title, requester string, origin models.Origin) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrInvalidInput
	}
	if title == "" {
		title = models.DeriveTitle(text, 40)
	}

	q := &models.Question{
		Text:      text,
		Title:     title,
		Requester: requester,
		Origin:    origin,
		CreatedAt: time.Now(),
		SimilarTo: r.similar(text),
	}
	id := r.registry.Add(q)

	if err := r.store.Upsert(ctx, q); err != nil {
		// The in-memory record still correlates replies for this process
		// lifetime; dispatch proceeds.
		r.logger.Error().Err(err).Str("question_id", id).Msg("persist failed")
	}
	metrics.QuestionsSubmitted.Inc()

	subject := FormatSubject(id, requester)
	body := FormatQuestionBody(q)

	for _, expert := range r.experts {
		sctx, cancel := context.WithTimeout(ctx, r.mailTimeout)
		err := r.mail.Send(sctx, expert.Address, subject, body)
		cancel()
		if err != nil {
			r.logger.Error().Err(err).
				Str("question_id", id).
				Str("expert", expert.Address).
				Msg("expert dispatch failed")
			metrics.ExpertSendFailures.Inc()
			continue
		}
		metrics.ExpertMailsSent.Inc()
	}

	now := time.Now()
	for _, expert := range r.experts {
		r.registry.Arm(expert, text, requester, now)
	}

	r.logger.Info().
		Str("question_id", id).
		Str("requester", requester).
		Str("channel", string(origin.Kind)).
		Int("experts", len(r.experts)).
		Msg("question dispatched")

	return id, nil
}

// similar tags the new question with existing texts scoring above the
// threshold. Advisory only.
func (r *Relay) similar(text string) []string {
	var related []string
	for _, other := range r.registry.Texts() {
		if r.scorer.Score(text, other) >= similarThreshold {
			related = append(related, other)
		}
	}
	return related
}
