package relay

import (
	"context"
	"time"

	"github.com/eldtechnologies/maven/internal/metrics"
)

// Sweep sends one follow-up mail for every outstanding dispatch older than
// the staleness threshold. Entries are removed before sending: each
// dispatch yields at most one reminder, even when the send fails.
func (r *Relay) Sweep(ctx context.Context) {
	stale := r.registry.Stale(r.reminderAfter, time.Now())

	for _, rem := range stale {
		sctx, cancel := context.WithTimeout(ctx, r.mailTimeout)
		err := r.mail.Send(sctx, rem.Expert.Address, ReminderSubject, FormatReminderBody(rem))
		cancel()
		if err != nil {
			r.logger.Error().Err(err).
				Str("expert", rem.Expert.Address).
				Msg("reminder send failed")
			continue
		}

		metrics.RemindersSent.Inc()
		r.logger.Info().
			Str("expert", rem.Expert.Address).
			Time("dispatched_at", rem.SentAt).
			Msg("reminder sent")
	}
}
