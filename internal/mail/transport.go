// Package mail provides the mailbox transport the relay dispatches through
// and polls for expert replies.
package mail

import "context"

// Transport abstracts the mailbox: outbound sends plus an idempotent
// re-scan source of unread messages.
type Transport interface {
	// Send delivers one plain-text message from the bot address.
	Send(ctx context.Context, to, subject, body string) error

	// ListUnread returns the ids of all unread messages in the mailbox.
	ListUnread(ctx context.Context) ([]string, error)

	// FetchRaw returns the full RFC 822 bytes of one message.
	FetchRaw(ctx context.Context, id string) ([]byte, error)

	// MarkRead clears the unread flag on one message.
	MarkRead(ctx context.Context, id string) error
}
