package relay

import "errors"

// Per-message failure taxonomy. Every one of these is logged and isolated;
// none aborts the batch it occurred in.
var (
	// ErrInvalidInput rejects an empty question at intake.
	ErrInvalidInput = errors.New("empty question")

	// ErrUnauthorizedSender rejects a reply from an address outside the
	// expert panel.
	ErrUnauthorizedSender = errors.New("sender is not on the expert panel")

	// ErrNoCorrelationKey rejects a reply whose subject carries no
	// question id token.
	ErrNoCorrelationKey = errors.New("no question id token in subject")

	// ErrUnknownQuestion rejects a reply whose id resolves to no record,
	// even after a store reload.
	ErrUnknownQuestion = errors.New("question id not found")

	// ErrEmptyReply rejects a reply body below the minimum length.
	ErrEmptyReply = errors.New("reply body below minimum length")
)
