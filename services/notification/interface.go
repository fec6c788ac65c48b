package notification

import (
	"context"

	"slotbook/models"
)

// Dispatcher hands confirmation content to the asynchronous delivery pipeline.
// Booking latency must never be coupled to mail or calendar-provider latency:
// the booking path only enqueues, the worker delivers.
type Dispatcher interface {
	EnqueueConfirmation(ctx context.Context, confirmation models.Confirmation) error
}

// Sender delivers a rendered confirmation to the guest. The content is
// authoritative; transport is best-effort with queue-level retry.
type Sender interface {
	SendConfirmation(ctx context.Context, confirmation models.Confirmation, invite []byte) error
}
