// Package notifier carries state-transition events to the notification
// collaborator. Delivery is fire-and-forget: publish failures are logged,
// never surfaced to the orchestrator.
package notifier

import (
	"context"

	"campus-reserve-backend/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, event domain.TransitionEvent)
	Close() error
}

// Noop discards every event; used in tests and when no broker is configured.
type Noop struct{}

func (Noop) Notify(ctx context.Context, event domain.TransitionEvent) {}

func (Noop) Close() error { return nil }
