// Package notifier delivers engine events to external sinks after the
// operation that produced them has committed.
package notifier

import (
	"context"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
)

//go:generate mockgen -source=notifier.go -destination=mock_notifier.go -package=notifier

// Notifier is fire-and-forget: delivery failures never reach the caller.
type Notifier interface {
	Notify(ctx context.Context, accountID string, kind domain.EventKind, payload map[string]any)
}

// Sink delivers one event. Sinks may block and may fail.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event domain.Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, string, domain.EventKind, map[string]any) {}
