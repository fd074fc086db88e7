package domain

import "context"

// Notifier fans out "state changed" events to viewers after every
// successful mutating operation. The payload is deliberately opaque:
// consumers re-fetch the current snapshot rather than trust a delta, so
// delivery only needs to be at-least-once and duplicates are harmless.
type Notifier interface {
	GameStateChanged(ctx context.Context, gameID string)
}

// NopNotifier discards all notifications
type NopNotifier struct{}

// GameStateChanged does nothing
func (NopNotifier) GameStateChanged(ctx context.Context, gameID string) {}
