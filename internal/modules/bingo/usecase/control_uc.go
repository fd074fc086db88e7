// Package usecase implements the business logic for the bingo module.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"github.com/frankieli/bingo_live/pkg/logger"
)

const (
	// LeaseTimeout is how long a silent controller keeps the lease.
	// Another host's TakeControl succeeds only after this much silence.
	LeaseTimeout = 30 * time.Second

	// HeartbeatInterval is the cadence the controlling client should call
	// Heartbeat at. Purely advisory; the server never runs its own timer.
	HeartbeatInterval = 10 * time.Second
)

// ControlUseCase manages the controller lease: at most one host may issue
// mutating commands against a game at any moment. The lease is a plain
// holder-id + last-seen timestamp on the game state row; there is no
// consensus round, because all writes go through one serializable record
// and calls are seconds apart relative to the 30s timeout.
type ControlUseCase struct {
	stateRepo domain.GameStateRepository
	notifier  domain.Notifier

	// Now is the clock; tests replace it to drive lease expiry
	Now func() time.Time
}

// NewControlUseCase creates a new control use case
func NewControlUseCase(stateRepo domain.GameStateRepository, notifier domain.Notifier) *ControlUseCase {
	return &ControlUseCase{
		stateRepo: stateRepo,
		notifier:  notifier,
		Now:       time.Now,
	}
}

// TakeControl acquires the controller lease for the caller. It succeeds
// when nobody holds the lease, the caller already holds it, or the
// current holder has been silent for longer than LeaseTimeout.
func (uc *ControlUseCase) TakeControl(ctx context.Context, id domain.Identity, gameID string) error {
	if err := id.Authorize(); err != nil {
		return err
	}

	state, err := uc.stateRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to load game state: %w", err)
	}

	now := uc.Now()
	if state.ControllingHostID != "" &&
		state.ControllingHostID != id.HostID &&
		state.ControllerLastSeenAt != nil &&
		now.Sub(*state.ControllerLastSeenAt) < LeaseTimeout {
		logger.Warn(ctx).
			Str("game_id", gameID).
			Str("holder", state.ControllingHostID).
			Str("caller", id.HostID).
			Msg("take control rejected, lease still live")
		return domain.ErrLeaseHeldByOther
	}

	previous := state.ControllingHostID
	state.ControllingHostID = id.HostID
	state.ControllerLastSeenAt = &now

	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save controller lease: %w", err)
	}

	logger.Info(ctx).
		Str("game_id", gameID).
		Str("host_id", id.HostID).
		Str("previous_holder", previous).
		Msg("controller lease acquired")

	uc.notifier.GameStateChanged(ctx, gameID)
	return nil
}

// Heartbeat renews the caller's lease. It fails with ErrNotController if
// the caller is not the current holder; the client must surface that to
// the UI rather than retry silently.
func (uc *ControlUseCase) Heartbeat(ctx context.Context, id domain.Identity, gameID string) error {
	state, err := uc.RequireController(ctx, id, gameID)
	if err != nil {
		return err
	}

	now := uc.Now()
	state.ControllerLastSeenAt = &now
	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to renew controller lease: %w", err)
	}
	return nil
}

// RequireController is the guard run by every mutating operation. It
// fails closed with ErrNotController whenever the caller is not the
// recorded holder, regardless of lease age: only an explicit TakeControl
// can transfer control. On success it returns the freshly loaded state
// so the caller mutates current data, never a stale cache.
func (uc *ControlUseCase) RequireController(ctx context.Context, id domain.Identity, gameID string) (*domain.GameState, error) {
	if err := id.Authorize(); err != nil {
		return nil, err
	}

	state, err := uc.stateRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}

	if state.ControllingHostID == "" || state.ControllingHostID != id.HostID {
		return nil, domain.ErrNotController
	}
	return state, nil
}
