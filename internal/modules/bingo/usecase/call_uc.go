package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"github.com/frankieli/bingo_live/pkg/logger"
)

// ClaimResult is the outcome of checking a claimed set of numbers
// against the called numbers
type ClaimResult struct {
	Valid          bool  `json:"valid"`
	InvalidNumbers []int `json:"invalid_numbers,omitempty"`
}

// CallUseCase advances and corrects the call sequence
type CallUseCase struct {
	stateRepo  domain.GameStateRepository
	winnerRepo domain.WinnerRepository
	control    *ControlUseCase
	notifier   domain.Notifier

	Now func() time.Time
}

// NewCallUseCase creates a new call use case
func NewCallUseCase(
	stateRepo domain.GameStateRepository,
	winnerRepo domain.WinnerRepository,
	control *ControlUseCase,
	notifier domain.Notifier,
) *CallUseCase {
	return &CallUseCase{
		stateRepo:  stateRepo,
		winnerRepo: winnerRepo,
		control:    control,
		notifier:   notifier,
		Now:        time.Now,
	}
}

// CallNextNumber reveals the next number in the shuffled sequence.
// The call is persisted immediately; any reveal animation delay is a
// viewer-side concern driven by CallDelaySeconds and LastCallAt.
func (uc *CallUseCase) CallNextNumber(ctx context.Context, id domain.Identity, gameID string) (int, error) {
	state, err := uc.control.RequireController(ctx, id, gameID)
	if err != nil {
		return 0, err
	}

	if !state.CanAcceptCall() {
		return 0, domain.ErrGameNotCallable
	}
	if len(state.NumberSequence) == 0 || state.SequenceExhausted() {
		return 0, domain.ErrNoMoreNumbers
	}

	next := state.NextNumber()
	now := uc.Now()
	state.CalledNumbers = append(state.CalledNumbers, next)
	state.NumbersCalledCount++
	state.LastCallAt = &now

	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return 0, fmt.Errorf("failed to save call: %w", err)
	}

	logger.Info(ctx).
		Str("game_id", gameID).
		Int("number", next).
		Int("call_count", state.NumbersCalledCount).
		Msg("number called")

	uc.notifier.GameStateChanged(ctx, gameID)
	return next, nil
}

// VoidLastNumber undoes the most recent call. It refuses to erase a call
// that produced a recorded win: the winner row must be dealt with first.
// LastCallAt is deliberately left untouched so the void does not restart
// the viewer reveal animation.
func (uc *CallUseCase) VoidLastNumber(ctx context.Context, id domain.Identity, gameID string) error {
	state, err := uc.control.RequireController(ctx, id, gameID)
	if err != nil {
		return err
	}

	if state.Status != domain.GameInProgress {
		return domain.ErrGameNotCallable
	}
	if state.NumbersCalledCount == 0 || len(state.CalledNumbers) == 0 {
		return domain.ErrNothingToVoid
	}

	winners, err := uc.winnerRepo.CountAtCall(ctx, gameID, state.NumbersCalledCount)
	if err != nil {
		return fmt.Errorf("failed to verify winner status: %w", err)
	}
	if winners > 0 {
		return domain.ErrWinnerExistsAtCall
	}

	voided := state.CalledNumbers[len(state.CalledNumbers)-1]
	state.CalledNumbers = state.CalledNumbers[:len(state.CalledNumbers)-1]
	state.NumbersCalledCount--
	state.ClearWinDisplay()

	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save void: %w", err)
	}

	logger.Info(ctx).
		Str("game_id", gameID).
		Int("voided_number", voided).
		Int("call_count", state.NumbersCalledCount).
		Msg("last number voided")

	uc.notifier.GameStateChanged(ctx, gameID)
	return nil
}

// ToggleBreak puts the game on break or takes it off. Entering a break
// clears the validation pause and any win banner so the break screen
// shows cleanly.
func (uc *CallUseCase) ToggleBreak(ctx context.Context, id domain.Identity, gameID string, on bool) error {
	state, err := uc.control.RequireController(ctx, id, gameID)
	if err != nil {
		return err
	}

	if state.Status != domain.GameInProgress {
		return domain.ErrGameNotCallable
	}

	now := uc.Now()
	state.OnBreak = on
	state.PausedForValidation = false
	state.ClearWinDisplay()
	state.LastCallAt = &now

	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save break state: %w", err)
	}

	uc.notifier.GameStateChanged(ctx, gameID)
	return nil
}

// ValidateClaim checks a claimed set of numbers against the called
// numbers. Pure read, idempotent; the host is expected to have paused
// for validation first so the display is frozen while checking.
func (uc *CallUseCase) ValidateClaim(ctx context.Context, id domain.Identity, gameID string, claimed []int) (*ClaimResult, error) {
	state, err := uc.control.RequireController(ctx, id, gameID)
	if err != nil {
		return nil, err
	}

	called := state.CalledSet()
	var invalid []int
	for _, n := range claimed {
		if _, ok := called[n]; !ok {
			invalid = append(invalid, n)
		}
	}

	if len(invalid) > 0 {
		logger.Info(ctx).
			Str("game_id", gameID).
			Ints("invalid_numbers", invalid).
			Msg("claim rejected")
		return &ClaimResult{Valid: false, InvalidNumbers: invalid}, nil
	}
	return &ClaimResult{Valid: true}, nil
}
