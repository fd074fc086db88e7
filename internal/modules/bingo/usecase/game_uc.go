package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"github.com/frankieli/bingo_live/pkg/logger"
)

// GameUseCase handles the game lifecycle: starting (fresh or reopen),
// ending, and reading state snapshots.
type GameUseCase struct {
	stateRepo   domain.GameStateRepository
	gameRepo    domain.GameRepository
	sessionRepo domain.SessionRepository
	control     *ControlUseCase
	pot         *PotUseCase
	notifier    domain.Notifier
	ids         *snowflake.Node

	// Rand seeds the number sequence shuffle; tests inject a fixed seed
	Rand *rand.Rand
	Now  func() time.Time

	mu sync.Mutex // guards Rand, which is not safe for concurrent use
}

// NewGameUseCase creates a new game use case
func NewGameUseCase(
	stateRepo domain.GameStateRepository,
	gameRepo domain.GameRepository,
	sessionRepo domain.SessionRepository,
	control *ControlUseCase,
	pot *PotUseCase,
	notifier domain.Notifier,
	ids *snowflake.Node,
) *GameUseCase {
	return &GameUseCase{
		stateRepo:   stateRepo,
		gameRepo:    gameRepo,
		sessionRepo: sessionRepo,
		control:     control,
		pot:         pot,
		notifier:    notifier,
		ids:         ids,
		Rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:         time.Now,
	}
}

// StartGame starts or reopens a game and seizes the controller lease for
// the caller. Three paths share this entry point:
//   - not_started (or no state row): fresh run, new shuffled sequence,
//     all progress zeroed
//   - in_progress: restart, sequence kept, progress zeroed
//   - completed: reopen, call history and stage preserved, only the
//     status flips back so a late mistake can be corrected
//
// The session is marked running with this game active either way.
func (uc *GameUseCase) StartGame(ctx context.Context, id domain.Identity, sessionID, gameID string) error {
	if err := id.Authorize(); err != nil {
		return err
	}

	if _, err := uc.gameRepo.GetByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to load game: %w", err)
	}

	state, err := uc.stateRepo.GetByGameID(ctx, gameID)
	if err != nil && !errors.Is(err, domain.ErrGameStateNotFound) {
		return fmt.Errorf("failed to load game state: %w", err)
	}

	now := uc.Now()

	if state == nil {
		state = &domain.GameState{
			ID:     uc.ids.Generate().String(),
			GameID: gameID,
			Status: domain.GameNotStarted,
		}
	}

	switch {
	case state.Status == domain.GameCompleted:
		// Reopen: keep called numbers and stage index exactly as they were
		state.Status = domain.GameInProgress
		state.EndedAt = nil
		state.PausedForValidation = false
		state.ClearWinDisplay()
		logger.Info(ctx).
			Str("game_id", gameID).
			Int("numbers_called", state.NumbersCalledCount).
			Int("stage_index", state.CurrentStageIndex).
			Msg("game reopened, call history preserved")

	default:
		// Fresh start or restart. The sequence is regenerated only when the
		// game has never left not_started; a restart keeps the existing one.
		if state.Status == domain.GameNotStarted || len(state.NumberSequence) == 0 {
			uc.mu.Lock()
			state.NumberSequence = domain.NewNumberSequence(uc.Rand)
			uc.mu.Unlock()
		}
		state.CalledNumbers = []int{}
		state.NumbersCalledCount = 0
		state.CurrentStageIndex = 0
		state.Status = domain.GameInProgress
		state.CallDelaySeconds = domain.DefaultCallDelaySeconds
		state.OnBreak = false
		state.PausedForValidation = false
		state.ClearWinDisplay()
		state.StartedAt = &now
		state.EndedAt = nil
		state.LastCallAt = nil
		logger.Info(ctx).
			Str("game_id", gameID).
			Str("host_id", id.HostID).
			Msg("game started with fresh progress")
	}

	state.ControllingHostID = id.HostID
	state.ControllerLastSeenAt = &now

	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}

	if err := uc.sessionRepo.SetActiveGame(ctx, sessionID, gameID); err != nil {
		return fmt.Errorf("failed to mark session running: %w", err)
	}

	uc.notifier.GameStateChanged(ctx, gameID)
	return nil
}

// EndGame forces a game to completed regardless of stage position, then
// settles the snowball pot. Settlement failures are logged, not returned:
// the completion itself must not be rolled back over pot bookkeeping.
func (uc *GameUseCase) EndGame(ctx context.Context, id domain.Identity, sessionID, gameID string) error {
	state, err := uc.control.RequireController(ctx, id, gameID)
	if err != nil {
		return err
	}

	if state.Status != domain.GameInProgress {
		return domain.ErrGameNotCallable
	}

	now := uc.Now()
	state.Status = domain.GameCompleted
	state.EndedAt = &now

	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}

	logger.Info(ctx).
		Str("game_id", gameID).
		Str("host_id", id.HostID).
		Int("numbers_called", state.NumbersCalledCount).
		Msg("game ended by host")

	if err := uc.pot.SettleGame(ctx, sessionID, gameID); err != nil {
		logger.Error(ctx).Err(err).Str("game_id", gameID).Msg("snowball pot settlement failed")
	}

	uc.notifier.GameStateChanged(ctx, gameID)
	return nil
}

// GetGameState returns the full state row for the host console
func (uc *GameUseCase) GetGameState(ctx context.Context, id domain.Identity, gameID string) (*domain.GameState, error) {
	if err := id.Authorize(); err != nil {
		return nil, err
	}
	return uc.stateRepo.GetByGameID(ctx, gameID)
}

// Snapshot returns the current state for viewer screens. Viewers call
// this after every state-changed notification; it carries everything
// needed to re-render, so duplicate or out-of-order notifications are
// harmless.
func (uc *GameUseCase) Snapshot(ctx context.Context, gameID string) (*domain.GameState, error) {
	return uc.stateRepo.GetByGameID(ctx, gameID)
}
