package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"github.com/frankieli/bingo_live/pkg/logger"
)

// RecordWinnerRequest carries the host's input for recording a win.
// There is intentionally no jackpot field: jackpot eligibility is always
// recomputed server-side.
type RecordWinnerRequest struct {
	Stage            domain.WinStage
	WinnerName       string
	PrizeDescription string
	CallCountAtWin   int
	PrizeGiven       bool
}

// StageUseCase drives the win/stage progression state machine:
// pause for validation, announce, record winners, advance or skip stages.
type StageUseCase struct {
	stateRepo  domain.GameStateRepository
	gameRepo   domain.GameRepository
	winnerRepo domain.WinnerRepository
	potRepo    domain.SnowballPotRepository
	control    *ControlUseCase
	pot        *PotUseCase
	notifier   domain.Notifier
	ids        *snowflake.Node

	Now func() time.Time
}

// NewStageUseCase creates a new stage use case
func NewStageUseCase(
	stateRepo domain.GameStateRepository,
	gameRepo domain.GameRepository,
	winnerRepo domain.WinnerRepository,
	potRepo domain.SnowballPotRepository,
	control *ControlUseCase,
	pot *PotUseCase,
	notifier domain.Notifier,
	ids *snowflake.Node,
) *StageUseCase {
	return &StageUseCase{
		stateRepo:  stateRepo,
		gameRepo:   gameRepo,
		winnerRepo: winnerRepo,
		potRepo:    potRepo,
		control:    control,
		pot:        pot,
		notifier:   notifier,
		ids:        ids,
		Now:        time.Now,
	}
}

// PauseForValidation freezes the display while a claim is checked
func (uc *StageUseCase) PauseForValidation(ctx context.Context, id domain.Identity, gameID string) error {
	state, err := uc.control.RequireController(ctx, id, gameID)
	if err != nil {
		return err
	}

	state.PausedForValidation = true
	state.ClearWinDisplay()

	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save validation pause: %w", err)
	}
	uc.notifier.GameStateChanged(ctx, gameID)
	return nil
}

// ResumeGame lifts the validation pause, used when a claim is rejected
// or the check is cancelled
func (uc *StageUseCase) ResumeGame(ctx context.Context, id domain.Identity, gameID string) error {
	state, err := uc.control.RequireController(ctx, id, gameID)
	if err != nil {
		return err
	}

	state.PausedForValidation = false
	state.ClearWinDisplay()

	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save resume: %w", err)
	}
	uc.notifier.GameStateChanged(ctx, gameID)
	return nil
}

// AnnounceWin puts the win banner up for the given stage (or the
// jackpot). The validation pause stays on: the announcement and the
// frozen display are the same state from the viewer's perspective.
func (uc *StageUseCase) AnnounceWin(ctx context.Context, id domain.Identity, gameID string, stage domain.WinStage, jackpot bool) error {
	state, err := uc.control.RequireController(ctx, id, gameID)
	if err != nil {
		return err
	}

	winType, winText := domain.WinDisplay(stage, jackpot)
	state.DisplayWinType = winType
	state.DisplayWinText = winText
	state.PausedForValidation = true

	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save win announcement: %w", err)
	}
	uc.notifier.GameStateChanged(ctx, gameID)
	return nil
}

// RecordWinner inserts an immutable winner row and shows the winner name
// on the display, without advancing the stage. Keeping record and advance
// separate lets the host record several split-pot winners on one stage.
//
// The jackpot flag is recomputed here and never taken from the client:
// snowball game, Full House stage, a linked pot, and a call count within
// the pot's current threshold. The threshold is read live at recording
// time, matching the original system.
func (uc *StageUseCase) RecordWinner(ctx context.Context, id domain.Identity, gameID string, req RecordWinnerRequest) (*domain.Winner, error) {
	state, err := uc.control.RequireController(ctx, id, gameID)
	if err != nil {
		return nil, err
	}

	if req.CallCountAtWin > state.NumbersCalledCount {
		return nil, fmt.Errorf("call count at win %d exceeds numbers called %d", req.CallCountAtWin, state.NumbersCalledCount)
	}

	game, err := uc.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	jackpot := false
	if game.Type == domain.GameTypeSnowball && req.Stage == domain.StageFullHouse && game.SnowballPotID != "" {
		pot, potErr := uc.potRepo.GetByID(ctx, game.SnowballPotID)
		if potErr != nil {
			// Recorded as a normal win; the flag stays false rather than
			// failing the whole operation over a pot read.
			logger.Error(ctx).Err(potErr).Str("pot_id", game.SnowballPotID).Msg("jackpot check failed, recording as standard win")
		} else if req.CallCountAtWin <= pot.CurrentMaxCalls {
			jackpot = true
		}
	}

	winner := &domain.Winner{
		ID:                uc.ids.Generate().String(),
		SessionID:         game.SessionID,
		GameID:            gameID,
		Stage:             req.Stage,
		WinnerName:        req.WinnerName,
		PrizeDescription:  req.PrizeDescription,
		PrizeGiven:        req.PrizeGiven,
		CallCountAtWin:    req.CallCountAtWin,
		IsSnowballJackpot: jackpot,
		CreatedAt:         uc.Now(),
	}
	if err := uc.winnerRepo.Create(ctx, winner); err != nil {
		return nil, fmt.Errorf("failed to record winner: %w", err)
	}

	winType, winText := domain.WinDisplay(req.Stage, jackpot)
	state.DisplayWinType = winType
	state.DisplayWinText = winText
	state.DisplayWinnerName = req.WinnerName

	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to update winner display: %w", err)
	}

	logger.Info(ctx).
		Str("game_id", gameID).
		Str("stage", string(req.Stage)).
		Str("winner", req.WinnerName).
		Int("call_count", req.CallCountAtWin).
		Bool("jackpot", jackpot).
		Msg("winner recorded")

	uc.notifier.GameStateChanged(ctx, gameID)
	return winner, nil
}

// AdvanceToNextStage moves the game to its next win stage. Advancing past
// the final stage clamps the index, completes the game, and settles the
// snowball pot exactly once: the rollover must reflect the outcome of the
// whole game, so it runs only at this transition (and in EndGame), never
// per stage.
func (uc *StageUseCase) AdvanceToNextStage(ctx context.Context, id domain.Identity, gameID string) error {
	state, err := uc.control.RequireController(ctx, id, gameID)
	if err != nil {
		return err
	}

	game, err := uc.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to load game: %w", err)
	}

	stages := game.StageSequence
	if len(stages) == 0 {
		stages = domain.DefaultStageSequence()
	}

	newIndex := state.CurrentStageIndex + 1
	completed := false
	if newIndex >= len(stages) {
		newIndex = len(stages) - 1
		completed = true
	}

	state.CurrentStageIndex = newIndex
	state.PausedForValidation = false
	state.ClearWinDisplay()
	if completed {
		now := uc.Now()
		state.Status = domain.GameCompleted
		state.EndedAt = &now
	}

	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save stage advance: %w", err)
	}

	logger.Info(ctx).
		Str("game_id", gameID).
		Int("stage_index", newIndex).
		Bool("completed", completed).
		Msg("stage advanced")

	if completed {
		if err := uc.pot.SettleGame(ctx, game.SessionID, gameID); err != nil {
			logger.Error(ctx).Err(err).Str("game_id", gameID).Msg("snowball pot settlement failed")
		}
	}

	uc.notifier.GameStateChanged(ctx, gameID)
	return nil
}

// SkipStage is the manual override for moving past a stage with no
// winner. Same index and clamp logic as AdvanceToNextStage, but no
// winner row and no pot settlement.
func (uc *StageUseCase) SkipStage(ctx context.Context, id domain.Identity, gameID string, currentIndex, totalStages int) error {
	state, err := uc.control.RequireController(ctx, id, gameID)
	if err != nil {
		return err
	}

	newIndex := currentIndex + 1
	if newIndex >= totalStages {
		newIndex = totalStages - 1
		now := uc.Now()
		state.Status = domain.GameCompleted
		state.EndedAt = &now
	}

	state.CurrentStageIndex = newIndex
	state.PausedForValidation = false
	state.ClearWinDisplay()

	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save stage skip: %w", err)
	}

	uc.notifier.GameStateChanged(ctx, gameID)
	return nil
}

// ToggleWinnerPrizeGiven flips the prize-given flag on a winner row
func (uc *StageUseCase) ToggleWinnerPrizeGiven(ctx context.Context, id domain.Identity, gameID, winnerID string, given bool) error {
	if _, err := uc.control.RequireController(ctx, id, gameID); err != nil {
		return err
	}

	if err := uc.winnerRepo.SetPrizeGiven(ctx, winnerID, given); err != nil {
		return fmt.Errorf("failed to update prize status: %w", err)
	}
	uc.notifier.GameStateChanged(ctx, gameID)
	return nil
}

// VoidWinner marks a winner record void for audit purposes. Admin only;
// the row itself is never deleted and pot settlements already made are
// not re-run.
func (uc *StageUseCase) VoidWinner(ctx context.Context, id domain.Identity, winnerID, reason string) error {
	if err := id.Authorize(); err != nil {
		return err
	}
	if !id.IsAdmin() {
		return domain.ErrUnauthorized
	}
	return uc.winnerRepo.SetVoid(ctx, winnerID, reason)
}

// ListWinners returns all winner rows for a game
func (uc *StageUseCase) ListWinners(ctx context.Context, id domain.Identity, gameID string) ([]*domain.Winner, error) {
	if err := id.Authorize(); err != nil {
		return nil, err
	}
	return uc.winnerRepo.ListByGame(ctx, gameID)
}
