package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"github.com/frankieli/bingo_live/pkg/logger"
)

// PotUseCase is the snowball pot ledger. SettleGame runs exactly once
// per game completion; it is invoked only from EndGame and from the
// completion branch of AdvanceToNextStage, never from a retried handler,
// because a duplicate invocation would double-rollover or double-reset.
type PotUseCase struct {
	sessionRepo domain.SessionRepository
	gameRepo    domain.GameRepository
	winnerRepo  domain.WinnerRepository
	potRepo     domain.SnowballPotRepository
	historyRepo domain.PotHistoryRepository
	ids         *snowflake.Node

	Now func() time.Time
}

// NewPotUseCase creates a new pot use case
func NewPotUseCase(
	sessionRepo domain.SessionRepository,
	gameRepo domain.GameRepository,
	winnerRepo domain.WinnerRepository,
	potRepo domain.SnowballPotRepository,
	historyRepo domain.PotHistoryRepository,
	ids *snowflake.Node,
) *PotUseCase {
	return &PotUseCase{
		sessionRepo: sessionRepo,
		gameRepo:    gameRepo,
		winnerRepo:  winnerRepo,
		potRepo:     potRepo,
		historyRepo: historyRepo,
		ids:         ids,
		Now:         time.Now,
	}
}

// SettleGame applies the rollover-or-reset outcome for a completed game.
// Test sessions never touch real pot economics. If nobody hit the
// jackpot the pot grows by its increments unconditionally; if someone
// did, current values reset to base (a no-op with no history entry when
// the pot already sits at base).
func (uc *PotUseCase) SettleGame(ctx context.Context, sessionID, gameID string) error {
	session, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		logger.Error(ctx).Err(err).Str("session_id", sessionID).Msg("failed to check session type for pot settlement")
	}
	if session != nil && session.IsTestSession {
		logger.Info(ctx).Str("game_id", gameID).Msg("test session, snowball pot untouched")
		return nil
	}

	game, err := uc.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to load game for pot settlement: %w", err)
	}
	if game.Type != domain.GameTypeSnowball || game.SnowballPotID == "" {
		return nil
	}

	jackpotWinners, err := uc.winnerRepo.CountJackpot(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to count jackpot winners: %w", err)
	}

	pot, err := uc.potRepo.GetByID(ctx, game.SnowballPotID)
	if err != nil {
		return fmt.Errorf("failed to load snowball pot: %w", err)
	}

	if jackpotWinners > 0 {
		if pot.AtBase() {
			// Already at base: reset would change nothing, skip the audit row too
			return nil
		}
		oldMax, oldJackpot := pot.CurrentMaxCalls, pot.CurrentJackpotAmount
		now := uc.Now()
		pot.CurrentMaxCalls = pot.BaseMaxCalls
		pot.CurrentJackpotAmount = pot.BaseJackpotAmount
		pot.LastAwardedAt = &now

		if err := uc.potRepo.Save(ctx, pot); err != nil {
			return fmt.Errorf("failed to reset snowball pot: %w", err)
		}
		uc.appendHistory(ctx, pot, domain.PotChangeJackpotWon, oldMax, oldJackpot, "")

		logger.Info(ctx).
			Str("pot_id", pot.ID).
			Str("game_id", gameID).
			Float64("awarded_amount", oldJackpot).
			Msg("jackpot won, pot reset to base")
		return nil
	}

	oldMax, oldJackpot := pot.CurrentMaxCalls, pot.CurrentJackpotAmount
	pot.CurrentMaxCalls += pot.CallsIncrement
	pot.CurrentJackpotAmount += pot.JackpotIncrement

	if err := uc.potRepo.Save(ctx, pot); err != nil {
		return fmt.Errorf("failed to rollover snowball pot: %w", err)
	}
	uc.appendHistory(ctx, pot, domain.PotChangeRollover, oldMax, oldJackpot, "")

	logger.Info(ctx).
		Str("pot_id", pot.ID).
		Str("game_id", gameID).
		Int("max_calls", pot.CurrentMaxCalls).
		Float64("jackpot_amount", pot.CurrentJackpotAmount).
		Msg("no jackpot winner, pot rolled over")
	return nil
}

// ResetPot manually returns a pot to its base values from the admin
// surface. Refused while any in-progress game references the pot.
func (uc *PotUseCase) ResetPot(ctx context.Context, id domain.Identity, potID string) error {
	if err := id.Authorize(); err != nil {
		return err
	}
	if !id.IsAdmin() {
		return domain.ErrUnauthorized
	}

	inUse, err := uc.potRepo.InUse(ctx, potID)
	if err != nil {
		return fmt.Errorf("failed to check pot usage: %w", err)
	}
	if inUse {
		return domain.ErrPotInUse
	}

	pot, err := uc.potRepo.GetByID(ctx, potID)
	if err != nil {
		return fmt.Errorf("failed to load snowball pot: %w", err)
	}

	oldMax, oldJackpot := pot.CurrentMaxCalls, pot.CurrentJackpotAmount
	pot.CurrentMaxCalls = pot.BaseMaxCalls
	pot.CurrentJackpotAmount = pot.BaseJackpotAmount
	pot.LastAwardedAt = nil

	if err := uc.potRepo.Save(ctx, pot); err != nil {
		return fmt.Errorf("failed to reset snowball pot: %w", err)
	}
	uc.appendHistory(ctx, pot, domain.PotChangeManualReset, oldMax, oldJackpot, id.HostID)

	logger.Info(ctx).Str("pot_id", potID).Str("admin_id", id.HostID).Msg("pot manually reset")
	return nil
}

// PotInUse reports whether any in-progress game references the pot.
// Exposed for the admin surface's delete/reset guard.
func (uc *PotUseCase) PotInUse(ctx context.Context, potID string) (bool, error) {
	return uc.potRepo.InUse(ctx, potID)
}

// History returns the audit trail for a pot
func (uc *PotUseCase) History(ctx context.Context, id domain.Identity, potID string) ([]*domain.SnowballPotHistory, error) {
	if err := id.Authorize(); err != nil {
		return nil, err
	}
	return uc.historyRepo.ListByPot(ctx, potID)
}

// appendHistory writes the audit entry for a pot mutation that already
// succeeded. A failed insert is logged and swallowed: pot values are
// authoritative, the history is best-effort audit.
func (uc *PotUseCase) appendHistory(ctx context.Context, pot *domain.SnowballPot, changeType string, oldMax int, oldJackpot float64, changedBy string) {
	entry := &domain.SnowballPotHistory{
		ID:            uc.ids.Generate().String(),
		SnowballPotID: pot.ID,
		ChangeType:    changeType,
		OldValMax:     oldMax,
		NewValMax:     pot.CurrentMaxCalls,
		OldValJackpot: oldJackpot,
		NewValJackpot: pot.CurrentJackpotAmount,
		ChangedBy:     changedBy,
		CreatedAt:     uc.Now(),
	}
	if err := uc.historyRepo.Append(ctx, entry); err != nil {
		logger.Error(ctx).Err(err).
			Str("pot_id", pot.ID).
			Str("change_type", changeType).
			Msg("failed to append pot history entry")
	}
}
