package domain

import (
	"context"
)

// GameStateRepository persists the authoritative per-game state row.
// Save is a full-row upsert keyed by GameID; each call is a single
// atomic write against the store.
type GameStateRepository interface {
	GetByGameID(ctx context.Context, gameID string) (*GameState, error)
	Save(ctx context.Context, state *GameState) error
}

// GameRepository reads static game configuration
type GameRepository interface {
	GetByID(ctx context.Context, gameID string) (*Game, error)
}

// SessionRepository reads session records and marks the running game
type SessionRepository interface {
	GetByID(ctx context.Context, sessionID string) (*Session, error)
	SetActiveGame(ctx context.Context, sessionID, gameID string) error
}

// WinnerRepository appends winner rows and answers the count queries the
// call engine and pot ledger depend on
type WinnerRepository interface {
	Create(ctx context.Context, winner *Winner) error
	ListByGame(ctx context.Context, gameID string) ([]*Winner, error)
	// CountAtCall counts winners recorded at an exact call count (void guard)
	CountAtCall(ctx context.Context, gameID string, callCount int) (int64, error)
	// CountJackpot counts winners with the jackpot flag (pot settlement)
	CountJackpot(ctx context.Context, gameID string) (int64, error)
	SetPrizeGiven(ctx context.Context, winnerID string, given bool) error
	SetVoid(ctx context.Context, winnerID string, reason string) error
}

// SnowballPotRepository persists pot values. InUse reports whether any
// in_progress game currently references the pot (admin reset guard).
type SnowballPotRepository interface {
	GetByID(ctx context.Context, potID string) (*SnowballPot, error)
	Save(ctx context.Context, pot *SnowballPot) error
	InUse(ctx context.Context, potID string) (bool, error)
}

// PotHistoryRepository appends audit entries; the log is append-only
type PotHistoryRepository interface {
	Append(ctx context.Context, entry *SnowballPotHistory) error
	ListByPot(ctx context.Context, potID string) ([]*SnowballPotHistory, error)
}
