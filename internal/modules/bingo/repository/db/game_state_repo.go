// Package db provides gorm-backed repositories for the bingo module.
package db

import (
	"context"
	"errors"
	"time"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameStateRepository implements domain.GameStateRepository using gorm
type GameStateRepository struct {
	db *gorm.DB
}

// NewGameStateRepository creates a new game state repository
func NewGameStateRepository(db *gorm.DB) *GameStateRepository {
	return &GameStateRepository{db: db}
}

func (r *GameStateRepository) GetByGameID(ctx context.Context, gameID string) (*domain.GameState, error) {
	var state domain.GameState
	err := r.db.WithContext(ctx).Where("game_id = ?", gameID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGameStateNotFound
		}
		return nil, err
	}
	return &state, nil
}

// Save upserts the full state row keyed by game_id. Each call is one
// atomic statement against the single authoritative record.
func (r *GameStateRepository) Save(ctx context.Context, state *domain.GameState) error {
	state.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}},
			UpdateAll: true,
		}).
		Create(state).Error
}
