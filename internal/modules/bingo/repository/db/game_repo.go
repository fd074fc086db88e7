package db

import (
	"context"
	"errors"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"gorm.io/gorm"
)

// GameRepository implements domain.GameRepository using gorm
type GameRepository struct {
	db *gorm.DB
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (*domain.Game, error) {
	var game domain.Game
	err := r.db.WithContext(ctx).Where("id = ?", gameID).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}
