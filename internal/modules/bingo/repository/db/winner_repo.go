package db

import (
	"context"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"gorm.io/gorm"
)

// WinnerRepository implements domain.WinnerRepository using gorm
type WinnerRepository struct {
	db *gorm.DB
}

// NewWinnerRepository creates a new winner repository
func NewWinnerRepository(db *gorm.DB) *WinnerRepository {
	return &WinnerRepository{db: db}
}

func (r *WinnerRepository) Create(ctx context.Context, winner *domain.Winner) error {
	return r.db.WithContext(ctx).Create(winner).Error
}

func (r *WinnerRepository) ListByGame(ctx context.Context, gameID string) ([]*domain.Winner, error) {
	var winners []*domain.Winner
	err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("created_at ASC").
		Find(&winners).Error
	return winners, err
}

func (r *WinnerRepository) CountAtCall(ctx context.Context, gameID string, callCount int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Winner{}).
		Where("game_id = ? AND call_count_at_win = ?", gameID, callCount).
		Count(&count).Error
	return count, err
}

func (r *WinnerRepository) CountJackpot(ctx context.Context, gameID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Winner{}).
		Where("game_id = ? AND is_snowball_jackpot = ?", gameID, true).
		Count(&count).Error
	return count, err
}

func (r *WinnerRepository) SetPrizeGiven(ctx context.Context, winnerID string, given bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Winner{}).
		Where("id = ?", winnerID).
		Update("prize_given", given)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrWinnerNotFound
	}
	return nil
}

func (r *WinnerRepository) SetVoid(ctx context.Context, winnerID string, reason string) error {
	updates := map[string]interface{}{
		"is_void":     true,
		"void_reason": reason,
	}
	result := r.db.WithContext(ctx).Model(&domain.Winner{}).
		Where("id = ?", winnerID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrWinnerNotFound
	}
	return nil
}
