package db

import (
	"context"
	"errors"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"gorm.io/gorm"
)

// SnowballPotRepository implements domain.SnowballPotRepository using gorm
type SnowballPotRepository struct {
	db *gorm.DB
}

// NewSnowballPotRepository creates a new pot repository
func NewSnowballPotRepository(db *gorm.DB) *SnowballPotRepository {
	return &SnowballPotRepository{db: db}
}

func (r *SnowballPotRepository) GetByID(ctx context.Context, potID string) (*domain.SnowballPot, error) {
	var pot domain.SnowballPot
	err := r.db.WithContext(ctx).Where("id = ?", potID).First(&pot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPotNotFound
		}
		return nil, err
	}
	return &pot, nil
}

func (r *SnowballPotRepository) Save(ctx context.Context, pot *domain.SnowballPot) error {
	return r.db.WithContext(ctx).Save(pot).Error
}

// InUse reports whether any in-progress game references this pot
func (r *SnowballPotRepository) InUse(ctx context.Context, potID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.GameState{}).
		Joins("JOIN games ON games.id = game_states.game_id").
		Where("games.snowball_pot_id = ? AND game_states.status = ?", potID, domain.GameInProgress).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PotHistoryRepository implements domain.PotHistoryRepository using gorm
type PotHistoryRepository struct {
	db *gorm.DB
}

// NewPotHistoryRepository creates a new pot history repository
func NewPotHistoryRepository(db *gorm.DB) *PotHistoryRepository {
	return &PotHistoryRepository{db: db}
}

func (r *PotHistoryRepository) Append(ctx context.Context, entry *domain.SnowballPotHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *PotHistoryRepository) ListByPot(ctx context.Context, potID string) ([]*domain.SnowballPotHistory, error) {
	var entries []*domain.SnowballPotHistory
	err := r.db.WithContext(ctx).
		Where("snowball_pot_id = ?", potID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
