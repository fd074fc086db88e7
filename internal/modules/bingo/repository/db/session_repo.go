package db

import (
	"context"
	"errors"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"gorm.io/gorm"
)

// SessionRepository implements domain.SessionRepository using gorm
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) SetActiveGame(ctx context.Context, sessionID, gameID string) error {
	updates := map[string]interface{}{
		"status":         domain.SessionRunning,
		"active_game_id": gameID,
	}
	result := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("id = ?", sessionID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
