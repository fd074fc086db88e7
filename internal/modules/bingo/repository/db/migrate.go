package db

import (
	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the bingo tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Session{},
		&domain.Game{},
		&domain.GameState{},
		&domain.Winner{},
		&domain.SnowballPot{},
		&domain.SnowballPotHistory{},
	)
}
