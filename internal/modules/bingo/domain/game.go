// Package domain defines the entities and interfaces for the bingo module.
package domain

import (
	"time"
)

// SessionStatus defines the lifecycle of a bingo session (an evening of games)
type SessionStatus string

const (
	SessionDraft     SessionStatus = "draft"
	SessionReady     SessionStatus = "ready"
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
)

// GameType distinguishes ordinary games from snowball (jackpot) games
type GameType string

const (
	GameTypeStandard GameType = "standard"
	GameTypeSnowball GameType = "snowball"
)

// WinStage is a win condition tier within a game
type WinStage string

const (
	StageLine      WinStage = "Line"
	StageTwoLines  WinStage = "Two Lines"
	StageFullHouse WinStage = "Full House"
)

// Session represents one live bingo event containing an ordered list of games
type Session struct {
	ID            string        `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name          string        `gorm:"type:varchar(255);not null" json:"name"`
	StartDate     time.Time     `json:"start_date"`
	Notes         string        `gorm:"type:text" json:"notes"`
	Status        SessionStatus `gorm:"type:varchar(16);not null;default:'draft'" json:"status"`
	IsTestSession bool          `gorm:"not null;default:false" json:"is_test_session"`
	CreatedBy     string        `gorm:"type:varchar(64)" json:"created_by"`
	ActiveGameID  string        `gorm:"type:varchar(64)" json:"active_game_id"`
	CreatedAt     time.Time     `json:"created_at"`
}

// TableName overrides the table name
func (Session) TableName() string {
	return "sessions"
}

// Game is the static configuration of one game within a session.
// Runtime progress lives in GameState (1:1 by GameID).
type Game struct {
	ID               string            `gorm:"primaryKey;type:varchar(64)" json:"id"`
	SessionID        string            `gorm:"index;type:varchar(64);not null" json:"session_id"`
	GameIndex        int               `gorm:"not null" json:"game_index"`
	Name             string            `gorm:"type:varchar(255);not null" json:"name"`
	Type             GameType          `gorm:"type:varchar(16);not null;default:'standard'" json:"type"`
	StageSequence    []WinStage        `gorm:"serializer:json;type:text" json:"stage_sequence"`
	BackgroundColour string            `gorm:"type:varchar(32)" json:"background_colour"`
	Prizes           map[string]string `gorm:"serializer:json;type:text" json:"prizes"`
	Notes            string            `gorm:"type:text" json:"notes"`
	SnowballPotID    string            `gorm:"type:varchar(64)" json:"snowball_pot_id"`
	CreatedAt        time.Time         `json:"created_at"`
}

// TableName overrides the table name
func (Game) TableName() string {
	return "games"
}

// DefaultStageSequence is used when a game is configured without explicit stages
func DefaultStageSequence() []WinStage {
	return []WinStage{StageLine, StageTwoLines, StageFullHouse}
}
