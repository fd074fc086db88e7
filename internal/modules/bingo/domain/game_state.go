package domain

import (
	"math/rand"
	"time"
)

// MaxNumber is the highest ball in play; the sequence is a permutation of 1..MaxNumber.
const MaxNumber = 90

// DefaultCallDelaySeconds paces the viewer-side reveal animation.
// Calls are always persisted immediately; this only delays display.
const DefaultCallDelaySeconds = 3

// GameStatus defines the lifecycle of a game's runtime state
type GameStatus string

const (
	GameNotStarted GameStatus = "not_started"
	GameInProgress GameStatus = "in_progress"
	GameCompleted  GameStatus = "completed"
)

// GameState is the single authoritative runtime record for a game.
// It is mutated exclusively by the host currently holding the controller
// lease (ControllingHostID + ControllerLastSeenAt).
type GameState struct {
	ID                   string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	GameID               string     `gorm:"uniqueIndex;type:varchar(64);not null" json:"game_id"`
	NumberSequence       []int      `gorm:"serializer:json;type:text" json:"number_sequence"`
	CalledNumbers        []int      `gorm:"serializer:json;type:text" json:"called_numbers"`
	NumbersCalledCount   int        `gorm:"not null;default:0" json:"numbers_called_count"`
	CurrentStageIndex    int        `gorm:"not null;default:0" json:"current_stage_index"`
	Status               GameStatus `gorm:"type:varchar(16);not null;default:'not_started'" json:"status"`
	CallDelaySeconds     int        `gorm:"not null;default:3" json:"call_delay_seconds"`
	OnBreak              bool       `gorm:"not null;default:false" json:"on_break"`
	PausedForValidation  bool       `gorm:"not null;default:false" json:"paused_for_validation"`
	DisplayWinType       string     `gorm:"type:varchar(32)" json:"display_win_type"`
	DisplayWinText       string     `gorm:"type:varchar(64)" json:"display_win_text"`
	DisplayWinnerName    string     `gorm:"type:varchar(255)" json:"display_winner_name"`
	ControllingHostID    string     `gorm:"type:varchar(64)" json:"controlling_host_id"`
	ControllerLastSeenAt *time.Time `json:"controller_last_seen_at"`
	StartedAt            *time.Time `json:"started_at"`
	EndedAt              *time.Time `json:"ended_at"`
	LastCallAt           *time.Time `json:"last_call_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TableName overrides the table name
func (GameState) TableName() string {
	return "game_states"
}

// CanAcceptCall checks whether the next number may be drawn.
// Break and validation pause both block calling; exhaustion is checked separately.
func (s *GameState) CanAcceptCall() bool {
	return s.Status == GameInProgress && !s.OnBreak && !s.PausedForValidation
}

// SequenceExhausted reports whether every number has been called
func (s *GameState) SequenceExhausted() bool {
	return s.NumbersCalledCount >= len(s.NumberSequence)
}

// NextNumber returns the number that the next call would reveal
func (s *GameState) NextNumber() int {
	return s.NumberSequence[s.NumbersCalledCount]
}

// ClearWinDisplay removes any transient win announcement
func (s *GameState) ClearWinDisplay() {
	s.DisplayWinType = ""
	s.DisplayWinText = ""
	s.DisplayWinnerName = ""
}

// CalledSet returns the called numbers as a set for claim validation
func (s *GameState) CalledSet() map[int]struct{} {
	set := make(map[int]struct{}, len(s.CalledNumbers))
	for _, n := range s.CalledNumbers {
		set[n] = struct{}{}
	}
	return set
}

// PublicGameState is the viewer-facing projection of a GameState.
// The undrawn remainder of the number sequence and the controller lease
// fields are deliberately absent.
type PublicGameState struct {
	GameID              string     `json:"game_id"`
	CalledNumbers       []int      `json:"called_numbers"`
	NumbersCalledCount  int        `json:"numbers_called_count"`
	CurrentStageIndex   int        `json:"current_stage_index"`
	Status              GameStatus `json:"status"`
	CallDelaySeconds    int        `json:"call_delay_seconds"`
	OnBreak             bool       `json:"on_break"`
	PausedForValidation bool       `json:"paused_for_validation"`
	DisplayWinType      string     `json:"display_win_type"`
	DisplayWinText      string     `json:"display_win_text"`
	DisplayWinnerName   string     `json:"display_winner_name"`
	LastCallAt          *time.Time `json:"last_call_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Public returns the viewer-facing projection of the state
func (s *GameState) Public() *PublicGameState {
	return &PublicGameState{
		GameID:              s.GameID,
		CalledNumbers:       s.CalledNumbers,
		NumbersCalledCount:  s.NumbersCalledCount,
		CurrentStageIndex:   s.CurrentStageIndex,
		Status:              s.Status,
		CallDelaySeconds:    s.CallDelaySeconds,
		OnBreak:             s.OnBreak,
		PausedForValidation: s.PausedForValidation,
		DisplayWinType:      s.DisplayWinType,
		DisplayWinText:      s.DisplayWinText,
		DisplayWinnerName:   s.DisplayWinnerName,
		LastCallAt:          s.LastCallAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

// NewNumberSequence returns a uniformly shuffled permutation of 1..MaxNumber.
// A fresh sequence is generated once per fresh game start; it is immutable
// for the remainder of that run.
func NewNumberSequence(rnd *rand.Rand) []int {
	numbers := make([]int, MaxNumber)
	for i := range numbers {
		numbers[i] = i + 1
	}
	rnd.Shuffle(len(numbers), func(i, j int) {
		numbers[i], numbers[j] = numbers[j], numbers[i]
	})
	return numbers
}
