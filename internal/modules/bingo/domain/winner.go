package domain

import (
	"time"
)

// Winner is an immutable record of a validated win. Only the PrizeGiven
// toggle and the audit void flags may change after insert.
type Winner struct {
	ID                string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	SessionID         string    `gorm:"index;type:varchar(64);not null" json:"session_id"`
	GameID            string    `gorm:"index;type:varchar(64);not null" json:"game_id"`
	Stage             WinStage  `gorm:"type:varchar(16);not null" json:"stage"`
	WinnerName        string    `gorm:"type:varchar(255);not null" json:"winner_name"`
	PrizeDescription  string    `gorm:"type:varchar(255)" json:"prize_description"`
	PrizeGiven        bool      `gorm:"not null;default:false" json:"prize_given"`
	CallCountAtWin    int       `gorm:"not null" json:"call_count_at_win"`
	IsSnowballJackpot bool      `gorm:"not null;default:false" json:"is_snowball_jackpot"`
	IsVoid            bool      `gorm:"not null;default:false" json:"is_void"`
	VoidReason        string    `gorm:"type:varchar(255)" json:"void_reason"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Winner) TableName() string {
	return "winners"
}

// Display win type identifiers stored on GameState for the viewer screens
const (
	WinTypeLine      = "line"
	WinTypeTwoLines  = "two_lines"
	WinTypeFullHouse = "full_house"
	WinTypeSnowball  = "snowball"
	WinTypeGeneric   = "win"
)

// WinDisplay maps a stage (or a jackpot win) to the display type and
// banner text shown on viewer screens.
func WinDisplay(stage WinStage, jackpot bool) (winType, winText string) {
	if jackpot {
		return WinTypeSnowball, "JACKPOT WIN!"
	}
	switch stage {
	case StageLine:
		return WinTypeLine, "LINE WINNER!"
	case StageTwoLines:
		return WinTypeTwoLines, "TWO LINES WINNER!"
	case StageFullHouse:
		return WinTypeFullHouse, "FULL HOUSE WINNER!"
	default:
		return WinTypeGeneric, "WINNER!"
	}
}
