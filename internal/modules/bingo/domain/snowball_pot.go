package domain

import (
	"time"
)

// SnowballPot is a cross-game rolling jackpot. Base values are the
// immutable reference; current values grow by the increments on every
// non-winning game completion and reset to base when the jackpot is won.
// Invariant: current values never drop below base until a reset.
type SnowballPot struct {
	ID                   string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name                 string     `gorm:"type:varchar(255);not null" json:"name"`
	BaseMaxCalls         int        `gorm:"not null" json:"base_max_calls"`
	BaseJackpotAmount    float64    `gorm:"type:decimal(18,2);not null" json:"base_jackpot_amount"`
	CallsIncrement       int        `gorm:"not null;default:0" json:"calls_increment"`
	JackpotIncrement     float64    `gorm:"type:decimal(18,2);not null;default:0" json:"jackpot_increment"`
	CurrentMaxCalls      int        `gorm:"not null" json:"current_max_calls"`
	CurrentJackpotAmount float64    `gorm:"type:decimal(18,2);not null" json:"current_jackpot_amount"`
	LastAwardedAt        *time.Time `json:"last_awarded_at"`
	CreatedAt            time.Time  `json:"created_at"`
}

// TableName overrides the table name
func (SnowballPot) TableName() string {
	return "snowball_pots"
}

// AtBase reports whether the pot currently sits at its base values,
// in which case a jackpot-won reset is a no-op.
func (p *SnowballPot) AtBase() bool {
	return p.CurrentJackpotAmount <= p.BaseJackpotAmount && p.CurrentMaxCalls <= p.BaseMaxCalls
}

// Pot history change types
const (
	PotChangeRollover    = "rollover"
	PotChangeJackpotWon  = "jackpot_won"
	PotChangeManualReset = "manual_reset"
)

// SnowballPotHistory is one append-only audit entry per pot mutation
type SnowballPotHistory struct {
	ID            string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	SnowballPotID string    `gorm:"index;type:varchar(64);not null" json:"snowball_pot_id"`
	ChangeType    string    `gorm:"type:varchar(32);not null" json:"change_type"`
	OldValMax     int       `json:"old_val_max"`
	NewValMax     int       `json:"new_val_max"`
	OldValJackpot float64   `gorm:"type:decimal(18,2)" json:"old_val_jackpot"`
	NewValJackpot float64   `gorm:"type:decimal(18,2)" json:"new_val_jackpot"`
	ChangedBy     string    `gorm:"type:varchar(64)" json:"changed_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName overrides the table name
func (SnowballPotHistory) TableName() string {
	return "snowball_pot_history"
}
