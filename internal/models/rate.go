package models

import "time"

// Rate is the singleton row holding the current gold and silver unit
// prices. It is upsert-only; no history is retained. The rate is read
// only when a weight-basis subscription is created, and the computed
// amount is snapshotted onto the subscription from then on.
type Rate struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	GoldRate   float64   `gorm:"type:decimal(15,2);not null" json:"gold_rate"`
	SilverRate float64   `gorm:"type:decimal(15,2);not null" json:"silver_rate"`
	UpdatedAt  time.Time `json:"updated_at"`
}
