package models

import "time"

// AppVersion is the singleton row describing the published client app
// version. MandatoryVersion is the floor below which clients must update.
type AppVersion struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	CurrentVersion   string    `gorm:"type:varchar(50);not null" json:"current_version"`
	MandatoryVersion string    `gorm:"type:varchar(50);not null" json:"mandatory_version"`
	UpdateURL        string    `gorm:"type:varchar(512)" json:"update_url,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}
