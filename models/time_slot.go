package models

import (
	"time"

	"gorm.io/gorm"
)

// TimeSlot is a bookable slot label with an availability flag.
type TimeSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Label     string `gorm:"uniqueIndex;size:32" json:"label"` // e.g. "9:00 AM"
	Available bool   `gorm:"default:true" json:"available"`

	CreatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
