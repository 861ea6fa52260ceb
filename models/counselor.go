package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Counselor is a catalog entry. The list is static per session: seeded at
// startup and served read-only.
type Counselor struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name       string `gorm:"size:255" json:"name"`
	Speciality string `gorm:"size:255" json:"speciality"`
	Experience string `gorm:"size:64" json:"experience"` // display label, e.g. "8 years"

	// JSON array of language names, e.g. ["Hindi","English"]
	Languages datatypes.JSON `gorm:"column:languages" json:"languages"`

	Available bool `gorm:"default:true" json:"available"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
