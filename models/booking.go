package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking is the persisted record of a counseling session request.
// It is created exactly once with status "pending"; later status
// transitions (pending -> confirmed, etc.) belong to the counseling
// office tooling, not to this service.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;uniqueIndex;size:16" json:"reference_code"`

	Name  string  `gorm:"size:255" json:"name"`
	Email string  `gorm:"size:255" json:"email"`
	Phone *string `gorm:"size:32" json:"phone,omitempty"`

	College      string `gorm:"size:255" json:"college"`
	AcademicYear string `gorm:"column:academic_year;size:16" json:"academic_year"`

	PreferredDate time.Time `gorm:"column:preferred_date" json:"preferred_date"`
	TimeSlot      string    `gorm:"column:time_slot;size:32" json:"time_slot"`
	SessionType   string    `gorm:"column:session_type;size:32" json:"session_type"`

	Concerns    *string `gorm:"type:text" json:"concerns,omitempty"`
	CounselorID *uint   `gorm:"column:counselor_id;index" json:"counselor_id,omitempty"`

	Status string `gorm:"size:32;default:pending" json:"status"`

	Counselor Counselor `gorm:"foreignKey:CounselorID;references:ID" json:"counselor,omitempty"`
}
