package models

import (
	"strings"
	"time"
)

// Valid academic years and session types (the form offers exactly these).
var (
	AcademicYears = []string{"1st", "2nd", "3rd", "4th", "postgrad"}
	SessionTypes  = []string{"individual", "crisis", "followup"}
)

// BookingRequest is the in-progress form value owned by an intake session.
// Everything is a string because that is what the form collects; the
// conversion to a Booking record happens only when the request is
// submitted.
type BookingRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	College       string `json:"college"`
	AcademicYear  string `json:"academicYear"`
	PreferredDate string `json:"preferredDate"` // YYYY-MM-DD
	TimeSlot      string `json:"timeSlot"`
	SessionType   string `json:"sessionType"`
	Concerns      string `json:"concerns,omitempty"`
	CounselorID   string `json:"counselorId,omitempty"`
}

// IsEmpty reports whether no field has been filled in yet.
func (r BookingRequest) IsEmpty() bool {
	return r == BookingRequest{}
}

func IsValidAcademicYear(y string) bool {
	for _, v := range AcademicYears {
		if v == y {
			return true
		}
	}
	return false
}

func IsValidSessionType(t string) bool {
	for _, v := range SessionTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ParsePreferredDate parses the form's date field ("2006-01-02").
func (r BookingRequest) ParsePreferredDate() (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(r.PreferredDate))
}
