package services

import (
	"fmt"
	"strings"

	"mindcare-backend/models"

	"gorm.io/gorm"
)

// CatalogProvider supplies the static counselor / time-slot catalog the
// intake workflow validates selections against. Read-only.
type CatalogProvider interface {
	ListCounselors() ([]models.Counselor, error)
	ListTimeSlots() ([]models.TimeSlot, error)
}

// CatalogService is the DB-backed catalog.
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

func (s *CatalogService) ListCounselors() ([]models.Counselor, error) {
	var list []models.Counselor
	if err := s.DB.Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list counselors: %w", err)
	}
	return list, nil
}

func (s *CatalogService) ListTimeSlots() ([]models.TimeSlot, error) {
	var list []models.TimeSlot
	if err := s.DB.Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list time slots: %w", err)
	}
	return list, nil
}

// timeSlotAvailable reports whether label matches a slot flagged available.
func timeSlotAvailable(catalog CatalogProvider, label string) (bool, error) {
	slots, err := catalog.ListTimeSlots()
	if err != nil {
		return false, err
	}
	label = strings.TrimSpace(label)
	for _, slot := range slots {
		if slot.Label == label {
			return slot.Available, nil
		}
	}
	return false, nil
}

// counselorAvailable reports whether id matches a counselor flagged
// available. id is the form's string reference.
func counselorAvailable(catalog CatalogProvider, id string) (bool, error) {
	counselors, err := catalog.ListCounselors()
	if err != nil {
		return false, err
	}
	id = strings.TrimSpace(id)
	for _, cs := range counselors {
		if fmt.Sprintf("%d", cs.ID) == id {
			return cs.Available, nil
		}
	}
	return false, nil
}
