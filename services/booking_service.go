package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"mindcare-backend/models"
	"mindcare-backend/utils"

	"gorm.io/gorm"
)

// BookingStore is the durable record store boundary. One create call per
// submitted request; the record is never rolled back afterwards.
type BookingStore interface {
	CreateBooking(b *models.Booking) error
}

// Notifier is the one-shot confirmation boundary. Failures are reported
// back but must never undo a saved booking.
type Notifier interface {
	SendConfirmation(b *models.Booking) error
}

// SubmitStatus classifies the combined persist+notify outcome. Callers
// must handle each branch explicitly; notification failure is not an
// overall failure.
type SubmitStatus string

const (
	SubmitFullSuccess      SubmitStatus = "full_success"
	SubmitPartialSuccess   SubmitStatus = "partial_success"
	SubmitPersistenceError SubmitStatus = "persistence_error"
)

// SubmitResult is the outcome of one submit invocation.
type SubmitResult struct {
	Status  SubmitStatus
	Booking *models.Booking // set unless Status is SubmitPersistenceError
	Err     error           // underlying store error on SubmitPersistenceError
}

// BookingService orchestrates the two-phase sequence: persist the booking,
// then best-effort notify.
type BookingService struct {
	Store    BookingStore
	Notifier Notifier
}

func NewBookingService(store BookingStore, notifier Notifier) *BookingService {
	return &BookingService{Store: store, Notifier: notifier}
}

// BuildBookingRecord converts a validated form value into a record ready
// for the store (status pending, fresh reference code, nullable optionals).
func BuildBookingRecord(req models.BookingRequest) (*models.Booking, error) {
	preferred, err := req.ParsePreferredDate()
	if err != nil {
		return nil, fmt.Errorf("invalid preferred_date format: %w", err)
	}

	raw, err := utils.GenerateReferenceCode(8)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reference code: %w", err)
	}
	ref, err := utils.GenerateFormattedReferenceCode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to format reference code: %w", err)
	}

	b := &models.Booking{
		ReferenceCode: ref,
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		College:       strings.TrimSpace(req.College),
		AcademicYear:  req.AcademicYear,
		PreferredDate: preferred,
		TimeSlot:      strings.TrimSpace(req.TimeSlot),
		SessionType:   req.SessionType,
		Status:        "pending",
	}

	if phone := strings.TrimSpace(req.Phone); phone != "" {
		b.Phone = &phone
	}
	if concerns := strings.TrimSpace(req.Concerns); concerns != "" {
		b.Concerns = &concerns
	}
	if cid := strings.TrimSpace(req.CounselorID); cid != "" {
		parsed, perr := strconv.ParseUint(cid, 10, 64)
		if perr != nil {
			return nil, fmt.Errorf("invalid counselor id %q", cid)
		}
		id := uint(parsed)
		b.CounselorID = &id
	}

	return b, nil
}

// Submit persists the request and then attempts the confirmation email.
// Exactly one create call; at most one notify call, and only after create
// succeeded. No automatic retries on either side.
func (s *BookingService) Submit(req models.BookingRequest) SubmitResult {
	record, err := BuildBookingRecord(req)
	if err != nil {
		return SubmitResult{Status: SubmitPersistenceError, Err: err}
	}

	if err := s.Store.CreateBooking(record); err != nil {
		return SubmitResult{
			Status: SubmitPersistenceError,
			Err:    fmt.Errorf("failed to save booking: %w", err),
		}
	}

	// Booking is durable from here on. An email failure only changes the
	// wording of the success message.
	if err := s.Notifier.SendConfirmation(record); err != nil {
		log.Printf("email_send_failed for booking %d (ref %s): %v", record.ID, record.ReferenceCode, err)
		return SubmitResult{Status: SubmitPartialSuccess, Booking: record}
	}

	return SubmitResult{Status: SubmitFullSuccess, Booking: record}
}

//
// ---------------------------
// GORM-backed store
// ---------------------------
//

// GormBookingStore wraps *gorm.DB for the bookings table.
type GormBookingStore struct {
	DB *gorm.DB
}

func NewGormBookingStore(db *gorm.DB) *GormBookingStore {
	return &GormBookingStore{DB: db}
}

func (s *GormBookingStore) CreateBooking(b *models.Booking) error {
	if b.Status == "" {
		b.Status = "pending"
	}
	if err := s.DB.Create(b).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetAllBookings returns bookings newest-first with counselor preloaded.
func (s *GormBookingStore) GetAllBookings() ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.
		Preload("Counselor").
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}

// GetBookingByID looks a booking up by numeric id.
func (s *GormBookingStore) GetBookingByID(id uint) (*models.Booking, error) {
	var b models.Booking
	if err := s.DB.Preload("Counselor").First(&b, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("booking_not_found")
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &b, nil
}

// GetBookingByReference looks a booking up by its reference code,
// accepting both "ABCDEFGH" and "ABCD-EFGH" input.
func (s *GormBookingStore) GetBookingByReference(code string) (*models.Booking, error) {
	norm := utils.NormalizeReferenceCode(code)
	if len(norm) != 8 {
		return nil, fmt.Errorf("booking_not_found")
	}
	formatted := norm[:4] + "-" + norm[4:]

	var b models.Booking
	if err := s.DB.Preload("Counselor").
		Where("reference_code = ?", formatted).
		First(&b).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("booking_not_found")
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &b, nil
}

//
// ---------------------------
// SMTP notifier
// ---------------------------
//

// SMTPNotifier sends the confirmation email through utils.
type SMTPNotifier struct{}

func NewSMTPNotifier() *SMTPNotifier {
	return &SMTPNotifier{}
}

func (n *SMTPNotifier) SendConfirmation(b *models.Booking) error {
	concerns := ""
	if b.Concerns != nil {
		concerns = *b.Concerns
	}
	return utils.SendBookingConfirmationEmail(utils.BookingEmailData{
		Name:          b.Name,
		Email:         b.Email,
		College:       b.College,
		AcademicYear:  b.AcademicYear,
		PreferredDate: b.PreferredDate,
		TimeSlot:      b.TimeSlot,
		SessionType:   b.SessionType,
		Concerns:      concerns,
		ReferenceCode: b.ReferenceCode,
		BookingID:     b.ID,
	})
}
