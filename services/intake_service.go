package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"mindcare-backend/models"
	"mindcare-backend/utils"

	"github.com/google/uuid"
)

// IntakeStep is the current position in the two-step booking form.
type IntakeStep string

const (
	StepContact    IntakeStep = "step1_contact"
	StepSchedule   IntakeStep = "step2_schedule"
	StepSubmitting IntakeStep = "submitting"
)

// Sentinel errors surfaced to controllers via strings.Contains dispatch.
var (
	ErrSessionNotFound      = errors.New("session_not_found")
	ErrInvalidStep          = errors.New("invalid_step")
	ErrSubmissionInProgress = errors.New("submission_in_progress")
	ErrSlotUnavailable      = errors.New("slot_unavailable")
	ErrCounselorUnavailable = errors.New("counselor_unavailable")
)

// DefaultSessionTTL is how long an idle intake session survives. Bookings
// themselves are durable; only the in-progress form is ephemeral.
const DefaultSessionTTL = 30 * time.Minute

// IntakeSession is one student's in-progress booking form. Snapshots of it
// are handed out; the live copy stays behind the service mutex.
type IntakeSession struct {
	Token     string                `json:"token"`
	Step      IntakeStep            `json:"step"`
	Form      models.BookingRequest `json:"form"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// IntakeService owns the multi-step intake state machine. All session
// state is in-memory for the lifetime of the process; nothing about an
// unsubmitted form is persisted.
type IntakeService struct {
	Catalog   CatalogProvider
	Submitter *BookingService
	TTL       time.Duration

	mu       sync.Mutex
	sessions map[string]*IntakeSession
}

func NewIntakeService(catalog CatalogProvider, submitter *BookingService) *IntakeService {
	return &IntakeService{
		Catalog:   catalog,
		Submitter: submitter,
		TTL:       DefaultSessionTTL,
		sessions:  make(map[string]*IntakeSession),
	}
}

// StartSession creates an empty session at step 1 and returns it.
func (s *IntakeService) StartSession() *IntakeSession {
	now := time.Now().UTC()
	session := &IntakeSession{
		Token:     uuid.New().String(),
		Step:      StepContact,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return snapshot(session)
}

// GetSession returns the current session state.
func (s *IntakeService) GetSession(token string) (*IntakeSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookupLocked(token)
	if err != nil {
		return nil, err
	}
	return snapshot(session), nil
}

// CancelSession discards a session. Not allowed once a submission is in
// flight; aborting mid-write risks an orphaned record.
func (s *IntakeService) CancelSession(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookupLocked(token)
	if err != nil {
		return err
	}
	if session.Step == StepSubmitting {
		return ErrSubmissionInProgress
	}
	delete(s.sessions, token)
	return nil
}

// UpdateSession merges non-empty field values into the form. Selecting a
// time slot or counselor is validated against the catalog here, so an
// entry flagged unavailable can never make it into the form.
func (s *IntakeService) UpdateSession(token string, patch models.BookingRequest) (*IntakeSession, error) {
	if slot := strings.TrimSpace(patch.TimeSlot); slot != "" {
		ok, err := timeSlotAvailable(s.Catalog, slot)
		if err != nil {
			return nil, fmt.Errorf("failed to check time slot: %w", err)
		}
		if !ok {
			return nil, ErrSlotUnavailable
		}
	}
	if cid := strings.TrimSpace(patch.CounselorID); cid != "" {
		ok, err := counselorAvailable(s.Catalog, cid)
		if err != nil {
			return nil, fmt.Errorf("failed to check counselor: %w", err)
		}
		if !ok {
			return nil, ErrCounselorUnavailable
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookupLocked(token)
	if err != nil {
		return nil, err
	}
	if session.Step == StepSubmitting {
		return nil, ErrSubmissionInProgress
	}

	mergeForm(&session.Form, patch)
	session.UpdatedAt = time.Now().UTC()
	return snapshot(session), nil
}

// Continue advances step 1 -> step 2. The contact fields must already be
// complete; scheduling details are collected on step 2.
func (s *IntakeService) Continue(token string) (*IntakeSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookupLocked(token)
	if err != nil {
		return nil, err
	}

	switch session.Step {
	case StepContact:
	case StepSubmitting:
		return nil, ErrSubmissionInProgress
	default:
		return nil, fmt.Errorf("%w: continue is only valid on %s", ErrInvalidStep, StepContact)
	}

	if err := ValidateContactFields(session.Form); err != nil {
		return nil, err
	}

	session.Step = StepSchedule
	session.UpdatedAt = time.Now().UTC()
	return snapshot(session), nil
}

// Back returns step 2 -> step 1, always allowed, all field values kept.
func (s *IntakeService) Back(token string) (*IntakeSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookupLocked(token)
	if err != nil {
		return nil, err
	}

	switch session.Step {
	case StepSchedule:
	case StepSubmitting:
		return nil, ErrSubmissionInProgress
	default:
		return nil, fmt.Errorf("%w: back is only valid on %s", ErrInvalidStep, StepSchedule)
	}

	session.Step = StepContact
	session.UpdatedAt = time.Now().UTC()
	return snapshot(session), nil
}

// Confirm runs the pre-submit validation and, if it passes, hands the
// request to the submitter. While the submission is in flight the session
// sits in StepSubmitting and further confirms are refused, so one session
// can never produce two create calls.
//
// Outcome handling:
//   - validation refusal: no side effects, form unchanged
//   - persistence error: back to step 2, fields preserved for retry
//   - full or partial success: form reset to empty at step 1
func (s *IntakeService) Confirm(token string) (SubmitResult, error) {
	s.mu.Lock()

	session, err := s.lookupLocked(token)
	if err != nil {
		s.mu.Unlock()
		return SubmitResult{}, err
	}

	switch session.Step {
	case StepSchedule:
	case StepSubmitting:
		s.mu.Unlock()
		return SubmitResult{}, ErrSubmissionInProgress
	default:
		s.mu.Unlock()
		return SubmitResult{}, fmt.Errorf("%w: confirm is only valid on %s", ErrInvalidStep, StepSchedule)
	}

	form := session.Form
	s.mu.Unlock()

	// Catalog lookups happen outside the lock; the catalog is static.
	if err := s.ValidateBookingRequest(form); err != nil {
		return SubmitResult{}, err
	}

	s.mu.Lock()
	// Re-check under the lock: another confirm may have won the race.
	session, err = s.lookupLocked(token)
	if err != nil {
		s.mu.Unlock()
		return SubmitResult{}, err
	}
	if session.Step == StepSubmitting {
		s.mu.Unlock()
		return SubmitResult{}, ErrSubmissionInProgress
	}
	if session.Step != StepSchedule {
		s.mu.Unlock()
		return SubmitResult{}, fmt.Errorf("%w: confirm is only valid on %s", ErrInvalidStep, StepSchedule)
	}
	session.Step = StepSubmitting
	session.UpdatedAt = time.Now().UTC()
	form = session.Form
	s.mu.Unlock()

	result := s.Submitter.Submit(form)

	s.mu.Lock()
	defer s.mu.Unlock()

	// The session may have expired during a slow submit; the booking
	// outcome stands regardless.
	session, ok := s.sessions[token]
	if ok {
		if result.Status == SubmitPersistenceError {
			session.Step = StepSchedule // fields preserved for retry
		} else {
			session.Form = models.BookingRequest{}
			session.Step = StepContact
		}
		session.UpdatedAt = time.Now().UTC()
	}

	return result, nil
}

//
// ---------------------------
// Validation
// ---------------------------
//

// ValidateContactFields gates step 1 -> step 2.
func ValidateContactFields(req models.BookingRequest) error {
	var missing []string

	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if !utils.IsValidEmailFormat(req.Email) {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(req.College) == "" {
		missing = append(missing, "college")
	}
	if !models.IsValidAcademicYear(req.AcademicYear) {
		missing = append(missing, "academicYear")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing_information: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateBookingRequest is the full pre-submit check: every required
// field present and valid, and the chosen slot (and counselor, if any)
// still flagged available in the catalog.
func (s *IntakeService) ValidateBookingRequest(req models.BookingRequest) error {
	var missing []string

	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if !utils.IsValidEmailFormat(req.Email) {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(req.College) == "" {
		missing = append(missing, "college")
	}
	if !models.IsValidAcademicYear(req.AcademicYear) {
		missing = append(missing, "academicYear")
	}
	if !models.IsValidSessionType(req.SessionType) {
		missing = append(missing, "sessionType")
	}
	if strings.TrimSpace(req.TimeSlot) == "" {
		missing = append(missing, "timeSlot")
	}

	if preferred, err := req.ParsePreferredDate(); err != nil {
		missing = append(missing, "preferredDate")
	} else {
		today := time.Now().Truncate(24 * time.Hour)
		if preferred.Before(today) {
			missing = append(missing, "preferredDate")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing_information: %s", strings.Join(missing, ", "))
	}

	// Re-validate availability at confirm time. Selection already filters
	// on the catalog, but a slot can go away between selection and confirm.
	ok, err := timeSlotAvailable(s.Catalog, req.TimeSlot)
	if err != nil {
		return fmt.Errorf("failed to check time slot: %w", err)
	}
	if !ok {
		return ErrSlotUnavailable
	}

	if cid := strings.TrimSpace(req.CounselorID); cid != "" {
		ok, err := counselorAvailable(s.Catalog, cid)
		if err != nil {
			return fmt.Errorf("failed to check counselor: %w", err)
		}
		if !ok {
			return ErrCounselorUnavailable
		}
	}

	return nil
}

//
// ---------------------------
// Internals
// ---------------------------
//

// lookupLocked resolves a token and expires stale sessions. Caller holds mu.
func (s *IntakeService) lookupLocked(token string) (*IntakeSession, error) {
	session, ok := s.sessions[strings.TrimSpace(token)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	// A session mid-submit is never expired out from under the submitter.
	if session.Step != StepSubmitting && time.Since(session.UpdatedAt) > s.ttl() {
		delete(s.sessions, session.Token)
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *IntakeService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultSessionTTL
	}
	return s.TTL
}

func snapshot(session *IntakeSession) *IntakeSession {
	cp := *session
	return &cp
}

// mergeForm overwrites dst fields with non-empty patch values. The form
// only ever grows; clearing a field means starting a new session.
func mergeForm(dst *models.BookingRequest, patch models.BookingRequest) {
	if strings.TrimSpace(patch.Name) != "" {
		dst.Name = strings.TrimSpace(patch.Name)
	}
	if strings.TrimSpace(patch.Email) != "" {
		dst.Email = strings.TrimSpace(patch.Email)
	}
	if strings.TrimSpace(patch.Phone) != "" {
		dst.Phone = strings.TrimSpace(patch.Phone)
	}
	if strings.TrimSpace(patch.College) != "" {
		dst.College = strings.TrimSpace(patch.College)
	}
	if strings.TrimSpace(patch.AcademicYear) != "" {
		dst.AcademicYear = strings.TrimSpace(patch.AcademicYear)
	}
	if strings.TrimSpace(patch.PreferredDate) != "" {
		dst.PreferredDate = strings.TrimSpace(patch.PreferredDate)
	}
	if strings.TrimSpace(patch.TimeSlot) != "" {
		dst.TimeSlot = strings.TrimSpace(patch.TimeSlot)
	}
	if strings.TrimSpace(patch.SessionType) != "" {
		dst.SessionType = strings.TrimSpace(patch.SessionType)
	}
	if strings.TrimSpace(patch.Concerns) != "" {
		dst.Concerns = strings.TrimSpace(patch.Concerns)
	}
	if strings.TrimSpace(patch.CounselorID) != "" {
		dst.CounselorID = strings.TrimSpace(patch.CounselorID)
	}
}
