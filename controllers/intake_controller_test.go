package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mindcare-backend/models"
	"mindcare-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// ---------------------------
// Stubs
// ---------------------------
//

type stubStore struct {
	calls    int
	failWith error
}

func (s *stubStore) CreateBooking(b *models.Booking) error {
	s.calls++
	if s.failWith != nil {
		return s.failWith
	}
	b.ID = uint(s.calls)
	return nil
}

type stubNotifier struct {
	calls    int
	failWith error
}

func (s *stubNotifier) SendConfirmation(b *models.Booking) error {
	s.calls++
	return s.failWith
}

type stubCatalog struct{}

func (stubCatalog) ListCounselors() ([]models.Counselor, error) {
	return []models.Counselor{{ID: 1, Name: "Dr. Priya Sharma", Available: true}}, nil
}

func (stubCatalog) ListTimeSlots() ([]models.TimeSlot, error) {
	return []models.TimeSlot{
		{Label: "11:00 AM", Available: true},
		{Label: "10:00 AM", Available: false},
	}, nil
}

//
// ---------------------------
// Harness
// ---------------------------
//

type intakeAPI struct {
	router   *gin.Engine
	store    *stubStore
	notifier *stubNotifier
}

func newIntakeAPI(t *testing.T) *intakeAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &stubStore{}
	notifier := &stubNotifier{}
	svc := services.NewIntakeService(stubCatalog{}, services.NewBookingService(store, notifier))
	ctrl := NewIntakeController(svc)

	r := gin.New()
	intake := r.Group("/api/intake")
	{
		intake.POST("", ctrl.StartSession)
		intake.GET("/:token", ctrl.GetSession)
		intake.PUT("/:token", ctrl.UpdateSession)
		intake.POST("/:token/continue", ctrl.ContinueToSchedule)
		intake.POST("/:token/back", ctrl.BackToContact)
		intake.POST("/:token/confirm", ctrl.ConfirmBooking)
		intake.DELETE("/:token", ctrl.CancelSession)
	}

	return &intakeAPI{router: r, store: store, notifier: notifier}
}

func (a *intakeAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (a *intakeAPI) startSession(t *testing.T) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/intake", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (a *intakeAPI) completedForm(t *testing.T) string {
	t.Helper()
	token := a.startSession(t)

	w := a.do(t, http.MethodPut, "/api/intake/"+token, models.BookingRequest{
		Name:         "Asha Rao",
		Email:        "asha@college.edu",
		College:      "IIT X",
		AcademicYear: "2nd",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodPost, "/api/intake/"+token+"/continue", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodPut, "/api/intake/"+token, models.BookingRequest{
		PreferredDate: time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		TimeSlot:      "11:00 AM",
		SessionType:   "individual",
	})
	require.Equal(t, http.StatusOK, w.Code)

	return token
}

//
// ---------------------------
// Tests
// ---------------------------
//

func TestIntakeFlowConfirmSuccess(t *testing.T) {
	api := newIntakeAPI(t)
	token := api.completedForm(t)

	w := api.do(t, http.MethodPost, "/api/intake/"+token+"/confirm", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Booking Confirmed!", body["title"])
	assert.Equal(t, 1, api.store.calls)
	assert.Equal(t, 1, api.notifier.calls)
}

func TestIntakeConfirmPartialSuccessReturns206(t *testing.T) {
	api := newIntakeAPI(t)
	api.notifier.failWith = errors.New("smtp down")
	token := api.completedForm(t)

	w := api.do(t, http.MethodPost, "/api/intake/"+token+"/confirm", nil)
	require.Equal(t, http.StatusPartialContent, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "warning", body["status"])
	assert.Equal(t, "Booking Confirmed!", body["title"])
	assert.Contains(t, body["message"], "your booking is saved")
}

func TestIntakeConfirmPersistenceErrorReturns500(t *testing.T) {
	api := newIntakeAPI(t)
	api.store.failWith = errors.New("connection refused")
	token := api.completedForm(t)

	w := api.do(t, http.MethodPost, "/api/intake/"+token+"/confirm", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "error.bookingFailed", errObj["code"])
	assert.Equal(t, "Booking Failed", errObj["title"])
	assert.Equal(t, 0, api.notifier.calls)

	// The form survives for a retry.
	w = api.do(t, http.MethodGet, "/api/intake/"+token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, string(services.StepSchedule), data["step"])
	form := data["form"].(map[string]any)
	assert.Equal(t, "Asha Rao", form["name"])
}

func TestIntakeConfirmMissingFieldsReturns400(t *testing.T) {
	api := newIntakeAPI(t)
	token := api.startSession(t)

	w := api.do(t, http.MethodPut, "/api/intake/"+token, models.BookingRequest{
		Name:         "Asha Rao",
		Email:        "asha@college.edu",
		College:      "IIT X",
		AcademicYear: "2nd",
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(t, http.MethodPost, "/api/intake/"+token+"/continue", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Confirm without any step-2 fields.
	w = api.do(t, http.MethodPost, "/api/intake/"+token+"/confirm", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	errObj := decodeBody(t, w)["error"].(map[string]any)
	assert.Equal(t, "error.missingInformation", errObj["code"])
	assert.Equal(t, "Missing Information", errObj["title"])
	assert.Equal(t, "Please fill in all required fields.", errObj["message"])
	assert.Equal(t, 0, api.store.calls)
}

func TestIntakeUpdateRejectsUnavailableSlot(t *testing.T) {
	api := newIntakeAPI(t)
	token := api.startSession(t)

	w := api.do(t, http.MethodPut, "/api/intake/"+token, models.BookingRequest{
		TimeSlot: "10:00 AM",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	errObj := decodeBody(t, w)["error"].(map[string]any)
	assert.Equal(t, "error.slotUnavailable", errObj["code"])
}

func TestIntakeUnknownSessionReturns404(t *testing.T) {
	api := newIntakeAPI(t)

	w := api.do(t, http.MethodGet, "/api/intake/no-such-token", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	errObj := decodeBody(t, w)["error"].(map[string]any)
	assert.Equal(t, "error.sessionNotFound", errObj["code"])
}

func TestIntakeBackFromContactReturns409(t *testing.T) {
	api := newIntakeAPI(t)
	token := api.startSession(t)

	w := api.do(t, http.MethodPost, fmt.Sprintf("/api/intake/%s/back", token), nil)
	require.Equal(t, http.StatusConflict, w.Code)

	errObj := decodeBody(t, w)["error"].(map[string]any)
	assert.Equal(t, "error.invalidStep", errObj["code"])
}

func TestIntakeCancelSession(t *testing.T) {
	api := newIntakeAPI(t)
	token := api.startSession(t)

	w := api.do(t, http.MethodDelete, "/api/intake/"+token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/intake/"+token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
