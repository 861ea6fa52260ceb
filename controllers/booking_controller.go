// controllers/booking_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	mysql "github.com/go-sql-driver/mysql"

	"mindcare-backend/models"
	"mindcare-backend/services"
	"mindcare-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
	IntakeSvc  *services.IntakeService
	Store      *services.GormBookingStore
}

func NewBookingController(
	bookingSvc *services.BookingService,
	intakeSvc *services.IntakeService,
	store *services.GormBookingStore,
) *BookingController {
	return &BookingController{BookingSvc: bookingSvc, IntakeSvc: intakeSvc, Store: store}
}

// ---------------------------
// Helper: booking id (string) from param/query
// ---------------------------

func getBookingIDString(c *gin.Context) (string, bool) {
	if id := c.Param("id"); id != "" {
		return id, true
	}
	if q := c.Query("bookingId"); q != "" {
		return q, true
	}
	return "", false
}

func respondErrorMissingBookingID(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{
			"code":    "error.missingBookingId",
			"message": "booking id or reference code is required",
		},
	})
}

// ---------------------------
// Helper: detect MySQL FK error (e.g. counselor_id pointing nowhere)
// ---------------------------

func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1452
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "foreign key") || strings.Contains(lower, "1452")
}

// ---------------------------
// 1) Direct create (one-shot, no intake session)
// ---------------------------

// CreateBooking validates and submits a complete request in one call. It
// runs the same validation and two-phase submit as the intake confirm.
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var payload models.BookingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("CreateBooking bind error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "error.invalidPayload",
				"message": "Invalid request body",
				"details": err.Error(),
			},
		})
		return
	}

	if err := ctrl.IntakeSvc.ValidateBookingRequest(payload); err != nil {
		respondIntakeError(c, err)
		return
	}

	result := ctrl.BookingSvc.Submit(payload)

	if result.Status == services.SubmitPersistenceError && isForeignKeyError(result.Err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "error.foreignKey",
				"message": "counselor_id does not reference a known counselor",
				"details": result.Err.Error(),
			},
		})
		return
	}

	respondSubmitResult(c, result)
}

// ---------------------------
// 2) Staff listing / details
// ---------------------------

func (ctrl *BookingController) GetBookings(c *gin.Context) {
	bookings, err := ctrl.Store.GetAllBookings()
	if err != nil {
		log.Printf("GetBookings error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "error.fetchBookings",
				"message": "Unable to retrieve bookings",
			},
		})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBookingDetails accepts either a numeric id or a reference code
// ("ABCD-EFGH") in the :id segment.
func (ctrl *BookingController) GetBookingDetails(c *gin.Context) {
	idStr, ok := getBookingIDString(c)
	if !ok {
		respondErrorMissingBookingID(c)
		return
	}

	var booking *models.Booking
	var err error
	if parsed, perr := strconv.ParseUint(idStr, 10, 64); perr == nil {
		booking, err = ctrl.Store.GetBookingByID(uint(parsed))
	} else {
		booking, err = ctrl.Store.GetBookingByReference(idStr)
	}

	if err != nil {
		if strings.Contains(err.Error(), "booking_not_found") {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "error.bookingNotFound",
					"message": "Booking not found",
				},
			})
			return
		}
		log.Printf("GetBookingDetails DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "error.fetchBookingFailed",
				"message": "Unable to retrieve booking",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             booking.ID,
		"reference_code": booking.ReferenceCode,
		"name":           booking.Name,
		"email":          booking.Email,
		"phone":          booking.Phone,
		"college":        booking.College,
		"academic_year":  booking.AcademicYear,
		"preferred_date": booking.PreferredDate.Format("2006-01-02"),
		"time_slot":      booking.TimeSlot,
		"session_type":   booking.SessionType,
		"session_label":  utils.FormatSessionType(booking.SessionType),
		"concerns":       booking.Concerns,
		"counselor":      counselorSummary(booking),
		"status":         booking.Status,
		"created_at":     booking.CreatedAt,
	})
}

func counselorSummary(b *models.Booking) gin.H {
	if b.CounselorID == nil || b.Counselor.ID == 0 {
		return nil
	}
	return gin.H{
		"id":         b.Counselor.ID,
		"name":       b.Counselor.Name,
		"speciality": b.Counselor.Speciality,
	}
}
