// controllers/intake_controller.go
package controllers

import (
	"log"
	"net/http"
	"strings"

	"mindcare-backend/models"
	"mindcare-backend/services"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Controller
// ---------------------------

type IntakeController struct {
	IntakeSvc *services.IntakeService
}

func NewIntakeController(svc *services.IntakeService) *IntakeController {
	return &IntakeController{IntakeSvc: svc}
}

// ---------------------------
// Helper: structured errors
// ---------------------------

func respondErrorMissingToken(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{
			"code":    "error.missingToken",
			"message": "intake session token is required",
		},
	})
}

// respondIntakeError maps the intake sentinel errors onto the HTTP surface.
func respondIntakeError(c *gin.Context, err error) {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "session_not_found"):
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "error.sessionNotFound",
				"message": "Intake session not found or expired. Please start again.",
			},
		})

	case strings.Contains(msg, "submission_in_progress"):
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"code":    "error.submissionInProgress",
				"message": "A submission is already in progress for this session.",
			},
		})

	case strings.Contains(msg, "missing_information"):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "error.missingInformation",
				"title":   "Missing Information",
				"message": "Please fill in all required fields.",
				"details": msg,
			},
		})

	case strings.Contains(msg, "slot_unavailable"):
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"code":    "error.slotUnavailable",
				"message": "The selected time slot is no longer available.",
			},
		})

	case strings.Contains(msg, "counselor_unavailable"):
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"code":    "error.counselorUnavailable",
				"message": "The selected counselor is not available.",
			},
		})

	case strings.Contains(msg, "invalid_step"):
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"code":    "error.invalidStep",
				"message": "This action is not allowed at the current step.",
				"details": msg,
			},
		})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "error.internal",
				"message": "Internal error while processing the intake session.",
				"details": msg,
			},
		})
	}
}

// ---------------------------
// 1) Start session
// ---------------------------

func (ctrl *IntakeController) StartSession(c *gin.Context) {
	session := ctrl.IntakeSvc.StartSession()
	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   session,
	})
}

// ---------------------------
// 2) Read session
// ---------------------------

func (ctrl *IntakeController) GetSession(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondErrorMissingToken(c)
		return
	}

	session, err := ctrl.IntakeSvc.GetSession(token)
	if err != nil {
		respondIntakeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": session})
}

// ---------------------------
// 3) Update form fields
// ---------------------------

func (ctrl *IntakeController) UpdateSession(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondErrorMissingToken(c)
		return
	}

	var patch models.BookingRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "error.invalidPayload",
				"message": "invalid intake payload",
				"details": err.Error(),
			},
		})
		return
	}

	session, err := ctrl.IntakeSvc.UpdateSession(token, patch)
	if err != nil {
		respondIntakeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": session})
}

// ---------------------------
// 4) Step transitions
// ---------------------------

func (ctrl *IntakeController) ContinueToSchedule(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondErrorMissingToken(c)
		return
	}

	session, err := ctrl.IntakeSvc.Continue(token)
	if err != nil {
		respondIntakeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": session})
}

func (ctrl *IntakeController) BackToContact(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondErrorMissingToken(c)
		return
	}

	session, err := ctrl.IntakeSvc.Back(token)
	if err != nil {
		respondIntakeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": session})
}

// ---------------------------
// 5) Confirm booking
// ---------------------------

func (ctrl *IntakeController) ConfirmBooking(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondErrorMissingToken(c)
		return
	}

	result, err := ctrl.IntakeSvc.Confirm(token)
	if err != nil {
		respondIntakeError(c, err)
		return
	}

	respondSubmitResult(c, result)
}

// respondSubmitResult maps a submit outcome onto the HTTP surface. Shared
// with the direct booking endpoint.
func respondSubmitResult(c *gin.Context, result services.SubmitResult) {
	switch result.Status {
	case services.SubmitFullSuccess:
		c.JSON(http.StatusCreated, gin.H{
			"status":  "success",
			"title":   "Booking Confirmed!",
			"message": "Your session has been booked and a confirmation email has been sent.",
			"data":    result.Booking,
		})

	case services.SubmitPartialSuccess:
		// Booking saved, email failed -> still a success for the user.
		c.JSON(http.StatusPartialContent, gin.H{
			"status":  "warning",
			"title":   "Booking Confirmed!",
			"message": "Your session has been booked successfully. There was an issue sending the confirmation email, but your booking is saved.",
			"data":    result.Booking,
		})

	case services.SubmitPersistenceError:
		details := ""
		if result.Err != nil {
			details = result.Err.Error()
		}
		log.Printf("booking submit failed: %s", details)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "error.bookingFailed",
				"title":   "Booking Failed",
				"message": "There was an error processing your booking. Please try again.",
				"details": details,
			},
		})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "error.internal",
				"message": "unknown submission outcome",
			},
		})
	}
}

// ---------------------------
// 6) Cancel session
// ---------------------------

func (ctrl *IntakeController) CancelSession(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondErrorMissingToken(c)
		return
	}

	if err := ctrl.IntakeSvc.CancelSession(token); err != nil {
		respondIntakeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "intake session cancelled"})
}
