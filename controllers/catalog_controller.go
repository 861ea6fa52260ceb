package controllers

import (
	"log"
	"net/http"

	"mindcare-backend/services"
	"mindcare-backend/utils"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogSvc *services.CatalogService
}

func NewCatalogController(svc *services.CatalogService) *CatalogController {
	return &CatalogController{CatalogSvc: svc}
}

// GetCounselors returns the full counselor catalog, availability flags
// included, so clients can render unavailable entries as disabled.
func (ctrl *CatalogController) GetCounselors(c *gin.Context) {
	counselors, err := ctrl.CatalogSvc.ListCounselors()
	if err != nil {
		log.Printf("GetCounselors error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "unable to retrieve counselors")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, counselors)
}

func (ctrl *CatalogController) GetTimeSlots(c *gin.Context) {
	slots, err := ctrl.CatalogSvc.ListTimeSlots()
	if err != nil {
		log.Printf("GetTimeSlots error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "unable to retrieve time slots")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, slots)
}
