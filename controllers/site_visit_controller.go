package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/renovation-quotes-api/config"
	"github.com/kendall-kelly/renovation-quotes-api/models"
	"github.com/kendall-kelly/renovation-quotes-api/services"
	"gorm.io/gorm"
)

var errSiteVisitClosed = errors.New("site visit applications are closed for this project")

// ApplySiteVisit handles POST /api/v1/projects/:id/site-visits - a contractor
// asks to inspect the site. A cancelled application can be followed by a new one.
func ApplySiteVisit(c *gin.Context) {
	_, contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	if !contractor.IsActive() {
		respondError(c, http.StatusForbidden, "CONTRACTOR_INACTIVE", "Inactive contractors cannot apply for site visits")
		return
	}

	project, ok := loadProject(c)
	if !ok {
		return
	}

	var application models.SiteVisitApplication
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		var applications []models.SiteVisitApplication
		if err := tx.Where("project_id = ? AND contractor_id = ?", project.ID, contractor.ID).
			Find(&applications).Error; err != nil {
			return err
		}
		var quotes []models.ContractorQuote
		if err := tx.Where("project_id = ? AND contractor_id = ?", project.ID, contractor.ID).
			Find(&quotes).Error; err != nil {
			return err
		}

		activity := services.ActivityFor(project.ID, contractor.ID, applications, quotes)
		if !services.CanApplySiteVisit(project.Status, activity) {
			return errSiteVisitClosed
		}

		application = models.SiteVisitApplication{
			ProjectID:    project.ID,
			ContractorID: contractor.ID,
			Status:       models.SiteVisitPending,
		}
		return tx.Create(&application).Error
	})
	if errors.Is(err, errSiteVisitClosed) {
		respondError(c, http.StatusBadRequest, "SITE_VISIT_NOT_ALLOWED", "You cannot apply for a site visit on this project")
		return
	}
	if err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusConflict, "SITE_VISIT_EXISTS", "You already have an active site visit application for this project")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create site visit application")
		return
	}

	log.Printf("Contractor %s applied for a site visit on project %s", contractor.ID, project.ID)
	respondSuccess(c, http.StatusCreated, application)
}

// CancelSiteVisit handles DELETE /api/v1/site-visits/:id - soft-cancels the
// caller's own application while the visit has not happened
func CancelSiteVisit(c *gin.Context) {
	user, contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if !models.IsValidID(id) {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Site visit ID must be a valid identifier")
		return
	}

	db := config.GetDB()
	var application models.SiteVisitApplication
	if err := db.First(&application, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "SITE_VISIT_NOT_FOUND", "Site visit application not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load site visit application")
		return
	}

	if application.ContractorID != contractor.ID {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You can only cancel your own applications")
		return
	}

	now := time.Now()
	result := db.Model(&models.SiteVisitApplication{}).
		Where("id = ? AND is_cancelled = ? AND status = ?", application.ID, false, models.SiteVisitPending).
		Updates(map[string]interface{}{
			"is_cancelled": true,
			"cancelled_at": now,
			"cancelled_by": user.ID,
		})
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to cancel site visit application")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusBadRequest, "SITE_VISIT_NOT_CANCELLABLE", "Only pending, active applications can be cancelled")
		return
	}

	if err := db.First(&application, "id = ?", application.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch cancelled application")
		return
	}

	respondSuccess(c, http.StatusOK, application)
}
