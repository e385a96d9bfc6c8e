package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/renovation-quotes-api/config"
	"github.com/kendall-kelly/renovation-quotes-api/models"
	"github.com/kendall-kelly/renovation-quotes-api/services"
	"gorm.io/datatypes"
)

// UpdateProjectStatusRequest represents an administrator's status change
type UpdateProjectStatusRequest struct {
	Status     string   `json:"status" binding:"required"`
	VisitDate  *string  `json:"visitDate"`
	VisitDates []string `json:"visitDates"`
}

// UpdateProjectStatus handles PUT /api/v1/admin/projects/:id/status
func UpdateProjectStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.Role != models.RoleAdmin {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only administrators can change project status")
		return
	}

	project, ok := loadProject(c)
	if !ok {
		return
	}

	var req UpdateProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	next, valid := models.ParseRequestStatus(req.Status)
	if !valid {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown project status")
		return
	}

	// Closing bidding belongs to the selection workflow, which records the winner
	if next == models.RequestBiddingClosed {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS_TRANSITION", "Bidding closes when the customer selects a contractor")
		return
	}

	extra := make(map[string]interface{})
	if req.VisitDate != nil || len(req.VisitDates) > 0 {
		if req.VisitDate != nil && !isVisitDate(*req.VisitDate) {
			respondError(c, http.StatusBadRequest, "INVALID_VISIT_DATE", "visitDate must be formatted YYYY-MM-DD")
			return
		}
		for _, day := range req.VisitDates {
			if !isVisitDate(day) {
				respondError(c, http.StatusBadRequest, "INVALID_VISIT_DATE", "visitDates must be formatted YYYY-MM-DD")
				return
			}
		}
		extra["visit_date"] = req.VisitDate
		extra["visit_dates"] = datatypes.JSONSlice[string](req.VisitDates)
	}

	if next == models.RequestSiteVisitPending && req.VisitDate == nil && len(req.VisitDates) == 0 &&
		project.VisitDate == nil && len(project.VisitDates) == 0 {
		respondError(c, http.StatusBadRequest, "VISIT_DATE_REQUIRED", "At least one visit date is required for site visits")
		return
	}

	changed, err := transitionProject(config.GetDB(), project, next, extra)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update project status")
		return
	}
	if !changed {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS_TRANSITION", "The project cannot move to "+string(next)+" from its current status")
		return
	}

	log.Printf("Admin %s moved project %s to %s", user.ID, project.ID, next)

	if next == models.RequestApproved {
		notifyProjectApproved(c, project)
	}

	respondSuccess(c, http.StatusOK, project)
}

// notifyProjectApproved is best-effort; failures are only logged
func notifyProjectApproved(c *gin.Context, project *models.Project) {
	notifier := services.DefaultNotifier()
	if notifier == nil {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var customer models.User
	if err := config.GetDB().WithContext(ctx).First(&customer, "id = ?", project.CustomerID).Error; err != nil {
		log.Printf("warning: project %s approved but customer could not be loaded: %v", project.ID, err)
		return
	}

	data := services.EmailData{CustomerName: customer.Name, ProjectTitle: project.Title()}
	if err := notifier.Notify(ctx, services.TemplateProjectApproved, customer, data); err != nil {
		log.Printf("warning: project %s approval email failed: %v", project.ID, err)
	}
}

func isVisitDate(value string) bool {
	_, err := time.Parse(models.VisitDateLayout, value)
	return err == nil
}
