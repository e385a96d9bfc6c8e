package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/renovation-quotes-api/config"
	"github.com/kendall-kelly/renovation-quotes-api/middleware"
	"github.com/kendall-kelly/renovation-quotes-api/models"
	"github.com/kendall-kelly/renovation-quotes-api/services"
	"gorm.io/gorm"
)

const defaultRequestTimeout = 15 * time.Second

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// respondWorkflowError writes a service error using its kind and code
func respondWorkflowError(c *gin.Context, err error) {
	var workflowErr *services.WorkflowError
	if errors.As(err, &workflowErr) {
		respondError(c, workflowErr.Kind.HTTPStatus(), workflowErr.Code, workflowErr.Message)
		return
	}
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
}

// requestContext bounds collaborator calls made while serving c
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := defaultRequestTimeout
	if cfg := config.GetConfig(); cfg != nil && cfg.RequestTimeout > 0 {
		timeout = cfg.RequestTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// currentUser loads the profile of the authenticated caller. On failure the
// response has already been written.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return nil, false
	}

	var user models.User
	if err := config.GetDB().Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User profile not found. Please create a profile first.")
			return nil, false
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load user profile")
		return nil, false
	}

	return &user, true
}

// currentContractor loads the contractor profile of the authenticated caller
func currentContractor(c *gin.Context) (*models.User, *models.Contractor, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, nil, false
	}

	if user.Role != models.RoleContractor {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only contractors can perform this action")
		return nil, nil, false
	}

	var contractor models.Contractor
	if err := config.GetDB().Where("user_id = ?", user.ID).First(&contractor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "CONTRACTOR_NOT_FOUND", "Contractor profile not found. Please register first.")
			return nil, nil, false
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load contractor profile")
		return nil, nil, false
	}

	return user, &contractor, true
}

// loadProject finds the project named by the :id path parameter
func loadProject(c *gin.Context) (*models.Project, bool) {
	id := c.Param("id")
	if !models.IsValidID(id) {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Project ID must be a valid identifier")
		return nil, false
	}

	var project models.Project
	if err := config.GetDB().First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found")
			return nil, false
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load project")
		return nil, false
	}

	return &project, true
}

// isUniqueViolation works with both PostgreSQL and SQLite error messages
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique")
}

// transitionProject moves project to next through the lifecycle table and
// a conditional update on the current status. Completion also needs a
// selected contractor.
func transitionProject(db *gorm.DB, project *models.Project, next models.RequestStatus, extra map[string]interface{}) (bool, error) {
	if !project.Status.CanTransitionTo(next) {
		return false, nil
	}
	if next == models.RequestCompleted && !project.HasSelection() {
		return false, nil
	}

	updates := map[string]interface{}{
		"status":     next,
		"updated_at": time.Now(),
	}
	for k, v := range extra {
		updates[k] = v
	}

	result := db.Model(&models.Project{}).
		Where("id = ? AND status = ?", project.ID, project.Status).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	return true, db.First(project, "id = ?", project.ID).Error
}
