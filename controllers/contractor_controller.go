package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/renovation-quotes-api/config"
	"github.com/kendall-kelly/renovation-quotes-api/models"
	"gorm.io/gorm"
)

// RegisterContractorRequest represents the request body for registering a contractor profile
type RegisterContractorRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Description string `json:"description"`
}

// RegisterContractor handles POST /api/v1/contractors - creates the caller's contractor profile
func RegisterContractor(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.Role != models.RoleContractor {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only contractor accounts can register a contractor profile")
		return
	}

	var req RegisterContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	contractor := models.Contractor{
		UserID:      user.ID,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Description: req.Description,
		Status:      models.ContractorActive,
	}

	if err := config.GetDB().Create(&contractor).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusConflict, "CONTRACTOR_EXISTS", "A contractor profile already exists for this user")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create contractor profile")
		return
	}

	respondSuccess(c, http.StatusCreated, contractor)
}

// GetMyContractorProfile handles GET /api/v1/contractors/me
func GetMyContractorProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var contractor models.Contractor
	if err := config.GetDB().Where("user_id = ?", user.ID).First(&contractor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "CONTRACTOR_NOT_FOUND", "Contractor profile not found. Please register first.")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load contractor profile")
		return
	}

	respondSuccess(c, http.StatusOK, contractor)
}
