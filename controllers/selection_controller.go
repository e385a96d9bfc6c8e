package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/renovation-quotes-api/config"
	"github.com/kendall-kelly/renovation-quotes-api/middleware"
	"github.com/kendall-kelly/renovation-quotes-api/models"
	"github.com/kendall-kelly/renovation-quotes-api/services"
	"gorm.io/gorm"
)

// SelectContractor handles POST /api/v1/select-contractor - the project owner
// accepts one quote and closes bidding
func SelectContractor(c *gin.Context) {
	// A malformed body leaves the ids empty; the workflow then reports
	// VALIDATION_ERROR after the authentication check
	var req services.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = services.SelectionRequest{}
	}

	caller, ok := resolveCaller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	service := services.NewSelectionService(services.NewGormProjectStore(config.GetDB()), services.DefaultNotifier())
	result, err := service.SelectContractor(ctx, caller, req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, result)
}

// resolveCaller maps the token subject to a Caller. A subject without a
// profile yields a nil Caller so the workflow reports it as unauthenticated.
func resolveCaller(c *gin.Context) (*services.Caller, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		return nil, true
	}

	var user models.User
	if err := config.GetDB().Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, true
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load user profile")
		return nil, false
	}

	return &services.Caller{UserID: user.ID, Role: user.Role}, true
}
