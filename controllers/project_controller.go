package controllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/renovation-quotes-api/config"
	"github.com/kendall-kelly/renovation-quotes-api/models"
	"github.com/kendall-kelly/renovation-quotes-api/services"
	"gorm.io/datatypes"
)

// contractorVisibleStatuses are the raw statuses a contractor can browse without prior involvement
var contractorVisibleStatuses = []models.RequestStatus{
	models.RequestApproved,
	models.RequestSiteVisitPending,
	models.RequestSiteVisitCompleted,
	models.RequestBidding,
}

// ProjectRequest represents the request body for creating or editing a project
type ProjectRequest struct {
	SpaceType     models.SpaceType     `json:"space_type" binding:"required"`
	ProjectTypes  []models.ProjectType `json:"project_types" binding:"required,min=1"`
	Budget        models.Budget        `json:"budget" binding:"required"`
	Timeline      models.Timeline      `json:"timeline" binding:"required"`
	PostalCode    string               `json:"postal_code"`
	Address       string               `json:"address" binding:"required"`
	AddressDetail string               `json:"address_detail"`
	Description   string               `json:"description"`
}

func (r ProjectRequest) validate() error {
	if !r.SpaceType.Valid() {
		return fmt.Errorf("unknown space_type %q", r.SpaceType)
	}
	seen := make(map[models.ProjectType]bool, len(r.ProjectTypes))
	for _, t := range r.ProjectTypes {
		if !t.Valid() {
			return fmt.Errorf("unknown project type %q", t)
		}
		if seen[t] {
			return fmt.Errorf("duplicate project type %q", t)
		}
		seen[t] = true
	}
	if !r.Budget.Valid() {
		return fmt.Errorf("unknown budget %q", r.Budget)
	}
	if !r.Timeline.Valid() {
		return fmt.Errorf("unknown timeline %q", r.Timeline)
	}
	return nil
}

func (r ProjectRequest) apply(project *models.Project) {
	project.SpaceType = r.SpaceType
	project.ProjectTypes = datatypes.JSONSlice[models.ProjectType](r.ProjectTypes)
	project.Budget = r.Budget
	project.Timeline = r.Timeline
	project.PostalCode = r.PostalCode
	project.Address = r.Address
	project.AddressDetail = r.AddressDetail
	project.Description = r.Description
}

func canManageProject(user *models.User, project *models.Project) bool {
	return user.Role == models.RoleAdmin || project.CustomerID == user.ID
}

func bindProjectRequest(c *gin.Context) (*ProjectRequest, bool) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return nil, false
	}
	if err := req.validate(); err != nil {
		respondValidationError(c, err)
		return nil, false
	}
	return &req, true
}

// CreateProject handles POST /api/v1/projects - creates a quote request (customers only)
func CreateProject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.Role != models.RoleCustomer {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only customers can create projects")
		return
	}

	req, ok := bindProjectRequest(c)
	if !ok {
		return
	}

	project := models.Project{
		CustomerID: user.ID,
		Status:     models.RequestPending,
	}
	req.apply(&project)

	if err := config.GetDB().Create(&project).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create project")
		return
	}

	respondSuccess(c, http.StatusCreated, project)
}

// ListMyProjects handles GET /api/v1/projects - lists the caller's projects, newest first
func ListMyProjects(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	query := config.GetDB().Where("customer_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		parsed, valid := models.ParseRequestStatus(status)
		if !valid {
			respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown project status")
			return
		}
		query = query.Where("status = ?", parsed)
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list projects")
		return
	}

	respondSuccess(c, http.StatusOK, projects)
}

// GetProject handles GET /api/v1/projects/:id. Owners and admins get the raw
// project; contractors get their own derived view of it.
func GetProject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	project, ok := loadProject(c)
	if !ok {
		return
	}

	if canManageProject(user, project) {
		respondSuccess(c, http.StatusOK, project)
		return
	}

	if user.Role != models.RoleContractor {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this project")
		return
	}

	_, contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	applications, quotes, err := loadContractorRecords(contractor.ID, []string{project.ID})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load contractor activity")
		return
	}

	activity := services.ActivityFor(project.ID, contractor.ID, applications, quotes)
	if !isContractorVisible(project.Status) && activity.SiteVisit == nil && activity.Quote == nil {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this project")
		return
	}

	respondSuccess(c, http.StatusOK, services.BuildContractorView(*project, contractor.ID, applications, quotes))
}

// UpdateProject handles PUT /api/v1/projects/:id - edits a project while it is pending
func UpdateProject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	project, ok := loadProject(c)
	if !ok {
		return
	}

	if project.CustomerID != user.ID {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only the project owner can edit this project")
		return
	}

	if project.Status != models.RequestPending {
		respondError(c, http.StatusBadRequest, "INVALID_PROJECT_STATUS", "Projects can only be edited while pending")
		return
	}

	req, ok := bindProjectRequest(c)
	if !ok {
		return
	}

	req.apply(project)
	db := config.GetDB()
	result := db.Model(&models.Project{}).
		Where("id = ? AND status = ?", project.ID, models.RequestPending).
		Updates(map[string]interface{}{
			"space_type":     project.SpaceType,
			"project_types":  project.ProjectTypes,
			"budget":         project.Budget,
			"timeline":       project.Timeline,
			"postal_code":    project.PostalCode,
			"address":        project.Address,
			"address_detail": project.AddressDetail,
			"description":    project.Description,
		})
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update project")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_PROJECT_STATUS", "Projects can only be edited while pending")
		return
	}

	if err := db.First(project, "id = ?", project.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch updated project")
		return
	}

	respondSuccess(c, http.StatusOK, project)
}

// CancelProject handles POST /api/v1/projects/:id/cancel
func CancelProject(c *gin.Context) {
	changeProjectStatus(c, models.RequestCancelled, "This project can no longer be cancelled")
}

// CompleteProject handles POST /api/v1/projects/:id/complete
func CompleteProject(c *gin.Context) {
	changeProjectStatus(c, models.RequestCompleted, "Only projects with a selected contractor can be completed")
}

func changeProjectStatus(c *gin.Context, next models.RequestStatus, invalidMessage string) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	project, ok := loadProject(c)
	if !ok {
		return
	}

	if !canManageProject(user, project) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only the project owner can change this project")
		return
	}

	changed, err := transitionProject(config.GetDB(), project, next, nil)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update project status")
		return
	}
	if !changed {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS_TRANSITION", invalidMessage)
		return
	}

	log.Printf("Project %s moved to %s by user %s", project.ID, next, user.ID)
	respondSuccess(c, http.StatusOK, project)
}

// ListProjectQuotes handles GET /api/v1/projects/:id/quotes (owner or admin)
func ListProjectQuotes(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	project, ok := loadProject(c)
	if !ok {
		return
	}

	if !canManageProject(user, project) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only the project owner can view quotes")
		return
	}

	var quotes []models.ContractorQuote
	if err := config.GetDB().Preload("Contractor").
		Where("project_id = ?", project.ID).
		Order("created_at ASC").
		Find(&quotes).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list quotes")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if documents := services.GetDocumentService(); documents != nil {
		for i := range quotes {
			if quotes[i].PDFKey == nil {
				continue
			}
			url, err := documents.GetDocumentURL(ctx, *quotes[i].PDFKey)
			if err != nil {
				log.Printf("warning: failed to presign quote %s attachment: %v", quotes[i].ID, err)
				continue
			}
			quotes[i].PDFURL = &url
		}
	}

	respondSuccess(c, http.StatusOK, quotes)
}

// ListProjectSiteVisits handles GET /api/v1/projects/:id/site-visits (owner or admin)
func ListProjectSiteVisits(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	project, ok := loadProject(c)
	if !ok {
		return
	}

	if !canManageProject(user, project) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only the project owner can view site visits")
		return
	}

	var applications []models.SiteVisitApplication
	if err := config.GetDB().
		Where("project_id = ?", project.ID).
		Order("applied_at ASC").
		Find(&applications).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list site visit applications")
		return
	}

	respondSuccess(c, http.StatusOK, applications)
}

// ListContractorProjects handles GET /api/v1/contractor/projects - open projects
// plus every project the contractor has records on, each with its derived status
func ListContractorProjects(c *gin.Context) {
	_, contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	db := config.GetDB()
	involved := db.Model(&models.SiteVisitApplication{}).Select("project_id").Where("contractor_id = ?", contractor.ID)
	quoted := db.Model(&models.ContractorQuote{}).Select("project_id").Where("contractor_id = ?", contractor.ID)

	var projects []models.Project
	if err := db.Where("status IN ?", contractorVisibleStatuses).
		Or("id IN (?)", involved).
		Or("id IN (?)", quoted).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list projects")
		return
	}

	ids := make([]string, len(projects))
	for i, project := range projects {
		ids[i] = project.ID
	}

	applications, quotes, err := loadContractorRecords(contractor.ID, ids)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load contractor activity")
		return
	}

	views := make([]services.ContractorView, 0, len(projects))
	for _, project := range projects {
		views = append(views, services.BuildContractorView(project, contractor.ID, applications, quotes))
	}

	respondSuccess(c, http.StatusOK, views)
}

func isContractorVisible(status models.RequestStatus) bool {
	for _, visible := range contractorVisibleStatuses {
		if status == visible {
			return true
		}
	}
	return false
}

// loadContractorRecords fetches one contractor's applications and quotes on the given projects
func loadContractorRecords(contractorID string, projectIDs []string) ([]models.SiteVisitApplication, []models.ContractorQuote, error) {
	if len(projectIDs) == 0 {
		return nil, nil, nil
	}

	db := config.GetDB()

	var applications []models.SiteVisitApplication
	if err := db.Where("contractor_id = ? AND project_id IN ?", contractorID, projectIDs).
		Find(&applications).Error; err != nil {
		return nil, nil, err
	}

	var quotes []models.ContractorQuote
	if err := db.Where("contractor_id = ? AND project_id IN ?", contractorID, projectIDs).
		Find(&quotes).Error; err != nil {
		return nil, nil, err
	}

	return applications, quotes, nil
}
