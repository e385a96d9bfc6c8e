package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/renovation-quotes-api/middleware"
	"github.com/kendall-kelly/renovation-quotes-api/models"
	"github.com/kendall-kelly/renovation-quotes-api/services"
	"github.com/kendall-kelly/renovation-quotes-api/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	return testutil.NewTestDB(t)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// setupMockAuth0Server creates a mock HTTP server that simulates Auth0's /userinfo endpoint
func setupMockAuth0Server(userInfoMap map[string]*services.Auth0UserInfo) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if len(authHeader) < 7 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		userInfo, exists := userInfoMap[authHeader[7:]]
		if !exists {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userInfo)
	}))
}

// newTestRouter registers every handler behind HeaderAuthMiddleware, so the
// caller is picked per request with the X-Test-User header
func newTestRouter() *gin.Engine {
	router := setupTestRouter()

	api := router.Group("/api/v1")
	api.POST("/cron/site-visits/complete", CompleteSiteVisits)

	authed := api.Group("", testutil.HeaderAuthMiddleware("manage:projects"))
	{
		authed.POST("/users", CreateUser)
		authed.GET("/users/me", GetMyProfile)
		authed.PUT("/users/me", UpdateMyProfile)

		authed.POST("/contractors", RegisterContractor)
		authed.GET("/contractors/me", GetMyContractorProfile)

		authed.POST("/projects", CreateProject)
		authed.GET("/projects", ListMyProjects)
		authed.GET("/projects/:id", GetProject)
		authed.PUT("/projects/:id", UpdateProject)
		authed.POST("/projects/:id/cancel", CancelProject)
		authed.POST("/projects/:id/complete", CompleteProject)
		authed.GET("/projects/:id/quotes", ListProjectQuotes)
		authed.POST("/projects/:id/quotes", SubmitQuote)
		authed.GET("/projects/:id/site-visits", ListProjectSiteVisits)
		authed.POST("/projects/:id/site-visits", ApplySiteVisit)

		authed.GET("/contractor/projects", ListContractorProjects)
		authed.DELETE("/site-visits/:id", CancelSiteVisit)
		authed.GET("/quotes/:id/attachment", GetQuoteAttachment)

		authed.POST("/select-contractor", SelectContractor)

		admin := authed.Group("/admin", middleware.RequireScope("manage:projects"))
		admin.PUT("/projects/:id/status", UpdateProjectStatus)
	}

	return router
}

func newJSONRequest(method, path string, body interface{}) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// performRequest sends body as JSON (or no body when nil)
func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, newJSONRequest(method, path, body))
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	response := decodeResponse(t, w)
	require.Equal(t, true, response["success"], w.Body.String())
	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "data is not an object: %s", w.Body.String())
	return data
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	response := decodeResponse(t, w)
	require.Equal(t, true, response["success"], w.Body.String())
	data, ok := response["data"].([]interface{})
	require.True(t, ok, "data is not a list: %s", w.Body.String())
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := decodeResponse(t, w)
	require.Equal(t, false, response["success"], w.Body.String())
	errorData, ok := response["error"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	code, _ := errorData["code"].(string)
	return code
}

// fixture is a small marketplace: one customer, two contractors and an admin
type fixture struct {
	db     *gorm.DB
	router *gin.Engine
	emails *services.MockEmailService

	customer       models.User
	admin          models.User
	contractorUser models.User
	rivalUser      models.User
	contractor     models.Contractor
	rival          models.Contractor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{db: setupTestDB(t), router: newTestRouter()}

	templates, err := services.LoadEmailTemplates("en")
	require.NoError(t, err)
	f.emails = services.NewMockEmailService()
	f.emails.SetAsMockForTesting()
	services.SetEmailTemplates(templates)
	t.Cleanup(func() {
		services.SetEmailService(nil)
		services.SetEmailTemplates(nil)
		services.SetDocumentService(nil)
	})

	f.customer = f.createUser(t, "auth0|customer", "Jiwoo Park", "customer@example.com", models.RoleCustomer)
	f.admin = f.createUser(t, "auth0|admin", "Operations", "admin@example.com", models.RoleAdmin)
	f.contractorUser = f.createUser(t, "auth0|builder", "Minho Kim", "builder@example.com", models.RoleContractor)
	f.rivalUser = f.createUser(t, "auth0|rival", "Sora Lee", "rival@example.com", models.RoleContractor)

	f.contractor = models.Contractor{UserID: f.contractorUser.ID, CompanyName: "Seoul Builders", Phone: "010-1234-5678", Status: models.ContractorActive}
	require.NoError(t, f.db.Create(&f.contractor).Error)
	f.rival = models.Contractor{UserID: f.rivalUser.ID, CompanyName: "Han River Remodeling", Phone: "010-9876-5432", Status: models.ContractorActive}
	require.NoError(t, f.db.Create(&f.rival).Error)

	return f
}

func (f *fixture) createUser(t *testing.T, auth0ID, name, email string, role models.Role) models.User {
	t.Helper()
	user := models.User{Auth0ID: auth0ID, Name: name, Email: email, Role: role}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

func (f *fixture) createProject(t *testing.T, status models.RequestStatus) models.Project {
	t.Helper()
	project := models.Project{
		CustomerID:   f.customer.ID,
		SpaceType:    models.SpaceApartment,
		ProjectTypes: datatypes.JSONSlice[models.ProjectType]{models.ProjectTypeKitchen},
		Budget:       models.Budget10To30M,
		Timeline:     models.TimelineOneMonth,
		Address:      "12 Teheran-ro",
		Status:       status,
	}
	require.NoError(t, f.db.Create(&project).Error)
	return project
}

func (f *fixture) createSiteVisit(t *testing.T, project models.Project, contractor models.Contractor) models.SiteVisitApplication {
	t.Helper()
	application := models.SiteVisitApplication{ProjectID: project.ID, ContractorID: contractor.ID, Status: models.SiteVisitPending}
	require.NoError(t, f.db.Create(&application).Error)
	return application
}

func (f *fixture) createQuote(t *testing.T, project models.Project, contractor models.Contractor, price int64) models.ContractorQuote {
	t.Helper()
	quote := models.ContractorQuote{
		ProjectID:    project.ID,
		ContractorID: contractor.ID,
		Price:        decimal.NewFromInt(price),
		Status:       models.QuoteSubmitted,
	}
	require.NoError(t, f.db.Create(&quote).Error)
	return quote
}

func (f *fixture) reloadProject(t *testing.T, id string) models.Project {
	t.Helper()
	var project models.Project
	require.NoError(t, f.db.First(&project, "id = ?", id).Error)
	return project
}

// as sends a JSON request authenticated as user
func (f *fixture) as(user models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	req := newJSONRequest(method, path, body)
	req.Header.Set("X-Test-User", user.Auth0ID)
	req.Header.Set("X-Test-Role", string(user.Role))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// anonymous sends a JSON request without authentication
func (f *fixture) anonymous(method, path string, body interface{}) *httptest.ResponseRecorder {
	return performRequest(f.router, method, path, body)
}
