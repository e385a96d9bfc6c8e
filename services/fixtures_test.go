package services

import (
	"testing"

	"github.com/kendall-kelly/renovation-quotes-api/models"
	"github.com/kendall-kelly/renovation-quotes-api/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// marketplace is a project in bidding with two quotes from two contractors
type marketplace struct {
	db              *gorm.DB
	customer        models.User
	contractorUser  models.User
	contractor      models.Contractor
	rivalUser       models.User
	rival           models.Contractor
	project         models.Project
	quote           models.ContractorQuote
	rivalQuote      models.ContractorQuote
	templates       *EmailTemplates
	emails          *MockEmailService
	selectionCaller *Caller
}

func stringPtr(s string) *string {
	return &s
}

func createUser(t *testing.T, db *gorm.DB, auth0ID, name, email string, role models.Role) models.User {
	t.Helper()
	user := models.User{Auth0ID: auth0ID, Name: name, Email: email, Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createContractor(t *testing.T, db *gorm.DB, user models.User, company string) models.Contractor {
	t.Helper()
	contractor := models.Contractor{UserID: user.ID, CompanyName: company, Phone: "010-1234-5678", Status: models.ContractorActive}
	require.NoError(t, db.Create(&contractor).Error)
	return contractor
}

func createProject(t *testing.T, db *gorm.DB, customer models.User, status models.RequestStatus) models.Project {
	t.Helper()
	project := models.Project{
		CustomerID:   customer.ID,
		SpaceType:    models.SpaceApartment,
		ProjectTypes: []models.ProjectType{models.ProjectTypeKitchen, models.ProjectTypeBathroom},
		Budget:       models.Budget10To30M,
		Timeline:     models.TimelineOneMonth,
		Address:      "12 Teheran-ro",
		Status:       status,
	}
	require.NoError(t, db.Create(&project).Error)
	return project
}

func createQuote(t *testing.T, db *gorm.DB, project models.Project, contractor models.Contractor, price string) models.ContractorQuote {
	t.Helper()
	quote := models.ContractorQuote{
		ProjectID:    project.ID,
		ContractorID: contractor.ID,
		Price:        decimal.RequireFromString(price),
		Description:  "Full kitchen refit",
		Status:       models.QuoteSubmitted,
	}
	require.NoError(t, db.Create(&quote).Error)
	return quote
}

func newMarketplace(t *testing.T) *marketplace {
	t.Helper()
	db := testutil.NewTestDB(t)

	m := &marketplace{db: db}
	m.customer = createUser(t, db, "auth0|customer", "Jiwoo Park", "customer@example.com", models.RoleCustomer)
	m.contractorUser = createUser(t, db, "auth0|builder", "Minho Kim", "builder@example.com", models.RoleContractor)
	m.contractor = createContractor(t, db, m.contractorUser, "Seoul Builders")
	m.rivalUser = createUser(t, db, "auth0|rival", "Sora Lee", "rival@example.com", models.RoleContractor)
	m.rival = createContractor(t, db, m.rivalUser, "Han River Remodeling")

	m.project = createProject(t, db, m.customer, models.RequestBidding)
	m.quote = createQuote(t, db, m.project, m.contractor, "15000000")
	m.rivalQuote = createQuote(t, db, m.project, m.rival, "17500000")

	templates, err := LoadEmailTemplates("en")
	require.NoError(t, err)
	m.templates = templates
	m.emails = NewMockEmailService()
	m.selectionCaller = &Caller{UserID: m.customer.ID, Role: models.RoleCustomer}

	return m
}

func (m *marketplace) service(store ProjectStore) *SelectionService {
	if store == nil {
		store = NewGormProjectStore(m.db)
	}
	return NewSelectionService(store, NewNotifier(m.emails, m.templates))
}

func (m *marketplace) request() SelectionRequest {
	return SelectionRequest{
		ProjectID:    m.project.ID,
		ContractorID: m.contractor.ID,
		QuoteID:      m.quote.ID,
	}
}

func (m *marketplace) reload(t *testing.T) (models.Project, models.ContractorQuote, models.ContractorQuote) {
	t.Helper()
	var project models.Project
	require.NoError(t, m.db.First(&project, "id = ?", m.project.ID).Error)
	var quote, rivalQuote models.ContractorQuote
	require.NoError(t, m.db.First(&quote, "id = ?", m.quote.ID).Error)
	require.NoError(t, m.db.First(&rivalQuote, "id = ?", m.rivalQuote.ID).Error)
	return project, quote, rivalQuote
}
