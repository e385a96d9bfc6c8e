package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kendall-kelly/renovation-quotes-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectContractor(t *testing.T) {
	f := newFixture(t)

	setup := func(t *testing.T) (models.Project, models.ContractorQuote, models.ContractorQuote) {
		project := f.createProject(t, models.RequestBidding)
		quote := f.createQuote(t, project, f.contractor, 15000000)
		rivalQuote := f.createQuote(t, project, f.rival, 17500000)
		return project, quote, rivalQuote
	}

	t.Run("Owner selects a contractor", func(t *testing.T) {
		f.emails.Clear()
		project, quote, rivalQuote := setup(t)

		w := f.as(f.customer, http.MethodPost, "/api/v1/select-contractor", map[string]string{
			"projectId":    project.ID,
			"contractorId": f.contractor.ID,
			"quoteId":      quote.ID,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		data := decodeData(t, w)
		assert.Equal(t, "bidding-closed", data["projectStatus"])
		assert.Equal(t, true, data["emailSent"])
		assert.Equal(t, true, data["otherQuotesRejected"])

		stored := f.reloadProject(t, project.ID)
		assert.Equal(t, models.RequestBiddingClosed, stored.Status)
		require.NotNil(t, stored.SelectedQuoteID)
		assert.Equal(t, quote.ID, *stored.SelectedQuoteID)

		var rival models.ContractorQuote
		require.NoError(t, f.db.First(&rival, "id = ?", rivalQuote.ID).Error)
		assert.Equal(t, models.QuoteRejected, rival.Status)

		assert.Len(t, f.emails.SentTo("builder@example.com"), 1)
		assert.Len(t, f.emails.SentTo("customer@example.com"), 1)

		// Selecting again is refused
		w = f.as(f.customer, http.MethodPost, "/api/v1/select-contractor", map[string]string{
			"projectId":    project.ID,
			"contractorId": f.rival.ID,
			"quoteId":      rivalQuote.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ALREADY_SELECTED", errorCode(t, w))
	})

	t.Run("Error mapping", func(t *testing.T) {
		project, quote, rivalQuote := setup(t)
		body := map[string]string{"projectId": project.ID, "contractorId": f.contractor.ID, "quoteId": quote.ID}

		w := f.anonymous(http.MethodPost, "/api/v1/select-contractor", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))

		w = f.as(f.customer, http.MethodPost, "/api/v1/select-contractor", map[string]string{"projectId": project.ID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

		w = f.as(f.rivalUser, http.MethodPost, "/api/v1/select-contractor", body)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, w))

		w = f.as(f.customer, http.MethodPost, "/api/v1/select-contractor", map[string]string{
			"projectId": project.ID, "contractorId": f.contractor.ID, "quoteId": rivalQuote.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "QUOTE_MISMATCH", errorCode(t, w))

		w = f.as(f.customer, http.MethodPost, "/api/v1/select-contractor", map[string]string{
			"projectId": "6f1c1a52-8d7e-4c3e-9a51-0e3c7f2b9d10", "contractorId": f.contractor.ID, "quoteId": quote.ID,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "PROJECT_NOT_FOUND", errorCode(t, w))

		assert.Equal(t, models.RequestBidding, f.reloadProject(t, project.ID).Status)
	})

	t.Run("Malformed body is reported after authentication", func(t *testing.T) {
		w := f.anonymousRaw(http.MethodPost, "/api/v1/select-contractor", "{not json")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))

		w = f.asRaw(f.customer, http.MethodPost, "/api/v1/select-contractor", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
	})

	t.Run("Caller without a profile is unauthenticated", func(t *testing.T) {
		project, quote, _ := setup(t)
		ghost := models.User{Auth0ID: "auth0|ghost", Role: models.RoleCustomer}

		w := f.as(ghost, http.MethodPost, "/api/v1/select-contractor", map[string]string{
			"projectId": project.ID, "contractorId": f.contractor.ID, "quoteId": quote.ID,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Email failure still succeeds", func(t *testing.T) {
		project, quote, _ := setup(t)
		f.emails.FailFor["builder@example.com"] = nil
		defer delete(f.emails.FailFor, "builder@example.com")

		w := f.as(f.customer, http.MethodPost, "/api/v1/select-contractor", map[string]string{
			"projectId": project.ID, "contractorId": f.contractor.ID, "quoteId": quote.ID,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		data := decodeData(t, w)
		assert.Equal(t, false, data["emailSent"])
		assert.NotEmpty(t, data["emailError"])
		assert.Equal(t, models.RequestBiddingClosed, f.reloadProject(t, project.ID).Status)
	})
}

// asRaw sends a raw JSON body authenticated as user
func (f *fixture) asRaw(user models.User, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user.Auth0ID)
	req.Header.Set("X-Test-Role", string(user.Role))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) anonymousRaw(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}
