package controllers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/renovation-quotes-api/config"
	"github.com/kendall-kelly/renovation-quotes-api/models"
	"github.com/kendall-kelly/renovation-quotes-api/services"
	"github.com/kendall-kelly/renovation-quotes-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SubmitQuoteRequest represents a quote sent as JSON or as multipart form fields
type SubmitQuoteRequest struct {
	Price       decimal.Decimal `json:"price" form:"price"`
	Description string          `json:"description" form:"description"`
}

// SubmitQuote handles POST /api/v1/projects/:id/quotes. Multipart requests may
// attach the quote document as the "pdf" file field.
func SubmitQuote(c *gin.Context) {
	_, contractor, ok := currentContractor(c)
	if !ok {
		return
	}

	if !contractor.IsActive() {
		respondError(c, http.StatusForbidden, "CONTRACTOR_INACTIVE", "Inactive contractors cannot submit quotes")
		return
	}

	project, ok := loadProject(c)
	if !ok {
		return
	}

	var req SubmitQuoteRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	price := req.Price
	if !price.IsPositive() {
		respondError(c, http.StatusBadRequest, "INVALID_PRICE", "Price must be a positive amount")
		return
	}

	if project.Status != models.RequestBidding {
		respondError(c, http.StatusBadRequest, "INVALID_PROJECT_STATUS", "Quotes can only be submitted while bidding is open")
		return
	}

	applications, quotes, err := loadContractorRecords(contractor.ID, []string{project.ID})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load contractor activity")
		return
	}

	if len(quotes) > 0 {
		respondError(c, http.StatusConflict, "QUOTE_EXISTS", "You have already submitted a quote for this project")
		return
	}

	if services.IsSiteVisitMissed(*project, applications, contractor.ID) {
		respondError(c, http.StatusForbidden, "SITE_VISIT_MISSED", "Only contractors who attended the site visit can submit a quote")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var pdfKey *string
	if fileHeader, err := c.FormFile("pdf"); err == nil {
		key, ok := uploadQuoteDocument(c, project.ID, contractor.ID, fileHeader)
		if !ok {
			return
		}
		pdfKey = &key
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		respondError(c, http.StatusBadRequest, "INVALID_FILE", "Could not read the uploaded file")
		return
	}

	quote := models.ContractorQuote{
		ProjectID:    project.ID,
		ContractorID: contractor.ID,
		Price:        price,
		Description:  req.Description,
		PDFKey:       pdfKey,
		Status:       models.QuoteSubmitted,
	}

	if err := config.GetDB().Create(&quote).Error; err != nil {
		if pdfKey != nil {
			if delErr := services.GetDocumentService().DeleteDocument(ctx, *pdfKey); delErr != nil {
				log.Printf("warning: failed to remove orphaned quote document %s: %v", *pdfKey, delErr)
			}
		}
		if isUniqueViolation(err) {
			respondError(c, http.StatusConflict, "QUOTE_EXISTS", "You have already submitted a quote for this project")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create quote")
		return
	}

	log.Printf("Contractor %s submitted quote %s on project %s", contractor.ID, quote.ID, project.ID)
	notifyQuoteReceived(c, project, contractor, &quote)

	respondSuccess(c, http.StatusCreated, quote)
}

func uploadQuoteDocument(c *gin.Context, projectID, contractorID string, fileHeader *multipart.FileHeader) (string, bool) {
	documents := services.GetDocumentService()
	if documents == nil {
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Document storage is not configured")
		return "", false
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	key, err := documents.UploadQuotePDF(ctx, projectID, contractorID, fileHeader)
	if err != nil {
		var fileErr *utils.FileUploadError
		if errors.As(err, &fileErr) {
			respondError(c, http.StatusBadRequest, fileErr.Code, fileErr.Message)
			return "", false
		}
		respondError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to upload quote document")
		return "", false
	}

	return key, true
}

// notifyQuoteReceived is best-effort; failures are only logged
func notifyQuoteReceived(c *gin.Context, project *models.Project, contractor *models.Contractor, quote *models.ContractorQuote) {
	notifier := services.DefaultNotifier()
	if notifier == nil {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var customer models.User
	if err := config.GetDB().WithContext(ctx).First(&customer, "id = ?", project.CustomerID).Error; err != nil {
		log.Printf("warning: quote %s created but customer could not be loaded: %v", quote.ID, err)
		return
	}

	data := services.EmailData{
		CustomerName:     customer.Name,
		ContractorName:   contractor.CompanyName,
		ContractorPhone:  contractor.Phone,
		ProjectTitle:     project.Title(),
		Price:            services.FormatPrice(quote.Price),
		QuoteDescription: quote.Description,
	}
	if err := notifier.Notify(ctx, services.TemplateQuoteReceived, customer, data); err != nil {
		log.Printf("warning: quote %s notification failed: %v", quote.ID, err)
	}
}

// GetQuoteAttachment handles GET /api/v1/quotes/:id/attachment - redirects to
// a short-lived download URL for the quote's PDF
func GetQuoteAttachment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if !models.IsValidID(id) {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Quote ID must be a valid identifier")
		return
	}

	db := config.GetDB()
	var quote models.ContractorQuote
	if err := db.Preload("Contractor").First(&quote, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "QUOTE_NOT_FOUND", "Quote not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load quote")
		return
	}

	var project models.Project
	if err := db.First(&project, "id = ?", quote.ProjectID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load project")
		return
	}

	isAuthor := quote.Contractor != nil && quote.Contractor.UserID == user.ID
	if !isAuthor && !canManageProject(user, &project) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this quote")
		return
	}

	if quote.PDFKey == nil {
		respondError(c, http.StatusNotFound, "ATTACHMENT_NOT_FOUND", "This quote has no attachment")
		return
	}

	documents := services.GetDocumentService()
	if documents == nil {
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Document storage is not configured")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	url, err := documents.GetDocumentURL(ctx, *quote.PDFKey)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to generate download link")
		return
	}

	c.Redirect(http.StatusFound, url)
}
