package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/kendall-kelly/renovation-quotes-api/models"
)

// Caller is the already-resolved identity of whoever invokes a workflow
type Caller struct {
	UserID string
	Role   models.Role
}

// SelectionRequest names the quote a customer accepts
type SelectionRequest struct {
	ProjectID    string `json:"projectId"`
	ContractorID string `json:"contractorId"`
	QuoteID      string `json:"quoteId"`
}

// SelectionResult reports a completed selection. Selection itself succeeded
// whenever a result is returned; the other fields describe best-effort steps.
type SelectionResult struct {
	ProjectStatus       models.RequestStatus `json:"projectStatus"`
	EmailSent           bool                 `json:"emailSent"`
	EmailError          *string              `json:"emailError"`
	OtherQuotesRejected bool                 `json:"otherQuotesRejected"`
	Warnings            []string             `json:"warnings"`
}

// selectionStep is one write of the workflow. Essential steps abort the
// workflow on failure; best-effort steps are logged and recorded as warnings.
type selectionStep struct {
	name      string
	essential bool
	run       func(ctx context.Context) error
}

// SelectionService closes bidding on a project in favour of one quote
type SelectionService struct {
	store    ProjectStore
	notifier *Notifier
	now      func() time.Time
}

// NewSelectionService creates the selection workflow
func NewSelectionService(store ProjectStore, notifier *Notifier) *SelectionService {
	return &SelectionService{store: store, notifier: notifier, now: time.Now}
}

// SelectContractor validates every precondition, then runs the steps in order:
// close bidding, accept the quote, reject the other quotes, notify both parties.
func (s *SelectionService) SelectContractor(ctx context.Context, caller *Caller, req SelectionRequest) (*SelectionResult, error) {
	project, quote, err := s.checkPreconditions(ctx, caller, req)
	if err != nil {
		return nil, err
	}

	result := &SelectionResult{ProjectStatus: models.RequestBiddingClosed, Warnings: []string{}}

	steps := []selectionStep{
		{
			name:      "close-bidding",
			essential: true,
			run: func(ctx context.Context) error {
				closed, err := s.store.CloseBidding(ctx, project.ID, quote.ContractorID, quote.ID, s.now())
				if err != nil {
					return err
				}
				if !closed {
					return newWorkflowError(KindPrecondition, "ALREADY_SELECTED", "A contractor has already been selected for this project", nil)
				}
				return nil
			},
		},
		{
			name:      "accept-quote",
			essential: true,
			run: func(ctx context.Context) error {
				return s.store.SetQuoteStatus(ctx, quote.ID, models.QuoteAccepted)
			},
		},
		{
			name:      "reject-other-quotes",
			essential: false,
			run: func(ctx context.Context) error {
				if _, err := s.store.RejectOtherQuotes(ctx, project.ID, quote.ID); err != nil {
					return err
				}
				result.OtherQuotesRejected = true
				return nil
			},
		},
		{
			name:      "notify",
			essential: false,
			run: func(ctx context.Context) error {
				if err := s.notifySelection(ctx, project, quote); err != nil {
					msg := err.Error()
					result.EmailError = &msg
					return err
				}
				result.EmailSent = true
				return nil
			},
		},
	}

	for _, step := range steps {
		err := step.run(ctx)
		if err == nil {
			continue
		}

		if step.essential {
			log.Printf("Selection for project %s failed at step %s: %v", project.ID, step.name, err)
			var workflowErr *WorkflowError
			if errors.As(err, &workflowErr) {
				return nil, workflowErr
			}
			return nil, newWorkflowError(KindPersistence, "PERSISTENCE_ERROR", "Failed to select contractor", err)
		}

		log.Printf("warning: selection for project %s: best-effort step %s failed: %v", project.ID, step.name, err)
		result.Warnings = append(result.Warnings, step.name+": "+err.Error())
	}

	return result, nil
}

func (s *SelectionService) checkPreconditions(ctx context.Context, caller *Caller, req SelectionRequest) (*models.Project, *models.ContractorQuote, error) {
	if caller == nil || caller.UserID == "" {
		return nil, nil, newWorkflowError(KindUnauthenticated, "UNAUTHORIZED", "Authentication is required", nil)
	}

	req.ProjectID = strings.TrimSpace(req.ProjectID)
	req.ContractorID = strings.TrimSpace(req.ContractorID)
	req.QuoteID = strings.TrimSpace(req.QuoteID)
	if !models.IsValidID(req.ProjectID) || !models.IsValidID(req.ContractorID) || !models.IsValidID(req.QuoteID) {
		return nil, nil, newWorkflowError(KindValidation, "VALIDATION_ERROR", "projectId, contractorId and quoteId must be valid identifiers", nil)
	}

	project, err := s.store.FindProject(ctx, req.ProjectID)
	if err != nil {
		return nil, nil, lookupError(err, "PROJECT_NOT_FOUND", "Project not found")
	}

	if project.CustomerID != caller.UserID {
		return nil, nil, newWorkflowError(KindForbidden, "FORBIDDEN", "Only the project owner can select a contractor", nil)
	}

	if project.HasSelection() {
		return nil, nil, newWorkflowError(KindPrecondition, "ALREADY_SELECTED", "A contractor has already been selected for this project", nil)
	}

	if project.Status != models.RequestBidding {
		return nil, nil, newWorkflowError(KindPrecondition, "INVALID_PROJECT_STATUS", "Contractors can only be selected while bidding is open", nil)
	}

	quote, err := s.store.FindQuote(ctx, req.QuoteID)
	if err != nil {
		return nil, nil, lookupError(err, "QUOTE_NOT_FOUND", "Quote not found")
	}

	if quote.ProjectID != project.ID || quote.ContractorID != req.ContractorID {
		return nil, nil, newWorkflowError(KindPrecondition, "QUOTE_MISMATCH", "Quote does not belong to this project and contractor", nil)
	}

	return project, quote, nil
}

// notifySelection emails the contractor and the customer. Both are attempted
// even if the first fails.
func (s *SelectionService) notifySelection(ctx context.Context, project *models.Project, quote *models.ContractorQuote) error {
	if s.notifier == nil {
		return errors.New("notifications are not configured")
	}

	customer, err := s.store.FindUser(ctx, project.CustomerID)
	if err != nil {
		return err
	}
	contractor, err := s.store.FindContractor(ctx, quote.ContractorID)
	if err != nil {
		return err
	}

	data := EmailData{
		CustomerName:     customer.Name,
		ContractorName:   contractor.CompanyName,
		ContractorPhone:  contractor.Phone,
		ProjectTitle:     project.Title(),
		Price:            FormatPrice(quote.Price),
		QuoteDescription: quote.Description,
	}

	contractorErr := s.notifier.Notify(ctx, TemplateContractorSelected, contractor.User, data)
	customerErr := s.notifier.Notify(ctx, TemplateCustomerSelectionConfirmed, *customer, data)
	return errors.Join(contractorErr, customerErr)
}

func lookupError(err error, code, message string) *WorkflowError {
	if errors.Is(err, ErrNotFound) {
		return newWorkflowError(KindNotFound, code, message, err)
	}
	return newWorkflowError(KindPersistence, "PERSISTENCE_ERROR", "Failed to load selection data", err)
}
