package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kendall-kelly/renovation-quotes-api/models"
	"gorm.io/gorm"
)

// ProjectStore is the persistence collaborator used by the selection workflow
// and the site visit sweep
type ProjectStore interface {
	FindProject(ctx context.Context, id string) (*models.Project, error)
	FindQuote(ctx context.Context, id string) (*models.ContractorQuote, error)
	FindUser(ctx context.Context, id string) (*models.User, error)
	FindContractor(ctx context.Context, id string) (*models.Contractor, error)

	// CloseBidding selects a contractor only if the project is still open
	// and unselected. It reports false when the guard no longer holds.
	CloseBidding(ctx context.Context, projectID, contractorID, quoteID string, now time.Time) (bool, error)
	SetQuoteStatus(ctx context.Context, quoteID string, status models.QuoteStatus) error
	RejectOtherQuotes(ctx context.Context, projectID, acceptedQuoteID string) (int64, error)

	ListSiteVisitPending(ctx context.Context) ([]models.Project, error)
	CompleteSiteVisits(ctx context.Context, projectIDs []string, now time.Time) (int64, error)
}

// GormProjectStore implements ProjectStore on top of GORM
type GormProjectStore struct {
	db *gorm.DB
}

// NewGormProjectStore creates a store backed by db
func NewGormProjectStore(db *gorm.DB) *GormProjectStore {
	return &GormProjectStore{db: db}
}

func (s *GormProjectStore) FindProject(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "project")
	}
	return &project, nil
}

func (s *GormProjectStore) FindQuote(ctx context.Context, id string) (*models.ContractorQuote, error) {
	var quote models.ContractorQuote
	if err := s.db.WithContext(ctx).First(&quote, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "quote")
	}
	return &quote, nil
}

func (s *GormProjectStore) FindUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (s *GormProjectStore) FindContractor(ctx context.Context, id string) (*models.Contractor, error) {
	var contractor models.Contractor
	if err := s.db.WithContext(ctx).Preload("User").First(&contractor, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "contractor")
	}
	return &contractor, nil
}

func (s *GormProjectStore) CloseBidding(ctx context.Context, projectID, contractorID, quoteID string, now time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? AND status = ? AND selected_contractor_id IS NULL", projectID, models.RequestBidding).
		Updates(map[string]interface{}{
			"status":                 models.RequestBiddingClosed,
			"selected_contractor_id": contractorID,
			"selected_quote_id":      quoteID,
			"updated_at":             now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to close bidding: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (s *GormProjectStore) SetQuoteStatus(ctx context.Context, quoteID string, status models.QuoteStatus) error {
	result := s.db.WithContext(ctx).Model(&models.ContractorQuote{}).
		Where("id = ?", quoteID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update quote status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormProjectStore) RejectOtherQuotes(ctx context.Context, projectID, acceptedQuoteID string) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.ContractorQuote{}).
		Where("project_id = ? AND id <> ?", projectID, acceptedQuoteID).
		Update("status", models.QuoteRejected)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reject other quotes: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GormProjectStore) ListSiteVisitPending(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.RequestSiteVisitPending).
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list site-visit-pending projects: %w", err)
	}
	return projects, nil
}

func (s *GormProjectStore) CompleteSiteVisits(ctx context.Context, projectIDs []string, now time.Time) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}

	var completed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Project{}).
			Where("id IN ? AND status = ?", projectIDs, models.RequestSiteVisitPending).
			Updates(map[string]interface{}{
				"status":     models.RequestSiteVisitCompleted,
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		completed = result.RowsAffected

		// Projects cancelled since the scan keep their applications pending
		visited := tx.Model(&models.Project{}).Select("id").
			Where("id IN ? AND status = ?", projectIDs, models.RequestSiteVisitCompleted)
		return tx.Model(&models.SiteVisitApplication{}).
			Where("project_id IN (?) AND is_cancelled = ? AND status = ?", visited, false, models.SiteVisitPending).
			Update("status", models.SiteVisitCompleted).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to complete site visits: %w", err)
	}
	return completed, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}
