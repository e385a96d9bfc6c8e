package models

import (
	"time"

	"gorm.io/gorm"
)

// SiteVisitApplication records a contractor's request to inspect a project site.
// Cancellation is a soft delete so history is preserved. At most one
// application per project and contractor is not cancelled.
type SiteVisitApplication struct {
	ID           string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID    string          `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_active_site_visit,where:is_cancelled = false" json:"project_id"`
	ContractorID string          `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_active_site_visit,where:is_cancelled = false" json:"contractor_id"`
	Status       SiteVisitStatus `gorm:"not null;default:'pending'" json:"status"`
	IsCancelled  bool            `gorm:"not null;default:false" json:"is_cancelled"`
	CancelledAt  *time.Time      `json:"cancelled_at"`
	CancelledBy  *string         `gorm:"type:varchar(36)" json:"cancelled_by"`
	AppliedAt    time.Time       `json:"applied_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the SiteVisitApplication model
func (SiteVisitApplication) TableName() string {
	return "site_visit_applications"
}

// BeforeCreate assigns a UUID primary key and the application time
func (a *SiteVisitApplication) BeforeCreate(tx *gorm.DB) error {
	a.ID = newID(a.ID)
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now()
	}
	return nil
}

// IsActive reports whether the application has not been cancelled
func (a SiteVisitApplication) IsActive() bool {
	return !a.IsCancelled
}
