package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VisitDateLayout is the layout of visit_date and visit_dates entries
const VisitDateLayout = "2006-01-02"

// Project represents a customer's quote request
type Project struct {
	ID                   string                           `gorm:"type:varchar(36);primaryKey" json:"id"`
	CustomerID           string                           `gorm:"type:varchar(36);not null;index" json:"customer_id"`
	Customer             User                             `gorm:"foreignKey:CustomerID" json:"-"`
	SpaceType            SpaceType                        `gorm:"not null" json:"space_type"`
	ProjectTypes         datatypes.JSONSlice[ProjectType] `json:"project_types"`
	Budget               Budget                           `gorm:"not null" json:"budget"`
	Timeline             Timeline                         `gorm:"not null" json:"timeline"`
	PostalCode           string                           `json:"postal_code"`
	Address              string                           `gorm:"not null" json:"address"`
	AddressDetail        string                           `json:"address_detail"`
	Description          string                           `gorm:"type:text" json:"description"`
	Status               RequestStatus                    `gorm:"not null;default:'pending';index" json:"status"`
	VisitDate            *string                          `gorm:"type:varchar(10)" json:"visit_date"`                   // nullable, YYYY-MM-DD
	VisitDates           datatypes.JSONSlice[string]      `json:"visit_dates"`                                          // alternative dates, YYYY-MM-DD
	SelectedContractorID *string                          `gorm:"type:varchar(36);index" json:"selected_contractor_id"`
	SelectedQuoteID      *string                          `gorm:"type:varchar(36)" json:"selected_quote_id"`
	CreatedAt            time.Time                        `json:"created_at"`
	UpdatedAt            time.Time                        `json:"updated_at"`
}

// TableName specifies the table name for the Project model
func (Project) TableName() string {
	return "quote_requests"
}

// BeforeCreate assigns a UUID primary key
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	p.ID = newID(p.ID)
	return nil
}

// HasSelection reports whether a contractor has already been selected
func (p Project) HasSelection() bool {
	return p.SelectedContractorID != nil && *p.SelectedContractorID != ""
}

// HasVisitOn reports whether day (YYYY-MM-DD) is the visit date or one of the visit dates
func (p Project) HasVisitOn(day string) bool {
	if p.VisitDate != nil && *p.VisitDate == day {
		return true
	}
	for _, d := range p.VisitDates {
		if d == day {
			return true
		}
	}
	return false
}

// Title is a short human label used in notifications
func (p Project) Title() string {
	if p.Address == "" {
		return string(p.SpaceType)
	}
	return string(p.SpaceType) + " · " + p.Address
}
