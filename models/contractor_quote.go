package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContractorQuote is a contractor's bid on a project
type ContractorQuote struct {
	ID           string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID    string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_quote_project_contractor" json:"project_id"`
	ContractorID string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_quote_project_contractor;index" json:"contractor_id"`
	Contractor   *Contractor     `gorm:"foreignKey:ContractorID" json:"contractor,omitempty"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Description  string          `gorm:"type:text" json:"description"`
	// S3 key of the attached PDF, nil when none
	PDFKey       *string         `json:"pdf_key"`
	// presigned URL, filled in when listing
	PDFURL       *string         `gorm:"-" json:"pdf_url,omitempty"`
	Status       QuoteStatus     `gorm:"not null;default:'submitted'" json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the ContractorQuote model
func (ContractorQuote) TableName() string {
	return "contractor_quotes"
}

// BeforeCreate assigns a UUID primary key
func (q *ContractorQuote) BeforeCreate(tx *gorm.DB) error {
	q.ID = newID(q.ID)
	return nil
}
