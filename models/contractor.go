package models

import (
	"time"

	"gorm.io/gorm"
)

// Contractor is the business profile attached to a contractor account
type Contractor struct {
	ID          string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      string           `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	User        User             `gorm:"foreignKey:UserID" json:"-"`
	CompanyName string           `gorm:"not null" json:"company_name"`
	Phone       string           `json:"phone"`
	Description string           `gorm:"type:text" json:"description"`
	Status      ContractorStatus `gorm:"not null;default:'active'" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// TableName specifies the table name for the Contractor model
func (Contractor) TableName() string {
	return "contractors"
}

// BeforeCreate assigns a UUID primary key
func (c *Contractor) BeforeCreate(tx *gorm.DB) error {
	c.ID = newID(c.ID)
	return nil
}

// IsActive reports whether the contractor may apply and bid
func (c Contractor) IsActive() bool {
	return c.Status == ContractorActive
}
