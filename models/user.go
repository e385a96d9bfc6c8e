package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the system (customer, contractor or admin)
type User struct {
	ID                string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Auth0ID           string         `gorm:"uniqueIndex;not null" json:"auth0_id"`    // Auth0 user ID (from 'sub' claim)
	Name              string         `gorm:"not null" json:"name"`
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`
	Role              Role           `gorm:"not null;default:'customer'" json:"role"`
	PreferredLanguage *string        `json:"preferred_language"`                      // nullable, falls back to the default language
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.ID = newID(u.ID)
	return nil
}

// Language returns the user's preferred language or fallback when unset
func (u User) Language(fallback string) string {
	if u.PreferredLanguage == nil || *u.PreferredLanguage == "" {
		return fallback
	}
	return *u.PreferredLanguage
}
