package models

import (
	"github.com/google/uuid"
)

// newID returns a fresh identifier when id is empty
func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// IsValidID reports whether id is a well-formed identifier
func IsValidID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
