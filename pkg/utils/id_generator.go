package utils

import (
	"github.com/google/uuid"
)

// GenerateID generates a new UUID for consent, auth, mapping, audit or
// history IDs supplied blank by the caller.
func GenerateID() string {
	return uuid.New().String()
}

// IsValidUUID checks if a string is a valid UUID
func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
