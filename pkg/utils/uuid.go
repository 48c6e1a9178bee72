package utils

import "github.com/google/uuid"

// IsValidUUID reports whether s parses as a UUID. Used to reject malformed
// path params before they reach the database.
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
