package id

import (
	"strings"

	"github.com/google/uuid"
)

// GetCompactUUID generates a new UUID without dashes.
func GetCompactUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
