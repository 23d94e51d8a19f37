package utils

import "github.com/google/uuid"

// GenerateUUID returns a time-ordered (v7) UUID string. Auth and catalog
// records both use these as primary keys so rows sort by creation time.
func GenerateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return id.String()
}
