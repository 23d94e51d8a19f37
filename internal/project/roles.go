package project

import "github.com/terraforge-gg/terraforge/internal/role"

// Capabilities is re-exported so handlers and tests in this package read
// naturally.
type Capabilities = role.Capabilities

// CapabilitiesFor resolves the caller's capabilities from a member list.
// An absent or unmatched user fails closed to zero capabilities.
func CapabilitiesFor(members []Member, userID string) Capabilities {
	if userID == "" {
		return Capabilities{}
	}
	for _, m := range members {
		if m.UserID == userID {
			return m.Role.Capabilities()
		}
	}
	return Capabilities{}
}
