// Package role defines project membership roles and the permissions they
// grant. Both the catalog API and the frontend gate on the same table.
package role

// Role is the closed set of membership roles. Adding a role here forces the
// Capabilities switch below to be revisited.
type Role string

const (
	Owner      Role = "owner"
	Admin      Role = "admin"
	Developer  Role = "developer"
	Maintainer Role = "maintainer"
	Member     Role = "member"
)

func Parse(s string) (Role, bool) {
	switch Role(s) {
	case Owner, Admin, Developer, Maintainer, Member:
		return Role(s), true
	}
	return "", false
}

// Capabilities are the UI- and API-visible permissions derived from a role.
// CanViewSettings and CanDelete coincide today but are kept as separate
// fields: a future role may view settings without being allowed to delete.
type Capabilities struct {
	CanViewSettings bool
	CanDelete       bool
}

func (r Role) Capabilities() Capabilities {
	switch r {
	case Owner:
		return Capabilities{CanViewSettings: true, CanDelete: true}
	case Admin:
		return Capabilities{CanViewSettings: true, CanDelete: true}
	case Developer:
		return Capabilities{}
	case Maintainer:
		return Capabilities{}
	case Member:
		return Capabilities{}
	default:
		// Unknown roles grant nothing.
		return Capabilities{}
	}
}

// For resolves capabilities from an untyped role string, failing closed on
// anything outside the known set.
func For(s string) Capabilities {
	r, ok := Parse(s)
	if !ok {
		return Capabilities{}
	}
	return r.Capabilities()
}
