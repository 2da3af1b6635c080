package models

// Role is the organization role assigned to a user.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleContentCreator Role = "content_creator"
	RoleMember         Role = "member"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleContentCreator, RoleMember}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleContentCreator, RoleMember:
		return true
	}
	return false
}

// CanCreateContent reports whether the role may create activities, minutes and documents.
func (r Role) CanCreateContent() bool {
	switch r {
	case RoleAdmin, RoleContentCreator:
		return true
	case RoleMember:
		return false
	}
	return false
}

// CanEditContent reports whether the role may update or delete content.
func (r Role) CanEditContent() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleContentCreator, RoleMember:
		return false
	}
	return false
}

// IsAdmin reports whether the role is admin.
func (r Role) IsAdmin() bool { return r == RoleAdmin }
