package form

import "github.com/billing/console/internal/domain/refdata"

// Role represents an actor role name
type Role string

const (
	RoleSystemAdmin Role = "SYSTEM_ADMIN"
	RoleOrgAdmin    Role = "ORG_ADMIN"
	RoleOperator    Role = "OPERATOR"
)

// ActorContext identifies who is filling a form and which organization
// scope they act in. It is passed explicitly at session construction;
// forms never read ambient session storage.
type ActorContext struct {
	UserID         refdata.Identifier
	Roles          []Role
	OrganizationID *refdata.Identifier
	CompanyID      *refdata.Identifier
}

// IsSystemAdmin reports whether the actor carries the system admin role
func (a ActorContext) IsSystemAdmin() bool {
	for _, r := range a.Roles {
		if r == RoleSystemAdmin {
			return true
		}
	}
	return false
}

// HasRole reports whether the actor carries the given role
func (a ActorContext) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
