package models

import (
	"time"
)

type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleFinanceAdmin Role = "finance_admin"
	RoleMember       Role = "member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleFinanceAdmin, RoleMember:
		return true
	}
	return false
}

type User struct {
	UID       string    `firestore:"uid" json:"uid"`
	Email     string    `firestore:"email" json:"email"`
	FirstName string    `firestore:"firstName" json:"firstName"`
	LastName  string    `firestore:"lastName" json:"lastName"`
	Role      Role      `firestore:"role" json:"role"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Principal is the authenticated caller of a request. It is built by the auth
// middleware from verified token claims and passed explicitly to services.
type Principal struct {
	UID   string
	Email string
	Role  Role
}

func (p Principal) IsSuperAdmin() bool { return p.Role == RoleSuperAdmin }

// IsFinanceAdmin reports whether p may approve transactions and manage budgets
// and categories.
func (p Principal) IsFinanceAdmin() bool {
	return p.Role == RoleSuperAdmin || p.Role == RoleFinanceAdmin
}

// CanAccess reports whether p may read or modify a record created by owner.
func (p Principal) CanAccess(owner string) bool {
	return p.IsSuperAdmin() || (p.UID != "" && p.UID == owner)
}
