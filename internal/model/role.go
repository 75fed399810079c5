package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of privilege tiers. A user with zero assignments is
// implicitly a patient; RolePatient never appears in the assignments table.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RoleReceptionist Role = "receptionist"
	RoleCashier      Role = "cashier"
	RolePatient      Role = "patient"
)

// StaffRoles lists every role that counts as staff.
var StaffRoles = []Role{RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RoleCashier}

// Valid reports whether the role belongs to the closed enum.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RoleCashier, RolePatient:
		return true
	}
	return false
}

// Staff reports whether the role is assignable staff (patient is implicit,
// never assigned).
func (r Role) Staff() bool {
	return r.Valid() && r != RolePatient
}

type RoleAssignment struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DisplayRole is the view-layer label derived from a user's assignments with
// fixed precedence: admin overrides everything, then nurse, then cashier,
// then the generic staff default, then patient. UI affordances key off this
// label only; it is advisory and never replaces the authorization gate.
type DisplayRole string

const (
	DisplayAdmin   DisplayRole = "admin"
	DisplayNurse   DisplayRole = "nurse"
	DisplayCashier DisplayRole = "cashier"
	DisplayStaff   DisplayRole = "staff"
	DisplayPatient DisplayRole = "patient"
)

// DisplayRoleFor collapses a set of assignments into the single label the UI
// renders, using the fixed precedence above.
func DisplayRoleFor(roles []Role) DisplayRole {
	hasStaff := false
	hasNurse := false
	hasCashier := false
	for _, r := range roles {
		switch r {
		case RoleAdmin:
			return DisplayAdmin
		case RoleNurse:
			hasNurse = true
		case RoleCashier:
			hasCashier = true
		}
		if r.Staff() {
			hasStaff = true
		}
	}
	switch {
	case hasNurse:
		return DisplayNurse
	case hasCashier:
		return DisplayCashier
	case hasStaff:
		return DisplayStaff
	}
	return DisplayPatient
}
