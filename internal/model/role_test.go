package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RoleCashier, RolePatient} {
		assert.True(t, r.Valid(), "role %s should be valid", r)
	}
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestRoleStaff(t *testing.T) {
	assert.True(t, RoleAdmin.Staff())
	assert.True(t, RoleReceptionist.Staff())
	assert.False(t, RolePatient.Staff())
	assert.False(t, Role("superuser").Staff())
}

func TestDisplayRoleFor(t *testing.T) {
	tests := []struct {
		name  string
		roles []Role
		want  DisplayRole
	}{
		{"no assignments is patient", nil, DisplayPatient},
		{"admin wins over everything", []Role{RoleNurse, RoleCashier, RoleAdmin}, DisplayAdmin},
		{"nurse beats cashier", []Role{RoleCashier, RoleNurse}, DisplayNurse},
		{"cashier beats generic staff", []Role{RoleReceptionist, RoleCashier}, DisplayCashier},
		{"doctor falls back to staff", []Role{RoleDoctor}, DisplayStaff},
		{"receptionist falls back to staff", []Role{RoleReceptionist}, DisplayStaff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayRoleFor(tt.roles))
		})
	}
}
