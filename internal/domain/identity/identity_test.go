package identity

import "testing"

func TestCan(t *testing.T) {
	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleSeller, CreateSales, true},
		{RoleSeller, ApproveSales, false},
		{RoleSeller, ViewAllSales, false},
		{RoleManager, ApproveSales, true},
		{RoleManager, CreateSales, false},
		{RoleAdmin, ApproveSales, true},
		{RoleAdmin, AccessAdminPanel, true},
		{Role("GHOST"), ViewDashboard, false},
	}
	for _, tt := range tests {
		u := User{ID: "u1", Name: "n", Role: tt.role}
		if got := u.Can(tt.perm); got != tt.want {
			t.Errorf("%s.Can(%s) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleManager, RoleSeller} {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if Role("x").Valid() {
		t.Error("unknown role should be invalid")
	}
}
