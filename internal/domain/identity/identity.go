package identity

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleSeller  Role = "SELLER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSeller:
		return true
	}
	return false
}

// Permission is a named capability a role must hold for guarded operations.
type Permission string

const (
	AccessAdminPanel Permission = "ACCESS_ADMIN_PANEL"
	ViewAllSales     Permission = "VIEW_ALL_SALES"
	ViewOwnSales     Permission = "VIEW_OWN_SALES"
	CreateSales      Permission = "CREATE_SALES"
	ApproveSales     Permission = "APPROVE_SALES"
	DeleteUsers      Permission = "DELETE_USERS"
	ManagePerms      Permission = "MANAGE_PERMISSIONS"
	ViewDashboard    Permission = "VIEW_DASHBOARD"
)

// DefaultPermissions is the role matrix applied to a session when no
// per-deployment override is configured.
var DefaultPermissions = map[Role][]Permission{
	RoleAdmin: {
		AccessAdminPanel, ViewAllSales, ViewOwnSales, CreateSales,
		ApproveSales, DeleteUsers, ManagePerms, ViewDashboard,
	},
	RoleManager: {ViewAllSales, ApproveSales, ViewDashboard},
	RoleSeller:  {ViewOwnSales, CreateSales, ViewDashboard},
}

// User is the authenticated session actor handed to the core by the identity
// collaborator. It is not persisted here.
type User struct {
	ID   string
	Name string
	Role Role
}

// Can reports whether the user's role holds p under the default matrix.
func (u User) Can(p Permission) bool {
	for _, held := range DefaultPermissions[u.Role] {
		if held == p {
			return true
		}
	}
	return false
}
