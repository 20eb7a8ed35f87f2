package domain

import "slices"

type Permission string

const (
	PermViewDashboard      Permission = "view_dashboard"
	PermManageJobs         Permission = "manage_jobs"
	PermViewApplications   Permission = "view_applications"
	PermManageApplications Permission = "manage_applications"
	PermViewEmployees      Permission = "view_employees"
	PermManageEmployees    Permission = "manage_employees"
	PermViewSales          Permission = "view_sales"
	PermManageSales        Permission = "manage_sales"
	PermManageUsers        Permission = "manage_users"
	PermSendEmails         Permission = "send_emails"
	PermViewAnalytics      Permission = "view_analytics"
)

// PermissionSet is the flat capability list attached to an admin user.
// An empty set means the account is pending manual grant.
type PermissionSet []Permission

func (s PermissionSet) Has(p Permission) bool {
	return slices.Contains(s, p)
}

func (s PermissionSet) HasAny(ps ...Permission) bool {
	for _, p := range ps {
		if s.Has(p) {
			return true
		}
	}
	return false
}

func (s PermissionSet) HasAll(ps ...Permission) bool {
	for _, p := range ps {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// AllPermissions returns every capability, granted to the bootstrap admin.
func AllPermissions() PermissionSet {
	return PermissionSet{
		PermViewDashboard,
		PermManageJobs,
		PermViewApplications,
		PermManageApplications,
		PermViewEmployees,
		PermManageEmployees,
		PermViewSales,
		PermManageSales,
		PermManageUsers,
		PermSendEmails,
		PermViewAnalytics,
	}
}

// ValidPermission reports whether p is a known capability.
func ValidPermission(p Permission) bool {
	return AllPermissions().Has(p)
}
