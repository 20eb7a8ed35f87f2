package domain

import "testing"

func TestPermissionSetHas(t *testing.T) {
	set := PermissionSet{PermViewSales, PermManageSales}

	if !set.Has(PermViewSales) {
		t.Fatal("Has missed a granted permission")
	}
	if set.Has(PermManageUsers) {
		t.Fatal("Has reported an absent permission")
	}
}

func TestPermissionSetHasAnyAll(t *testing.T) {
	set := PermissionSet{PermViewApplications}

	if !set.HasAny(PermManageUsers, PermViewApplications) {
		t.Fatal("HasAny missed")
	}
	if set.HasAny(PermManageUsers, PermManageSales) {
		t.Fatal("HasAny false positive")
	}
	if !set.HasAll(PermViewApplications) {
		t.Fatal("HasAll missed")
	}
	if set.HasAll(PermViewApplications, PermManageApplications) {
		t.Fatal("HasAll false positive")
	}
}

func TestAllPermissionsAreValid(t *testing.T) {
	all := AllPermissions()
	if len(all) == 0 {
		t.Fatal("empty permission set")
	}
	for _, p := range all {
		if !ValidPermission(p) {
			t.Fatalf("%q not valid", p)
		}
	}
	if ValidPermission("do_anything") {
		t.Fatal("unknown permission accepted")
	}
}

func TestEmptySetHasNothing(t *testing.T) {
	var set PermissionSet
	for _, p := range AllPermissions() {
		if set.Has(p) {
			t.Fatalf("empty set granted %q", p)
		}
	}
}
