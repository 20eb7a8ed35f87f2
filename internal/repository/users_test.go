package repository

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func TestCreateUserWithBootstrapFirstUser(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bootstrap_marker`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	allPerms, _ := json.Marshal(domain.AllPermissions())
	mock.ExpectQuery(`INSERT INTO admin_users`).
		WithArgs("ada@lakesidelabs.com", "ada", allPerms).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "version"}).AddRow(int64(1), time.Now(), int32(1)))
	mock.ExpectCommit()

	user := &domain.AdminUser{Email: "ada@lakesidelabs.com", DisplayName: "ada"}
	bootstrapped, err := repo.CreateUserWithBootstrap(user)
	if err != nil {
		t.Fatal(err)
	}
	if !bootstrapped {
		t.Fatal("first user should claim the bootstrap marker")
	}
	if len(user.Permissions) != len(domain.AllPermissions()) {
		t.Fatalf("first user permissions = %v", user.Permissions)
	}
	expectationsMet(t, mock)
}

func TestCreateUserWithBootstrapLaterUser(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bootstrap_marker`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	noPerms, _ := json.Marshal(domain.PermissionSet{})
	mock.ExpectQuery(`INSERT INTO admin_users`).
		WithArgs("grace@lakesidelabs.com", "grace", noPerms).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "version"}).AddRow(int64(2), time.Now(), int32(1)))
	mock.ExpectCommit()

	user := &domain.AdminUser{Email: "grace@lakesidelabs.com", DisplayName: "grace"}
	bootstrapped, err := repo.CreateUserWithBootstrap(user)
	if err != nil {
		t.Fatal(err)
	}
	if bootstrapped {
		t.Fatal("marker was already claimed")
	}
	if len(user.Permissions) != 0 {
		t.Fatalf("later user permissions = %v", user.Permissions)
	}
	expectationsMet(t, mock)
}

func TestGetUserByEmailDecodesPermissions(t *testing.T) {
	repo, mock := newTestRepository(t)

	perms, _ := json.Marshal(domain.PermissionSet{domain.PermViewSales})
	rows := sqlmock.NewRows([]string{"id", "display_name", "permissions", "last_login_at", "created_at", "version"}).
		AddRow(int64(3), "ada", perms, nil, time.Now(), int32(1))

	mock.ExpectQuery(`SELECT id, display_name, permissions`).
		WithArgs("ada@lakesidelabs.com").
		WillReturnRows(rows)

	user, err := repo.GetUserByEmail("ada@lakesidelabs.com")
	if err != nil {
		t.Fatal(err)
	}
	if !user.Permissions.Has(domain.PermViewSales) {
		t.Fatalf("permissions = %v", user.Permissions)
	}
	if user.LastLoginAt != nil {
		t.Fatal("LastLoginAt should be nil before first login")
	}
	expectationsMet(t, mock)
}

func TestUpdateUserPermissionsVersionConflict(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`UPDATE admin_users`).
		WillReturnError(sql.ErrNoRows)

	user := &domain.AdminUser{ID: 3, Permissions: domain.PermissionSet{}, Version: 1}
	assertErrNoRows(t, repo.UpdateUserPermissions(user))
	expectationsMet(t, mock)
}
