package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func TestCreateLoginCode(t *testing.T) {
	repo, mock := newTestRepository(t)

	code := &domain.LoginCode{
		Email:     "ada@lakesidelabs.com",
		CodeHash:  "$2a$10$hash",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}

	mock.ExpectQuery(`INSERT INTO login_codes`).
		WithArgs(code.Email, code.CodeHash, code.ExpiresAt).
		WillReturnRows(sqlmock.NewRows([]string{"id", "used", "created_at"}).AddRow(int64(7), false, time.Now()))

	if err := repo.CreateLoginCode(code); err != nil {
		t.Fatal(err)
	}
	if code.ID != 7 || code.Used {
		t.Fatalf("code = %+v", code)
	}
	expectationsMet(t, mock)
}

func TestGetActiveLoginCodesOrder(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "code_hash", "used", "expires_at", "created_at"}).
		AddRow(int64(2), "hash-b", false, now.Add(time.Minute), now).
		AddRow(int64(1), "hash-a", false, now.Add(time.Minute), now.Add(-time.Minute))

	mock.ExpectQuery(`SELECT id, code_hash, used, expires_at, created_at\s+FROM login_codes`).
		WithArgs("ada@lakesidelabs.com").
		WillReturnRows(rows)

	codes, err := repo.GetActiveLoginCodes("ada@lakesidelabs.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != 2 || codes[0].ID != 2 {
		t.Fatalf("codes = %+v", codes)
	}
	expectationsMet(t, mock)
}

func TestMarkLoginCodeUsed(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`UPDATE login_codes SET used = TRUE`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	if err := repo.MarkLoginCodeUsed(7); err != nil {
		t.Fatal(err)
	}
	expectationsMet(t, mock)
}

// A code can only be consumed once: the guarded UPDATE matches no rows on
// the second attempt and that surfaces as sql.ErrNoRows.
func TestMarkLoginCodeUsedTwice(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`UPDATE login_codes SET used = TRUE`).
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	assertErrNoRows(t, repo.MarkLoginCodeUsed(7))
	expectationsMet(t, mock)
}
