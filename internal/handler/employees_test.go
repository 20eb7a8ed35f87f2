package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func requestWithEmployee(method, body string, emp *domain.Employee, user *domain.AdminUser) *http.Request {
	req := httptest.NewRequest(method, "/api/admin/employees/1", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), EmployeeCtxKey, emp)
	ctx = context.WithValue(ctx, UserCtxKey, user)
	return req.WithContext(ctx)
}

func expectEmployeeUpdate(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`UPDATE employees`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at", "version"}).AddRow(time.Now(), int32(2)))
}

func expectActivityBatch(mock sqlmock.Sqlmock, rows int) {
	mock.ExpectBegin()
	for i := 0; i < rows; i++ {
		mock.ExpectQuery(`INSERT INTO activity_logs`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(i+1), time.Now()))
	}
	mock.ExpectCommit()
}

func TestUpdateEmployeeLogsEachChangedField(t *testing.T) {
	h, mock := newTestHandler(t)

	emp := &domain.Employee{
		ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Title: "Engineer", Department: "Engineering",
		Status: domain.EmployeeStatusActive, Version: 1,
	}
	user := &domain.AdminUser{ID: 1, Permissions: domain.PermissionSet{domain.PermManageEmployees}}

	expectEmployeeUpdate(mock)
	// title and department both changed, so two activity rows
	expectActivityBatch(mock, 2)

	rec := httptest.NewRecorder()
	h.UpdateEmployee(rec, requestWithEmployee(http.MethodPatch, `{"title":"Staff Engineer","department":"Platform"}`, emp, user))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateEmployeeStructuredSalary(t *testing.T) {
	h, mock := newTestHandler(t)

	emp := &domain.Employee{
		ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Title: "Engineer", Department: "Engineering",
		Status: domain.EmployeeStatusActive, Version: 1,
	}
	user := &domain.AdminUser{ID: 1}

	expectEmployeeUpdate(mock)
	expectActivityBatch(mock, 1)

	body := `{"salary":{"amountCents":9500000,"currency":"USD","period":"yearly"}}`
	rec := httptest.NewRecorder()
	h.UpdateEmployee(rec, requestWithEmployee(http.MethodPatch, body, emp, user))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got domain.Employee
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Salary == nil || got.Salary.AmountCents != 9500000 {
		t.Fatalf("salary = %+v", got.Salary)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateEmployeeNoOpPatch(t *testing.T) {
	h, mock := newTestHandler(t)

	emp := &domain.Employee{
		ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Title: "Engineer", Department: "Engineering",
		Status: domain.EmployeeStatusActive, Version: 1,
	}
	user := &domain.AdminUser{ID: 1}

	rec := httptest.NewRecorder()
	h.UpdateEmployee(rec, requestWithEmployee(http.MethodPatch, `{"title":"Engineer"}`, emp, user))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// nothing changed, nothing written, nothing logged
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestTerminateEmployee(t *testing.T) {
	h, mock := newTestHandler(t)

	emp := &domain.Employee{
		ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Title: "Engineer", Department: "Engineering",
		Status: domain.EmployeeStatusActive, Version: 1,
	}
	user := &domain.AdminUser{ID: 1}

	expectEmployeeUpdate(mock)
	mock.ExpectQuery(`INSERT INTO activity_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

	rec := httptest.NewRecorder()
	h.TerminateEmployee(rec, requestWithEmployee(http.MethodDelete, "", emp, user))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got domain.Employee
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.EmployeeStatusTerminated || got.TerminatedAt == nil {
		t.Fatalf("employee = %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestTerminateEmployeeAlreadyTerminated(t *testing.T) {
	h, mock := newTestHandler(t)

	now := time.Now()
	emp := &domain.Employee{
		ID: 1, Status: domain.EmployeeStatusTerminated, TerminatedAt: &now,
	}
	user := &domain.AdminUser{ID: 1}

	rec := httptest.NewRecorder()
	h.TerminateEmployee(rec, requestWithEmployee(http.MethodDelete, "", emp, user))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// idempotent, no second write
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
