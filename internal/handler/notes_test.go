package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func noteRouter(h *Handler, user *domain.AdminUser) *chi.Mux {
	mux := chi.NewRouter()
	mux.Patch("/application-notes/{id}", withUser(user, h.UpdateApplicationNote))
	mux.Delete("/application-notes/{id}", withUser(user, h.DeleteApplicationNote))
	return mux
}

func expectNoteLookup(mock sqlmock.Sqlmock, id, applicationID, authorID int64) {
	rows := sqlmock.NewRows([]string{"application_id", "author_id", "body", "created_at", "updated_at"}).
		AddRow(applicationID, authorID, "promising candidate", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT application_id, author_id, body`).
		WithArgs(id).
		WillReturnRows(rows)
}

func TestUpdateApplicationNoteNotAuthor(t *testing.T) {
	h, mock := newTestHandler(t)
	user := &domain.AdminUser{ID: 1, Permissions: domain.PermissionSet{domain.PermManageApplications}}

	expectNoteLookup(mock, 5, 10, 99)

	req := httptest.NewRequest(http.MethodPatch, "/application-notes/5", strings.NewReader(`{"body":"edited"}`))
	rec := httptest.NewRecorder()
	noteRouter(h, user).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateApplicationNoteAsAuthor(t *testing.T) {
	h, mock := newTestHandler(t)
	user := &domain.AdminUser{ID: 1, Permissions: domain.PermissionSet{domain.PermManageApplications}}

	expectNoteLookup(mock, 5, 10, 1)
	mock.ExpectQuery(`UPDATE application_notes`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	req := httptest.NewRequest(http.MethodPatch, "/application-notes/5", strings.NewReader(`{"body":"edited"}`))
	rec := httptest.NewRecorder()
	noteRouter(h, user).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteApplicationNoteNotAuthor(t *testing.T) {
	h, mock := newTestHandler(t)
	user := &domain.AdminUser{ID: 2, Permissions: domain.PermissionSet{domain.PermManageApplications}}

	expectNoteLookup(mock, 7, 10, 1)

	req := httptest.NewRequest(http.MethodDelete, "/application-notes/7", nil)
	rec := httptest.NewRecorder()
	noteRouter(h, user).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateApplicationNoteBadID(t *testing.T) {
	h, _ := newTestHandler(t)
	user := &domain.AdminUser{ID: 1}

	req := httptest.NewRequest(http.MethodPatch, "/application-notes/abc", strings.NewReader(`{"body":"x"}`))
	rec := httptest.NewRecorder()
	noteRouter(h, user).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
