package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func TestSendEmailRequiresExactlyOneTarget(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, body := range []string{
		`{"subject":"hi","body":"there"}`,
		`{"applicationId":1,"leadId":2,"subject":"hi","body":"there"}`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/admin/emails/send", strings.NewReader(body))
		h.SendEmail(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d", body, rec.Code)
		}
	}
}

func TestSendEmailRequiresContent(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/emails/send", strings.NewReader(`{"applicationId":1}`))
	h.SendEmail(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestIngestReceivedEmailUnmatchedSender(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT id, public_id, job_id`).
		WithArgs("stranger@example.net").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO received_emails`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

	body := `{"from":"stranger@example.net","subject":"question","body":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/emails/inbound", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.IngestReceivedEmail(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got domain.ReceivedEmail
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ApplicationID != nil {
		t.Fatal("unmatched sender should not link to an application")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestIngestReceivedEmailMatchesApplication(t *testing.T) {
	h, mock := newTestHandler(t)

	appRows := sqlmock.NewRows([]string{
		"id", "public_id", "job_id", "first_name", "last_name", "phone",
		"linkedin_url", "cover_letter", "resume_path", "status", "created_at", "updated_at", "version",
	}).AddRow(int64(42), "abc", int64(1), "Ada", "Lovelace", "", "", "", nil, "interviewed", time.Now(), time.Now(), int32(1))

	mock.ExpectQuery(`SELECT id, public_id, job_id`).
		WithArgs("ada@example.com").
		WillReturnRows(appRows)
	mock.ExpectQuery(`INSERT INTO received_emails`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(2), time.Now()))

	body := `{"from":"Ada@Example.com","subject":"re: interview","body":"sounds good"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/emails/inbound", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.IngestReceivedEmail(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got domain.ReceivedEmail
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ApplicationID == nil || *got.ApplicationID != 42 {
		t.Fatalf("applicationId = %v", got.ApplicationID)
	}
	if got.FromAddress != "ada@example.com" {
		t.Fatalf("sender not normalized: %q", got.FromAddress)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteUserCannotDeleteSelf(t *testing.T) {
	h, _ := newTestHandler(t)

	user := &domain.AdminUser{ID: 7, Permissions: domain.PermissionSet{domain.PermManageUsers}}

	mux := newTestUserRouter(h, user)
	req := httptest.NewRequest(http.MethodDelete, "/users/7", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
