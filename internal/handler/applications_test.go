package handler

import (
	"context"
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

func requestWithApplication(body string, app *domain.Application) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/applications/1", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), ApplicationCtxKey, app)
	return req.WithContext(ctx)
}

func TestUpdateApplicationStatusSuggestsTemplate(t *testing.T) {
	h, mock := newTestHandler(t)

	app := &domain.Application{
		ID: 1, PublicID: "abc", JobID: 2,
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Status: domain.ApplicationStatusReviewing, Version: 1,
	}

	mock.ExpectQuery(`UPDATE applications`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at", "version"}).AddRow(time.Now(), int32(2)))

	rec := httptest.NewRecorder()
	h.UpdateApplication(rec, requestWithApplication(`{"status":"interviewed"}`, app))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp applicationUpdateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.SuggestedEmailTemplate != "interview_invitation" {
		t.Fatalf("suggested template = %q", resp.SuggestedEmailTemplate)
	}
	if resp.Application.Status != domain.ApplicationStatusInterviewed {
		t.Fatalf("status = %q", resp.Application.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateApplicationUnknownStatus(t *testing.T) {
	h, _ := newTestHandler(t)

	app := &domain.Application{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Status: domain.ApplicationStatusNew}

	rec := httptest.NewRecorder()
	h.UpdateApplication(rec, requestWithApplication(`{"status":"ghosted"}`, app))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

// Re-sending the same status must not re-suggest an email.
func TestUpdateApplicationSameStatusNoSuggestion(t *testing.T) {
	h, mock := newTestHandler(t)

	app := &domain.Application{
		ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Status: domain.ApplicationStatusInterviewed, Version: 1,
	}

	rec := httptest.NewRecorder()
	h.UpdateApplication(rec, requestWithApplication(`{"status":"interviewed"}`, app))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp applicationUpdateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.SuggestedEmailTemplate != "" {
		t.Fatalf("unexpected suggestion %q", resp.SuggestedEmailTemplate)
	}
	// identical status is a no-op, so no write
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateApplicationVersionConflict(t *testing.T) {
	h, mock := newTestHandler(t)

	app := &domain.Application{
		ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Status: domain.ApplicationStatusNew, Version: 1,
	}

	mock.ExpectQuery(`UPDATE applications`).
		WillReturnError(sql.ErrNoRows)

	rec := httptest.NewRecorder()
	h.UpdateApplication(rec, requestWithApplication(`{"firstName":"Adeline"}`, app))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestConvertApplicationRequiresHired(t *testing.T) {
	h, _ := newTestHandler(t)

	app := &domain.Application{ID: 1, Status: domain.ApplicationStatusOffered}
	user := &domain.AdminUser{ID: 1}

	req := requestWithApplication(`{"title":"Engineer","department":"Engineering","startDate":"2026-10-01"}`, app)
	req = req.WithContext(context.WithValue(req.Context(), UserCtxKey, user))

	rec := httptest.NewRecorder()
	h.ConvertApplication(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
