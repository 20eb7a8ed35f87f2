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

func requestWithLead(body string, lead *domain.SalesLead, user *domain.AdminUser) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/sales-leads/1", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), SalesLeadCtxKey, lead)
	ctx = context.WithValue(ctx, UserCtxKey, user)
	return req.WithContext(ctx)
}

func TestUpdateSalesLeadWonTransition(t *testing.T) {
	h, mock := newTestHandler(t)

	lead := &domain.SalesLead{
		ID: 1, Company: "Contoso", ContactName: "Grace Hopper",
		ContactEmail: "grace@contoso.example", Stage: domain.LeadStageNegotiation,
		EstimatedValueCents: 500000, Version: 1,
	}
	user := &domain.AdminUser{ID: 1, Permissions: domain.PermissionSet{domain.PermManageSales}}

	mock.ExpectQuery(`UPDATE sales_leads`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at", "version"}).AddRow(time.Now(), int32(2)))
	// one activity row per changed field, written in one transaction
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO activity_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
	mock.ExpectCommit()

	rec := httptest.NewRecorder()
	h.UpdateSalesLead(rec, requestWithLead(`{"stage":"won"}`, lead, user))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got domain.SalesLead
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Stage != domain.LeadStageWon || got.WonAt == nil {
		t.Fatalf("lead = %+v", got)
	}
	if got.LostAt != nil || got.LostReason != nil {
		t.Fatal("lost fields set on a won lead")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateSalesLeadUnknownStage(t *testing.T) {
	h, _ := newTestHandler(t)

	lead := &domain.SalesLead{ID: 1, Company: "Contoso", ContactName: "Grace", ContactEmail: "g@contoso.example", Stage: domain.LeadStageNew}
	user := &domain.AdminUser{ID: 1}

	rec := httptest.NewRecorder()
	h.UpdateSalesLead(rec, requestWithLead(`{"stage":"paused"}`, lead, user))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUpdateSalesLeadLostReasonWithoutStage(t *testing.T) {
	h, _ := newTestHandler(t)

	lead := &domain.SalesLead{ID: 1, Company: "Contoso", ContactName: "Grace", ContactEmail: "g@contoso.example", Stage: domain.LeadStageNew}
	user := &domain.AdminUser{ID: 1}

	rec := httptest.NewRecorder()
	h.UpdateSalesLead(rec, requestWithLead(`{"lostReason":"too expensive"}`, lead, user))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUpdateSalesLeadNoOpPatch(t *testing.T) {
	h, mock := newTestHandler(t)

	lead := &domain.SalesLead{ID: 1, Company: "Contoso", ContactName: "Grace", ContactEmail: "g@contoso.example", Stage: domain.LeadStageNew, Version: 1}
	user := &domain.AdminUser{ID: 1}

	rec := httptest.NewRecorder()
	h.UpdateSalesLead(rec, requestWithLead(`{"company":"Contoso"}`, lead, user))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateSalesLeadNegativeValue(t *testing.T) {
	h, _ := newTestHandler(t)

	lead := &domain.SalesLead{ID: 1, Company: "Contoso", ContactName: "Grace", ContactEmail: "g@contoso.example", Stage: domain.LeadStageNew}
	user := &domain.AdminUser{ID: 1}

	rec := httptest.NewRecorder()
	h.UpdateSalesLead(rec, requestWithLead(`{"estimatedValueCents":-500}`, lead, user))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
