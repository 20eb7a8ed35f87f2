package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/lakeside-labs/backoffice/backend/internal/config"
	"github.com/lakeside-labs/backoffice/backend/internal/domain"
	"github.com/lakeside-labs/backoffice/backend/internal/repository"
)

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.CompanyName = "Lakeside Labs"
	cfg.Admin.EmailDomain = "lakesidelabs.com"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 1209600
	cfg.LoginCode.Expiration = 600
	cfg.LoginCode.Length = 8
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 10

	repo := repository.NewRepository(cfg, db)
	h, err := NewHandler(cfg, repo, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	return h, mock
}

// withUser injects an authenticated user the way requireAuth would.
func withUser(user *domain.AdminUser, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), UserCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("could not decode error body: %v", err)
	}
	return body.Error
}

func TestRequireAuthWithoutCookie(t *testing.T) {
	h, _ := newTestHandler(t)

	called := false
	mw := h.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if called {
		t.Fatal("next handler ran without a session")
	}
}

func TestRequireAuthWithGarbageCookie(t *testing.T) {
	h, _ := newTestHandler(t)

	mw := h.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "not-a-jwt"})

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequirePermission(t *testing.T) {
	h, _ := newTestHandler(t)

	guard := h.requirePermission(domain.PermManageJobs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// granted
	granted := &domain.AdminUser{ID: 1, Permissions: domain.PermissionSet{domain.PermManageJobs}}
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, requestWithUser(granted))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("granted user got %d", rec.Code)
	}

	// denied
	denied := &domain.AdminUser{ID: 2, Permissions: domain.PermissionSet{domain.PermViewSales}}
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, requestWithUser(denied))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("denied user got %d", rec.Code)
	}
}

func requestWithUser(user *domain.AdminUser) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserCtxKey, user)
	return req.WithContext(ctx)
}

func TestLoginRejectsForeignDomain(t *testing.T) {
	h, mock := newTestHandler(t)

	body := strings.NewReader(`{"email":"someone@evil.example"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	// no database work should have happened
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestVerifyUnknownCode(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT id, code_hash, used, expires_at, created_at`).
		WithArgs("ada@lakesidelabs.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code_hash", "used", "expires_at", "created_at"}))

	body := strings.NewReader(`{"email":"ada@lakesidelabs.com","token":"WRONGCOD"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify", body)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "invalid or expired code" {
		t.Fatalf("error = %q", msg)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4321"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	if ip := clientIP(req); ip != "203.0.113.9" {
		t.Fatalf("clientIP = %q", ip)
	}

	req.Header.Del("X-Forwarded-For")
	if ip := clientIP(req); ip != "10.0.0.1" {
		t.Fatalf("clientIP = %q", ip)
	}
}
