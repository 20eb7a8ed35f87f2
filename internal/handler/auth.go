package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
	"github.com/lakeside-labs/backoffice/backend/internal/mailer"
	"github.com/lakeside-labs/backoffice/backend/internal/utils"
)

const sessionCookieName = "__backoffice_token"

// codeGenerationAttempts bounds retries when a freshly generated code
// collides with an unexpired one for the same email.
const codeGenerationAttempts = 5

type AuthClaims struct {
	SessionID string `json:"sid"`
	// Permissions is a snapshot taken at login. It lets the cookie be
	// authenticated without a store round trip, but authorization always
	// re-reads the live user row, so a revoked grant takes effect on the
	// next request.
	Permissions []string `json:"perms"`
	jwt.RegisteredClaims
}

const loginCodeSubject = "Your {{companyName}} login code"
const loginCodeBody = `Hi,

Your login code is {{code}}. It expires in {{expiresMinutes}} minutes and can be used once.

If you did not request this code you can ignore this email.

{{companyName}}`

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.HasSuffix(email, "@"+strings.ToLower(h.config.Admin.EmailDomain)) {
		h.forbidden(w, r, "email domain not allowed")
		return
	}

	active, err := h.repository.GetActiveLoginCodes(email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var code string
	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		candidate, err := utils.GenerateLoginCode(h.config.LoginCode.Length)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if !matchesAny(active, candidate) {
			code = candidate
			break
		}
	}
	if code == "" {
		h.internalServerError(w, r, errors.New("could not generate a unique login code"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	loginCode := &domain.LoginCode{
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(time.Duration(h.config.LoginCode.Expiration) * time.Second),
	}
	if err := h.repository.CreateLoginCode(loginCode); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	vars := map[string]string{
		"code":           code,
		"companyName":    h.config.CompanyName,
		"expiresMinutes": strconv.Itoa(h.config.LoginCode.Expiration / 60),
	}

	// Delivery failure is logged but does not fail the request: the code
	// is already persisted and still verifiable.
	if err := h.dispatchEmail(&domain.SentEmail{
		FromAddress: h.config.Email.Admin,
		ToAddress:   email,
		Subject:     mailer.Render(loginCodeSubject, vars),
		Body:        mailer.Render(loginCodeBody, vars),
		Status:      domain.SentEmailStatusPending,
	}); err != nil {
		slog.Warn("could not dispatch login code email", "email", email, "error", err)
	}

	h.writeJSON(w, r, http.StatusOK, createdResponse{Success: true})
}

func matchesAny(codes []*domain.LoginCode, candidate string) bool {
	for _, c := range codes {
		if bcrypt.CompareHashAndPassword([]byte(c.CodeHash), []byte(candidate)) == nil {
			return true
		}
	}
	return false
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
		Token string `json:"token" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	code := strings.ToUpper(strings.TrimSpace(req.Token))

	// Wrong code, expired code and replayed code all produce the same
	// response so the failure mode is not distinguishable.
	codes, err := h.repository.GetActiveLoginCodes(email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var matched *domain.LoginCode
	for _, c := range codes {
		if bcrypt.CompareHashAndPassword([]byte(c.CodeHash), []byte(code)) == nil {
			matched = c
			break
		}
	}
	if matched == nil {
		h.errorJSON(w, r, http.StatusUnauthorized, "invalid or expired code")
		return
	}

	if err := h.repository.MarkLoginCodeUsed(matched.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// consumed by a concurrent verification
			h.errorJSON(w, r, http.StatusUnauthorized, "invalid or expired code")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	user, err := h.getOrCreateUser(email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.TouchUserLastLogin(user.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	expiration := time.Now().Add(time.Duration(h.config.JWT.Expiration) * time.Second)
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: expiration,
	}
	if err := h.repository.CreateSession(session); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	perms := make([]string, 0, len(user.Permissions))
	for _, p := range user.Permissions {
		perms = append(perms, string(p))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		SessionID:   session.ID,
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    ss,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}
	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}
	http.SetCookie(w, cookie)

	h.writeJSON(w, r, http.StatusOK, user)
}

// getOrCreateUser resolves the verified email to an admin user, creating
// the account on first login. The first account ever created is granted
// every permission; later accounts start with none.
func (h *Handler) getOrCreateUser(email string) (*domain.AdminUser, error) {
	user, err := h.repository.GetUserByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	local, _, _ := strings.Cut(email, "@")
	user = &domain.AdminUser{
		Email:       email,
		DisplayName: local,
	}
	bootstrapped, err := h.repository.CreateUserWithBootstrap(user)
	if err != nil {
		return nil, err
	}
	if bootstrapped {
		slog.Info("bootstrap admin created", "email", email)
	}
	return user, nil
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, session := h.getSession(r); session != nil {
		if err := h.repository.DeleteSession(session.ID); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:    sessionCookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	h.writeJSON(w, r, http.StatusOK, createdResponse{Success: true})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.AdminUser)
	h.writeJSON(w, r, http.StatusOK, user)
}

// getSession resolves a request's cookie to a live user and session. The
// token authenticates the cookie; the session row must still exist and be
// unexpired (deleting it revokes the token early), and the user row is
// re-read so permissions are always current. Any failure returns nils.
func (h *Handler) getSession(r *http.Request) (*domain.AdminUser, *domain.Session) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, nil
	}

	claims := &AuthClaims{}
	_, err = jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Method)
		}
		return []byte(h.config.JWT.Secret), nil
	})
	if err != nil {
		return nil, nil
	}

	session, err := h.repository.GetSessionByID(claims.SessionID)
	if err != nil {
		return nil, nil
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, nil
	}
	user, err := h.repository.GetUserByID(userID)
	if err != nil {
		return nil, nil
	}

	return user, session
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
