package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, users)
}

// UpdateUserPermissions replaces the target's grant set wholesale. The
// new set takes effect on the target's next request because authorization
// re-reads the user row.
func (h *Handler) UpdateUserPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorJSON(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	// an empty list is valid, it revokes everything
	var req struct {
		Permissions []string `json:"permissions"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	perms := make(domain.PermissionSet, 0, len(req.Permissions))
	for _, raw := range req.Permissions {
		perm := domain.Permission(raw)
		if !domain.ValidPermission(perm) {
			h.errorJSON(w, r, http.StatusBadRequest, "unknown permission: "+raw)
			return
		}
		if perms.Has(perm) {
			continue
		}
		perms = append(perms, perm)
	}

	user, err := h.repository.GetUserByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "user not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	user.Permissions = perms
	if err := h.repository.UpdateUserPermissions(user); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorJSON(w, r, http.StatusConflict, "user was modified concurrently, retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := r.Context().Value(UserCtxKey).(*domain.AdminUser)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorJSON(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	if id == actor.ID {
		h.errorJSON(w, r, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if _, err := h.repository.GetUserByID(id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "user not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.DeleteUser(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, createdResponse{Success: true})
}
