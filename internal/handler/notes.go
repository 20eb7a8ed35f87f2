package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

type noteRequest struct {
	Body string `json:"body" validate:"required"`
}

func (h *Handler) ListApplicationNotes(w http.ResponseWriter, r *http.Request) {
	app := r.Context().Value(ApplicationCtxKey).(*domain.Application)

	notes, err := h.repository.GetApplicationNotes(app.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, notes)
}

func (h *Handler) CreateApplicationNote(w http.ResponseWriter, r *http.Request) {
	app := r.Context().Value(ApplicationCtxKey).(*domain.Application)
	user := r.Context().Value(UserCtxKey).(*domain.AdminUser)

	var req noteRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	note := &domain.ApplicationNote{
		ApplicationID: app.ID,
		AuthorID:      user.ID,
		Body:          req.Body,
	}
	if err := h.repository.CreateApplicationNote(note); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, note)
}

// UpdateApplicationNote enforces the ownership invariant at the API
// boundary: only the note's author may edit it.
func (h *Handler) UpdateApplicationNote(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.AdminUser)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorJSON(w, r, http.StatusBadRequest, "invalid note id")
		return
	}

	note, err := h.repository.GetApplicationNoteByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "note not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if note.AuthorID != user.ID {
		h.forbidden(w, r, "only the author may edit this note")
		return
	}

	var req noteRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	note.Body = req.Body
	if err := h.repository.UpdateApplicationNote(note); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, note)
}

func (h *Handler) DeleteApplicationNote(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.AdminUser)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorJSON(w, r, http.StatusBadRequest, "invalid note id")
		return
	}

	note, err := h.repository.GetApplicationNoteByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "note not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if note.AuthorID != user.ID {
		h.forbidden(w, r, "only the author may delete this note")
		return
	}

	if err := h.repository.DeleteApplicationNote(note.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, createdResponse{Success: true})
}

func (h *Handler) ListEmployeeNotes(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeCtxKey).(*domain.Employee)

	notes, err := h.repository.GetEmployeeNotes(emp.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, notes)
}

func (h *Handler) CreateEmployeeNote(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeCtxKey).(*domain.Employee)
	user := r.Context().Value(UserCtxKey).(*domain.AdminUser)

	var req noteRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	note := &domain.EmployeeNote{
		EmployeeID: emp.ID,
		AuthorID:   user.ID,
		Body:       req.Body,
	}
	if err := h.repository.CreateEmployeeNote(note); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, note)
}

func (h *Handler) UpdateEmployeeNote(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.AdminUser)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorJSON(w, r, http.StatusBadRequest, "invalid note id")
		return
	}

	note, err := h.repository.GetEmployeeNoteByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "note not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if note.AuthorID != user.ID {
		h.forbidden(w, r, "only the author may edit this note")
		return
	}

	var req noteRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	note.Body = req.Body
	if err := h.repository.UpdateEmployeeNote(note); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, note)
}

func (h *Handler) DeleteEmployeeNote(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.AdminUser)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorJSON(w, r, http.StatusBadRequest, "invalid note id")
		return
	}

	note, err := h.repository.GetEmployeeNoteByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "note not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if note.AuthorID != user.ID {
		h.forbidden(w, r, "only the author may delete this note")
		return
	}

	if err := h.repository.DeleteEmployeeNote(note.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, createdResponse{Success: true})
}
