package handler

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lakeside-labs/backoffice/backend/internal/storage"
)

// ServeFile streams a stored upload, typically a resume linked from an
// application. The store rejects paths that escape its root.
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	if rel == "" {
		h.errorJSON(w, r, http.StatusBadRequest, "missing file path")
		return
	}

	f, err := h.files.Open(rel)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrPathTraversal):
			h.errorJSON(w, r, http.StatusBadRequest, "invalid file path")
		case errors.Is(err, fs.ErrNotExist):
			h.notFound(w, r, "file not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
