package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lakeside-labs/backoffice/backend/internal/activity"
	"github.com/lakeside-labs/backoffice/backend/internal/domain"
	"github.com/lakeside-labs/backoffice/backend/internal/utils"
)

func (h *Handler) ListPublicJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.repository.GetAllJobs(true)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, jobs)
}

// GetPublicJob serves one active posting and counts the view.
func (h *Handler) GetPublicJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.repository.GetJobByPublicID(chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "job not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if !job.IsActive {
		h.notFound(w, r, "job not found")
		return
	}

	if err := h.repository.IncrementJobViews(job.ID); err != nil {
		slog.Warn("could not increment job views", "job", job.ID, "error", err)
	} else {
		job.ViewCount++
	}

	if err := h.repository.CreateAnalyticsEvent(&domain.AnalyticsEvent{
		Type:   domain.AnalyticsJobView,
		JobID:  &job.ID,
		IPHash: hashIP(clientIP(r)),
	}); err != nil {
		slog.Warn("could not record job view event", "job", job.ID, "error", err)
	}

	h.writeJSON(w, r, http.StatusOK, job)
}

type jobRequest struct {
	Title       string `json:"title" validate:"required"`
	Department  string `json:"department" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description" validate:"required"`
	SalaryMin   *int64 `json:"salaryMin"`
	SalaryMax   *int64 `json:"salaryMax"`
	IsActive    *bool  `json:"isActive"`
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	publicID, err := utils.NewPublicID()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	job := &domain.Job{
		PublicID:    publicID,
		Title:       req.Title,
		Department:  req.Department,
		Location:    req.Location,
		Description: req.Description,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		IsActive:    true,
	}
	if req.IsActive != nil {
		job.IsActive = *req.IsActive
	}

	if err := h.repository.CreateJob(job); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, job)
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.repository.GetAllJobs(false)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, jobs)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(JobCtxKey).(*domain.Job)
	h.writeJSON(w, r, http.StatusOK, job)
}

var jobPatchFields = map[string]struct{}{
	"title": {}, "department": {}, "location": {}, "description": {},
	"salaryMin": {}, "salaryMax": {}, "isActive": {},
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(JobCtxKey).(*domain.Job)

	patch, changes, err := h.readPatch(r, job, jobPatchFields)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if len(changes) == 0 {
		h.writeJSON(w, r, http.StatusOK, job)
		return
	}

	applyString(patch, "title", &job.Title)
	applyString(patch, "department", &job.Department)
	applyString(patch, "location", &job.Location)
	applyString(patch, "description", &job.Description)
	applyOptionalInt64(patch, "salaryMin", &job.SalaryMin)
	applyOptionalInt64(patch, "salaryMax", &job.SalaryMax)
	applyBool(patch, "isActive", &job.IsActive)

	if job.Title == "" || job.Department == "" || job.Location == "" {
		h.errorJSON(w, r, http.StatusBadRequest, "title, department and location cannot be empty")
		return
	}

	if err := h.repository.UpdateJob(job); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorJSON(w, r, http.StatusConflict, "job was modified concurrently, retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, job)
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(JobCtxKey).(*domain.Job)

	if err := h.repository.DeleteJob(job.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, createdResponse{Success: true})
}

// readPatch decodes a partial-update body, rejects unknown fields and
// returns the decoded patch plus the fields that actually differ from the
// current entity.
func (h *Handler) readPatch(r *http.Request, entity any, allowed map[string]struct{}) (map[string]any, []activity.Change, error) {
	patch := make(map[string]any)
	if err := h.readJSON(r, &patch); err != nil {
		return nil, nil, err
	}
	for field := range patch {
		if _, ok := allowed[field]; !ok {
			return nil, nil, errors.New("unknown field: " + field)
		}
	}

	current, err := activity.EntityFields(entity)
	if err != nil {
		return nil, nil, err
	}

	return patch, activity.Diff(current, patch), nil
}

func applyString(patch map[string]any, field string, dst *string) {
	if v, ok := patch[field].(string); ok {
		*dst = v
	}
}

func applyBool(patch map[string]any, field string, dst *bool) {
	if v, ok := patch[field].(bool); ok {
		*dst = v
	}
}

func applyOptionalInt64(patch map[string]any, field string, dst **int64) {
	v, ok := patch[field]
	if !ok {
		return
	}
	if v == nil {
		*dst = nil
		return
	}
	if f, ok := v.(float64); ok {
		n := int64(f)
		*dst = &n
	}
}
