package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
	"github.com/lakeside-labs/backoffice/backend/internal/workflow"
)

func (h *Handler) ListSalesLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.repository.GetAllSalesLeads()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, leads)
}

type salesLeadRequest struct {
	Company             string `json:"company" validate:"required"`
	ContactName         string `json:"contactName" validate:"required"`
	ContactEmail        string `json:"contactEmail" validate:"required,email"`
	Phone               string `json:"phone"`
	Source              string `json:"source"`
	EstimatedValueCents int64  `json:"estimatedValueCents" validate:"gte=0"`
}

func (h *Handler) CreateSalesLead(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.AdminUser)

	var req salesLeadRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	lead := &domain.SalesLead{
		Company:             req.Company,
		ContactName:         req.ContactName,
		ContactEmail:        req.ContactEmail,
		Phone:               req.Phone,
		Source:              req.Source,
		Stage:               domain.LeadStageNew,
		EstimatedValueCents: req.EstimatedValueCents,
	}
	if err := h.repository.CreateSalesLead(lead); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.CreateActivityLog(&domain.ActivityLog{
		Entity:   domain.ActivityEntitySalesLead,
		EntityID: lead.ID,
		ActorID:  user.ID,
		Action:   "created",
	}); err != nil {
		slog.Warn("could not log lead creation", "lead", lead.ID, "error", err)
	}

	h.writeJSON(w, r, http.StatusCreated, lead)
}

func (h *Handler) GetSalesLead(w http.ResponseWriter, r *http.Request) {
	lead := r.Context().Value(SalesLeadCtxKey).(*domain.SalesLead)
	h.writeJSON(w, r, http.StatusOK, lead)
}

var salesLeadPatchFields = map[string]struct{}{
	"company": {}, "contactName": {}, "contactEmail": {}, "phone": {},
	"source": {}, "stage": {}, "estimatedValueCents": {}, "lostReason": {},
}

func (h *Handler) UpdateSalesLead(w http.ResponseWriter, r *http.Request) {
	lead := r.Context().Value(SalesLeadCtxKey).(*domain.SalesLead)
	user := r.Context().Value(UserCtxKey).(*domain.AdminUser)

	patch, changes, err := h.readPatch(r, lead, salesLeadPatchFields)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if len(changes) == 0 {
		h.writeJSON(w, r, http.StatusOK, lead)
		return
	}

	if raw, ok := patch["stage"]; ok {
		stageStr, ok := raw.(string)
		if !ok {
			h.errorJSON(w, r, http.StatusBadRequest, "stage must be a string")
			return
		}
		stage := domain.LeadStage(stageStr)
		if !workflow.ValidLeadStage(stage) {
			h.errorJSON(w, r, http.StatusBadRequest, "unknown lead stage")
			return
		}

		var lostReason *string
		if v, ok := patch["lostReason"].(string); ok {
			lostReason = &v
		}
		if err := workflow.ApplyLeadStage(lead, stage, lostReason, time.Now()); err != nil {
			h.errorJSON(w, r, http.StatusBadRequest, err.Error())
			return
		}
	} else if _, ok := patch["lostReason"]; ok {
		h.errorJSON(w, r, http.StatusBadRequest, "lostReason can only be set together with the lost stage")
		return
	}

	applyString(patch, "company", &lead.Company)
	applyString(patch, "contactName", &lead.ContactName)
	applyString(patch, "contactEmail", &lead.ContactEmail)
	applyString(patch, "phone", &lead.Phone)
	applyString(patch, "source", &lead.Source)
	if v, ok := patch["estimatedValueCents"].(float64); ok {
		if v < 0 {
			h.errorJSON(w, r, http.StatusBadRequest, "estimatedValueCents cannot be negative")
			return
		}
		lead.EstimatedValueCents = int64(v)
	}

	if lead.Company == "" || lead.ContactName == "" || lead.ContactEmail == "" {
		h.errorJSON(w, r, http.StatusBadRequest, "company and contact cannot be empty")
		return
	}

	if err := h.repository.UpdateSalesLead(lead); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorJSON(w, r, http.StatusConflict, "lead was modified concurrently, retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.logChanges(domain.ActivityEntitySalesLead, lead.ID, user.ID, changes)

	h.writeJSON(w, r, http.StatusOK, lead)
}

func (h *Handler) DeleteSalesLead(w http.ResponseWriter, r *http.Request) {
	lead := r.Context().Value(SalesLeadCtxKey).(*domain.SalesLead)

	if err := h.repository.DeleteSalesLead(lead.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, createdResponse{Success: true})
}

func (h *Handler) SalesLeadActivity(w http.ResponseWriter, r *http.Request) {
	lead := r.Context().Value(SalesLeadCtxKey).(*domain.SalesLead)

	entries, err := h.repository.GetActivityLogs(domain.ActivityEntitySalesLead, lead.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, entries)
}
