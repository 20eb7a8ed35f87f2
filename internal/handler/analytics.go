package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

// hashIP keeps visitor counters distinct without storing addresses.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// RecordEvent is the public analytics beacon. Malformed metadata is not
// worth a client-visible error, so only the event type is validated.
func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type     string          `json:"type" validate:"required"`
		JobID    *int64          `json:"jobId"`
		Metadata json.RawMessage `json:"metadata"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	eventType := domain.AnalyticsEventType(req.Type)
	switch eventType {
	case domain.AnalyticsPageView, domain.AnalyticsJobView, domain.AnalyticsApplicationStart, domain.AnalyticsApplicationSubmit:
	default:
		h.errorJSON(w, r, http.StatusBadRequest, "unknown event type")
		return
	}

	metadata := req.Metadata
	if len(metadata) > 0 && !json.Valid(metadata) {
		metadata = nil
	}

	if err := h.repository.CreateAnalyticsEvent(&domain.AnalyticsEvent{
		Type:     eventType,
		JobID:    req.JobID,
		IPHash:   hashIP(clientIP(r)),
		Metadata: metadata,
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, createdResponse{Success: true})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repository.GetDashboardStats()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, stats)
}
