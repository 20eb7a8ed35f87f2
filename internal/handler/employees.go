package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/activity"
	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, employees)
}

type employeeRequest struct {
	FirstName        string                   `json:"firstName" validate:"required"`
	LastName         string                   `json:"lastName" validate:"required"`
	Email            string                   `json:"email" validate:"required,email"`
	Title            string                   `json:"title" validate:"required"`
	Department       string                   `json:"department" validate:"required"`
	StartDate        string                   `json:"startDate"`
	Status           string                   `json:"status" validate:"omitempty,oneof=active on_leave terminated"`
	Salary           *domain.Salary           `json:"salary"`
	Address          *domain.Address          `json:"address"`
	EmergencyContact *domain.EmergencyContact `json:"emergencyContact"`
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.AdminUser)

	var req employeeRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	var startDate *time.Time
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			h.errorJSON(w, r, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
			return
		}
		startDate = &parsed
	}

	emp := &domain.Employee{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Title:            req.Title,
		Department:       req.Department,
		StartDate:        startDate,
		Status:           domain.EmployeeStatusActive,
		Salary:           req.Salary,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
	}
	if req.Status != "" {
		emp.Status = domain.EmployeeStatus(req.Status)
	}

	if err := h.repository.CreateEmployee(emp); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.CreateActivityLog(&domain.ActivityLog{
		Entity:   domain.ActivityEntityEmployee,
		EntityID: emp.ID,
		ActorID:  user.ID,
		Action:   "created",
	}); err != nil {
		slog.Warn("could not log employee creation", "employee", emp.ID, "error", err)
	}

	h.writeJSON(w, r, http.StatusCreated, emp)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeCtxKey).(*domain.Employee)
	h.writeJSON(w, r, http.StatusOK, emp)
}

var employeePatchFields = map[string]struct{}{
	"firstName": {}, "lastName": {}, "email": {}, "title": {},
	"department": {}, "startDate": {}, "status": {},
	"salary": {}, "address": {}, "emergencyContact": {},
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeCtxKey).(*domain.Employee)
	user := r.Context().Value(UserCtxKey).(*domain.AdminUser)

	patch, changes, err := h.readPatch(r, emp, employeePatchFields)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if len(changes) == 0 {
		h.writeJSON(w, r, http.StatusOK, emp)
		return
	}

	if raw, ok := patch["status"]; ok {
		statusStr, ok := raw.(string)
		if !ok {
			h.errorJSON(w, r, http.StatusBadRequest, "status must be a string")
			return
		}
		status := domain.EmployeeStatus(statusStr)
		switch status {
		case domain.EmployeeStatusActive, domain.EmployeeStatusOnLeave, domain.EmployeeStatusTerminated:
		default:
			h.errorJSON(w, r, http.StatusBadRequest, "unknown employee status")
			return
		}
		if status == domain.EmployeeStatusTerminated && emp.TerminatedAt == nil {
			now := time.Now()
			emp.TerminatedAt = &now
		}
		if status != domain.EmployeeStatusTerminated {
			emp.TerminatedAt = nil
		}
		emp.Status = status
	}

	applyString(patch, "firstName", &emp.FirstName)
	applyString(patch, "lastName", &emp.LastName)
	applyString(patch, "email", &emp.Email)
	applyString(patch, "title", &emp.Title)
	applyString(patch, "department", &emp.Department)

	if raw, ok := patch["startDate"]; ok {
		if raw == nil {
			emp.StartDate = nil
		} else if s, ok := raw.(string); ok {
			parsed, err := time.Parse("2006-01-02", s)
			if err != nil {
				h.errorJSON(w, r, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
				return
			}
			emp.StartDate = &parsed
		}
	}

	if err := applyStructured(patch, "salary", &emp.Salary); err != nil {
		h.errorJSON(w, r, http.StatusBadRequest, "invalid salary")
		return
	}
	if err := applyStructured(patch, "address", &emp.Address); err != nil {
		h.errorJSON(w, r, http.StatusBadRequest, "invalid address")
		return
	}
	if err := applyStructured(patch, "emergencyContact", &emp.EmergencyContact); err != nil {
		h.errorJSON(w, r, http.StatusBadRequest, "invalid emergencyContact")
		return
	}

	if emp.FirstName == "" || emp.LastName == "" || emp.Email == "" {
		h.errorJSON(w, r, http.StatusBadRequest, "name and email cannot be empty")
		return
	}

	if err := h.repository.UpdateEmployee(emp); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorJSON(w, r, http.StatusConflict, "employee was modified concurrently, retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.logChanges(domain.ActivityEntityEmployee, emp.ID, user.ID, changes)

	h.writeJSON(w, r, http.StatusOK, emp)
}

// TerminateEmployee is the soft delete: the row stays, the status flips.
func (h *Handler) TerminateEmployee(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeCtxKey).(*domain.Employee)
	user := r.Context().Value(UserCtxKey).(*domain.AdminUser)

	if emp.Status == domain.EmployeeStatusTerminated {
		h.writeJSON(w, r, http.StatusOK, emp)
		return
	}

	previous := emp.Status
	now := time.Now()
	emp.Status = domain.EmployeeStatusTerminated
	emp.TerminatedAt = &now

	if err := h.repository.UpdateEmployee(emp); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorJSON(w, r, http.StatusConflict, "employee was modified concurrently, retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	field := "status"
	if err := h.repository.CreateActivityLog(&domain.ActivityLog{
		Entity:        domain.ActivityEntityEmployee,
		EntityID:      emp.ID,
		ActorID:       user.ID,
		Action:        "terminated",
		Field:         &field,
		PreviousValue: activity.EncodeValue(previous),
		NewValue:      activity.EncodeValue(emp.Status),
	}); err != nil {
		slog.Warn("could not log employee termination", "employee", emp.ID, "error", err)
	}

	h.writeJSON(w, r, http.StatusOK, emp)
}

func (h *Handler) EmployeeActivity(w http.ResponseWriter, r *http.Request) {
	emp := r.Context().Value(EmployeeCtxKey).(*domain.Employee)

	entries, err := h.repository.GetActivityLogs(domain.ActivityEntityEmployee, emp.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, entries)
}

// logChanges fans a diff out into one activity row per changed field. The
// update itself has already committed, so failures here are logged and
// swallowed.
func (h *Handler) logChanges(entity domain.ActivityEntity, entityID, actorID int64, changes []activity.Change) {
	entries := make([]*domain.ActivityLog, 0, len(changes))
	for _, c := range changes {
		field := c.Field
		entries = append(entries, &domain.ActivityLog{
			Entity:        entity,
			EntityID:      entityID,
			ActorID:       actorID,
			Action:        "updated",
			Field:         &field,
			PreviousValue: activity.EncodeValue(c.Previous),
			NewValue:      activity.EncodeValue(c.New),
		})
	}

	if err := h.repository.CreateActivityLogs(entries); err != nil {
		slog.Warn("could not write activity log", "entity", entity, "id", entityID, "error", err)
	}
}

// applyStructured decodes a nested patch value into a jsonb-backed struct
// field. An explicit null clears the field.
func applyStructured[T any](patch map[string]any, field string, dst **T) error {
	raw, ok := patch[field]
	if !ok {
		return nil
	}
	if raw == nil {
		*dst = nil
		return nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	value := new(T)
	if err := json.Unmarshal(encoded, value); err != nil {
		return err
	}
	*dst = value
	return nil
}
