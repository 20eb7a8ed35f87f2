package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
	"github.com/lakeside-labs/backoffice/backend/internal/utils"
	"github.com/lakeside-labs/backoffice/backend/internal/workflow"
)

// SubmitApplication is the public submission endpoint. It accepts a
// multipart form so a resume can ride along with the contact fields.
func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.config.Upload.MaxBytes); err != nil {
		h.errorJSON(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	form := struct {
		JobID       string `validate:"required"`
		FirstName   string `validate:"required"`
		LastName    string `validate:"required"`
		Email       string `validate:"required,email"`
		Phone       string
		LinkedInURL string
		CoverLetter string
	}{
		JobID:       r.FormValue("jobId"),
		FirstName:   r.FormValue("firstName"),
		LastName:    r.FormValue("lastName"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
		LinkedInURL: r.FormValue("linkedinUrl"),
		CoverLetter: r.FormValue("coverLetter"),
	}
	if err := h.validate.Struct(form); err != nil {
		h.badRequest(w, r, err)
		return
	}

	job, err := h.lookupJob(form.JobID)
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
		h.errorJSON(w, r, http.StatusBadRequest, "job is no longer accepting applications")
		return
	}

	var resumePath *string
	file, header, err := r.FormFile("resume")
	switch {
	case err == nil:
		defer file.Close()
		stored, err := h.files.Save(header.Filename, file)
		if err != nil {
			h.errorJSON(w, r, http.StatusBadRequest, "could not store resume")
			return
		}
		resumePath = &stored
	case errors.Is(err, http.ErrMissingFile):
		// resume is optional
	default:
		h.errorJSON(w, r, http.StatusBadRequest, "invalid resume upload")
		return
	}

	publicID, err := utils.NewPublicID()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	app := &domain.Application{
		PublicID:    publicID,
		JobID:       job.ID,
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		Phone:       form.Phone,
		LinkedInURL: form.LinkedInURL,
		CoverLetter: form.CoverLetter,
		ResumePath:  resumePath,
		Status:      domain.ApplicationStatusNew,
	}
	if err := h.repository.CreateApplication(app); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.CreateAnalyticsEvent(&domain.AnalyticsEvent{
		Type:   domain.AnalyticsApplicationSubmit,
		JobID:  &job.ID,
		IPHash: hashIP(clientIP(r)),
	}); err != nil {
		slog.Warn("could not record submission event", "job", job.ID, "error", err)
	}

	h.writeJSON(w, r, http.StatusCreated, createdResponse{Success: true, ID: app.PublicID})
}

// lookupJob accepts the job's public id, falling back to the numeric id
// so older links keep working.
func (h *Handler) lookupJob(id string) (*domain.Job, error) {
	job, err := h.repository.GetJobByPublicID(id)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	numeric, parseErr := strconv.ParseInt(id, 10, 64)
	if parseErr != nil {
		return nil, sql.ErrNoRows
	}
	return h.repository.GetJobByID(numeric)
}

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	var jobID *int64
	if raw := r.URL.Query().Get("jobId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.errorJSON(w, r, http.StatusBadRequest, "invalid jobId filter")
			return
		}
		jobID = &id
	}

	apps, err := h.repository.GetAllApplications(jobID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, apps)
}

func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	app := r.Context().Value(ApplicationCtxKey).(*domain.Application)
	h.writeJSON(w, r, http.StatusOK, app)
}

var applicationPatchFields = map[string]struct{}{
	"firstName": {}, "lastName": {}, "email": {}, "phone": {},
	"linkedinUrl": {}, "coverLetter": {}, "status": {},
}

type applicationUpdateResponse struct {
	Application *domain.Application `json:"application"`
	// SuggestedEmailTemplate is set when the new status usually warrants
	// a candidate email. Sending it is a separate, optional operation.
	SuggestedEmailTemplate string `json:"suggestedEmailTemplate,omitempty"`
}

func (h *Handler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	app := r.Context().Value(ApplicationCtxKey).(*domain.Application)

	patch, changes, err := h.readPatch(r, app, applicationPatchFields)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if len(changes) == 0 {
		h.writeJSON(w, r, http.StatusOK, applicationUpdateResponse{Application: app})
		return
	}

	var suggested string
	if raw, ok := patch["status"]; ok {
		statusStr, ok := raw.(string)
		if !ok {
			h.errorJSON(w, r, http.StatusBadRequest, "status must be a string")
			return
		}
		status := domain.ApplicationStatus(statusStr)
		if !workflow.ValidApplicationStatus(status) {
			h.errorJSON(w, r, http.StatusBadRequest, "unknown application status")
			return
		}
		if status != app.Status {
			if name, ok := workflow.SuggestedEmailTemplate(status); ok {
				suggested = name
			}
		}
		app.Status = status
	}

	applyString(patch, "firstName", &app.FirstName)
	applyString(patch, "lastName", &app.LastName)
	applyString(patch, "email", &app.Email)
	applyString(patch, "phone", &app.Phone)
	applyString(patch, "linkedinUrl", &app.LinkedInURL)
	applyString(patch, "coverLetter", &app.CoverLetter)

	if app.FirstName == "" || app.LastName == "" || app.Email == "" {
		h.errorJSON(w, r, http.StatusBadRequest, "name and email cannot be empty")
		return
	}

	if err := h.repository.UpdateApplication(app); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorJSON(w, r, http.StatusConflict, "application was modified concurrently, retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, applicationUpdateResponse{
		Application:            app,
		SuggestedEmailTemplate: suggested,
	})
}

// ConvertApplication turns a hired application into an employee record.
func (h *Handler) ConvertApplication(w http.ResponseWriter, r *http.Request) {
	app := r.Context().Value(ApplicationCtxKey).(*domain.Application)
	user := r.Context().Value(UserCtxKey).(*domain.AdminUser)

	if app.Status != domain.ApplicationStatusHired {
		h.errorJSON(w, r, http.StatusBadRequest, "only hired applications can be converted")
		return
	}

	var req struct {
		Title      string `json:"title" validate:"required"`
		Department string `json:"department" validate:"required"`
		StartDate  string `json:"startDate" validate:"required"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.errorJSON(w, r, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
		return
	}

	emp := &domain.Employee{
		FirstName:     app.FirstName,
		LastName:      app.LastName,
		Email:         app.Email,
		Title:         req.Title,
		Department:    req.Department,
		StartDate:     &startDate,
		Status:        domain.EmployeeStatusActive,
		ApplicationID: &app.ID,
	}
	if err := h.repository.CreateEmployee(emp); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.CreateActivityLog(&domain.ActivityLog{
		Entity:   domain.ActivityEntityEmployee,
		EntityID: emp.ID,
		ActorID:  user.ID,
		Action:   "created_from_application",
	}); err != nil {
		slog.Warn("could not log employee conversion", "employee", emp.ID, "error", err)
	}

	h.writeJSON(w, r, http.StatusCreated, emp)
}
