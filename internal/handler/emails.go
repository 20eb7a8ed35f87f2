package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
	"github.com/lakeside-labs/backoffice/backend/internal/mailer"
)

const mailQueueName = "email_queue"

// dispatchEmail persists the outbound email as pending and hands it to the
// queue. If publishing fails the row is flipped to failed so the attempt
// stays visible in the admin panel.
func (h *Handler) dispatchEmail(email *domain.SentEmail) error {
	if err := h.repository.CreateSentEmail(email); err != nil {
		return err
	}

	payload, err := json.Marshal(domain.MailMessage{
		SentEmailID: email.ID,
		From:        email.FromAddress,
		To:          email.ToAddress,
		Subject:     email.Subject,
		Body:        email.Body,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(ctx, "", mailQueueName, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        payload,
	}); err != nil {
		msg := err.Error()
		_ = h.repository.UpdateSentEmailStatus(email.ID, domain.SentEmailStatusFailed, nil, &msg)
		return err
	}

	return nil
}

func (h *Handler) ListSentEmails(w http.ResponseWriter, r *http.Request) {
	emails, err := h.repository.GetAllSentEmails()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, emails)
}

type sendEmailRequest struct {
	ApplicationID *int64 `json:"applicationId"`
	LeadID        *int64 `json:"leadId"`
	TemplateName  string `json:"templateName"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
}

// SendEmail queues one email to an application's candidate or a sales
// lead's contact. The content comes from a named template rendered with
// the entity's variables, or from a literal subject and body.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if (req.ApplicationID == nil) == (req.LeadID == nil) {
		h.errorJSON(w, r, http.StatusBadRequest, "exactly one of applicationId and leadId is required")
		return
	}
	if req.TemplateName == "" && (req.Subject == "" || req.Body == "") {
		h.errorJSON(w, r, http.StatusBadRequest, "templateName or subject and body are required")
		return
	}

	email := &domain.SentEmail{Status: domain.SentEmailStatusPending}
	var vars map[string]string

	switch {
	case req.ApplicationID != nil:
		app, err := h.repository.GetApplicationByID(*req.ApplicationID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "application not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		job, err := h.repository.GetJobByID(app.JobID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		email.ApplicationID = &app.ID
		email.FromAddress = h.config.Email.Hiring
		email.ToAddress = app.Email
		vars = mailer.ApplicationVars(app, job, h.config.CompanyName)

	case req.LeadID != nil:
		lead, err := h.repository.GetSalesLeadByID(*req.LeadID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "sales lead not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		email.LeadID = &lead.ID
		email.FromAddress = h.config.Email.Sales
		email.ToAddress = lead.ContactEmail
		vars = mailer.LeadVars(lead, h.config.CompanyName)
	}

	subject, body := req.Subject, req.Body
	if req.TemplateName != "" {
		tpl, err := h.repository.GetEmailTemplateByName(req.TemplateName)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "email template not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		wantEntity := "application"
		if req.LeadID != nil {
			wantEntity = "sales_lead"
		}
		if tpl.EntityType != wantEntity {
			h.errorJSON(w, r, http.StatusBadRequest, "template does not apply to this entity")
			return
		}
		subject, body = tpl.Subject, tpl.Body
	}

	email.Subject = mailer.Render(subject, vars)
	email.Body = mailer.Render(body, vars)

	if err := h.dispatchEmail(email); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, email)
}

func (h *Handler) ListReceivedEmails(w http.ResponseWriter, r *http.Request) {
	emails, err := h.repository.GetAllReceivedEmails()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, emails)
}

// IngestReceivedEmail records an inbound reply forwarded by the mail
// provider. The sender address is matched to the most recent application
// with that email so replies thread back to the candidate record.
func (h *Handler) IngestReceivedEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From       string `json:"from" validate:"required,email"`
		Subject    string `json:"subject" validate:"required"`
		Body       string `json:"body" validate:"required"`
		ReceivedAt string `json:"receivedAt"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	receivedAt := time.Now()
	if req.ReceivedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ReceivedAt)
		if err != nil {
			h.errorJSON(w, r, http.StatusBadRequest, "receivedAt must be RFC 3339")
			return
		}
		receivedAt = parsed
	}

	email := &domain.ReceivedEmail{
		FromAddress: strings.ToLower(strings.TrimSpace(req.From)),
		Subject:     req.Subject,
		Body:        req.Body,
		ReceivedAt:  receivedAt,
	}

	app, err := h.repository.FindLatestApplicationByEmail(email.FromAddress)
	switch {
	case err == nil:
		email.ApplicationID = &app.ID
	case errors.Is(err, sql.ErrNoRows):
		// unmatched senders are still kept
	default:
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.CreateReceivedEmail(email); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, email)
}

type emailTemplateRequest struct {
	Name       string `json:"name" validate:"required"`
	EntityType string `json:"entityType" validate:"required,oneof=application sales_lead"`
	Subject    string `json:"subject" validate:"required"`
	Body       string `json:"body" validate:"required"`
}

func (h *Handler) ListEmailTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.repository.GetAllEmailTemplates()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, templates)
}

func (h *Handler) CreateEmailTemplate(w http.ResponseWriter, r *http.Request) {
	var req emailTemplateRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tpl := &domain.EmailTemplate{
		Name:       req.Name,
		EntityType: req.EntityType,
		Subject:    req.Subject,
		Body:       req.Body,
	}
	if err := h.repository.CreateEmailTemplate(tpl); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, tpl)
}

func (h *Handler) UpdateEmailTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorJSON(w, r, http.StatusBadRequest, "invalid template id")
		return
	}

	tpl, err := h.repository.GetEmailTemplateByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "email template not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	var req emailTemplateRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tpl.Name = req.Name
	tpl.EntityType = req.EntityType
	tpl.Subject = req.Subject
	tpl.Body = req.Body

	if err := h.repository.UpdateEmailTemplate(tpl); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorJSON(w, r, http.StatusConflict, "template was modified concurrently, retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, tpl)
}

func (h *Handler) DeleteEmailTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorJSON(w, r, http.StatusBadRequest, "invalid template id")
		return
	}

	if err := h.repository.DeleteEmailTemplate(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, createdResponse{Success: true})
}
