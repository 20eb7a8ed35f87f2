package repository

import (
	"context"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func (r *Repository) CreateEmailTemplate(tpl *domain.EmailTemplate) error {
	query := `
		INSERT INTO email_templates (name, entity_type, subject, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{tpl.Name, tpl.EntityType, tpl.Subject, tpl.Body}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetEmailTemplateByID(id int64) (*domain.EmailTemplate, error) {
	query := `
		SELECT name, entity_type, subject, body, created_at, version
		FROM email_templates WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	tpl := &domain.EmailTemplate{
		ID: id,
	}

	dst := []any{&tpl.Name, &tpl.EntityType, &tpl.Subject, &tpl.Body, &tpl.CreatedAt, &tpl.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return tpl, nil
}

func (r *Repository) GetEmailTemplateByName(name string) (*domain.EmailTemplate, error) {
	query := `
		SELECT id, entity_type, subject, body, created_at, version
		FROM email_templates WHERE name = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	tpl := &domain.EmailTemplate{
		Name: name,
	}

	dst := []any{&tpl.ID, &tpl.EntityType, &tpl.Subject, &tpl.Body, &tpl.CreatedAt, &tpl.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, name).Scan(dst...); err != nil {
		return nil, err
	}

	return tpl, nil
}

func (r *Repository) GetAllEmailTemplates() ([]*domain.EmailTemplate, error) {
	query := `
		SELECT id, name, entity_type, subject, body, created_at, version
		FROM email_templates ORDER BY name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]*domain.EmailTemplate, 0)
	for rows.Next() {
		tpl := &domain.EmailTemplate{}
		dst := []any{&tpl.ID, &tpl.Name, &tpl.EntityType, &tpl.Subject, &tpl.Body, &tpl.CreatedAt, &tpl.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) UpdateEmailTemplate(tpl *domain.EmailTemplate) error {
	query := `
		UPDATE email_templates
		SET
			name = $1,
			entity_type = $2,
			subject = $3,
			body = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{tpl.Name, tpl.EntityType, tpl.Subject, tpl.Body, tpl.ID, tpl.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&tpl.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteEmailTemplate(id int64) error {
	query := `
		DELETE FROM email_templates WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}

func (r *Repository) CreateSentEmail(email *domain.SentEmail) error {
	query := `
		INSERT INTO sent_emails (application_id, lead_id, from_address, to_address, subject, body, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{email.ApplicationID, email.LeadID, email.FromAddress, email.ToAddress, email.Subject, email.Body, email.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&email.ID, &email.CreatedAt, &email.UpdatedAt); err != nil {
		return err
	}

	return nil
}

// UpdateSentEmailStatus records the delivery outcome written by the mail
// worker: sent with a provider message id, or failed with the error text.
func (r *Repository) UpdateSentEmailStatus(id int64, status domain.SentEmailStatus, messageID, errorMessage *string) error {
	query := `
		UPDATE sent_emails
		SET status = $1, message_id = $2, error_message = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var updated int64
	if err := r.dbpool.QueryRowContext(ctx, query, status, messageID, errorMessage, id).Scan(&updated); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllSentEmails() ([]*domain.SentEmail, error) {
	query := `
		SELECT id, application_id, lead_id, from_address, to_address, subject, body, status, message_id, error_message, created_at, updated_at
		FROM sent_emails ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make([]*domain.SentEmail, 0)
	for rows.Next() {
		email := &domain.SentEmail{}
		dst := []any{&email.ID, &email.ApplicationID, &email.LeadID, &email.FromAddress, &email.ToAddress, &email.Subject, &email.Body, &email.Status, &email.MessageID, &email.ErrorMessage, &email.CreatedAt, &email.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return emails, nil
}

func (r *Repository) CreateReceivedEmail(email *domain.ReceivedEmail) error {
	query := `
		INSERT INTO received_emails (from_address, subject, body, application_id, received_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{email.FromAddress, email.Subject, email.Body, email.ApplicationID, email.ReceivedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&email.ID, &email.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllReceivedEmails() ([]*domain.ReceivedEmail, error) {
	query := `
		SELECT id, from_address, subject, body, application_id, received_at, created_at
		FROM received_emails ORDER BY received_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make([]*domain.ReceivedEmail, 0)
	for rows.Next() {
		email := &domain.ReceivedEmail{}
		dst := []any{&email.ID, &email.FromAddress, &email.Subject, &email.Body, &email.ApplicationID, &email.ReceivedAt, &email.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return emails, nil
}
