package repository

import (
	"context"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func (r *Repository) CreateSalesLead(lead *domain.SalesLead) error {
	query := `
		INSERT INTO sales_leads (company, contact_name, contact_email, phone, source, stage, estimated_value_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{lead.Company, lead.ContactName, lead.ContactEmail, lead.Phone, lead.Source, lead.Stage, lead.EstimatedValueCents}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt, &lead.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSalesLeadByID(id int64) (*domain.SalesLead, error) {
	query := `
		SELECT company, contact_name, contact_email, phone, source, stage, estimated_value_cents, won_at, lost_at, lost_reason, created_at, updated_at, version
		FROM sales_leads WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	lead := &domain.SalesLead{
		ID: id,
	}

	dst := []any{&lead.Company, &lead.ContactName, &lead.ContactEmail, &lead.Phone, &lead.Source, &lead.Stage, &lead.EstimatedValueCents, &lead.WonAt, &lead.LostAt, &lead.LostReason, &lead.CreatedAt, &lead.UpdatedAt, &lead.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return lead, nil
}

func (r *Repository) GetAllSalesLeads() ([]*domain.SalesLead, error) {
	query := `
		SELECT id, company, contact_name, contact_email, phone, source, stage, estimated_value_cents, won_at, lost_at, lost_reason, created_at, updated_at, version
		FROM sales_leads ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]*domain.SalesLead, 0)
	for rows.Next() {
		lead := &domain.SalesLead{}
		dst := []any{&lead.ID, &lead.Company, &lead.ContactName, &lead.ContactEmail, &lead.Phone, &lead.Source, &lead.Stage, &lead.EstimatedValueCents, &lead.WonAt, &lead.LostAt, &lead.LostReason, &lead.CreatedAt, &lead.UpdatedAt, &lead.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return leads, nil
}

func (r *Repository) UpdateSalesLead(lead *domain.SalesLead) error {
	query := `
		UPDATE sales_leads
		SET
			company = $1,
			contact_name = $2,
			contact_email = $3,
			phone = $4,
			source = $5,
			stage = $6,
			estimated_value_cents = $7,
			won_at = $8,
			lost_at = $9,
			lost_reason = $10,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{lead.Company, lead.ContactName, lead.ContactEmail, lead.Phone, lead.Source, lead.Stage, lead.EstimatedValueCents, lead.WonAt, lead.LostAt, lead.LostReason, lead.ID, lead.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&lead.UpdatedAt, &lead.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteSalesLead(id int64) error {
	query := `
		DELETE FROM sales_leads WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}
