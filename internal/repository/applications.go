package repository

import (
	"context"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func (r *Repository) CreateApplication(app *domain.Application) error {
	query := `
		INSERT INTO applications (public_id, job_id, first_name, last_name, email, phone, linkedin_url, cover_letter, resume_path, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{app.PublicID, app.JobID, app.FirstName, app.LastName, app.Email, app.Phone, app.LinkedInURL, app.CoverLetter, app.ResumePath, app.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt, &app.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetApplicationByID(id int64) (*domain.Application, error) {
	query := `
		SELECT public_id, job_id, first_name, last_name, email, phone, linkedin_url, cover_letter, resume_path, status, created_at, updated_at, version
		FROM applications WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	app := &domain.Application{
		ID: id,
	}

	dst := []any{&app.PublicID, &app.JobID, &app.FirstName, &app.LastName, &app.Email, &app.Phone, &app.LinkedInURL, &app.CoverLetter, &app.ResumePath, &app.Status, &app.CreatedAt, &app.UpdatedAt, &app.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return app, nil
}

func (r *Repository) GetAllApplications(jobID *int64) ([]*domain.Application, error) {
	query := `
		SELECT id, public_id, job_id, first_name, last_name, email, phone, linkedin_url, cover_letter, resume_path, status, created_at, updated_at, version
		FROM applications
		WHERE ($1::bigint IS NULL OR job_id = $1)
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]*domain.Application, 0)
	for rows.Next() {
		app := &domain.Application{}
		dst := []any{&app.ID, &app.PublicID, &app.JobID, &app.FirstName, &app.LastName, &app.Email, &app.Phone, &app.LinkedInURL, &app.CoverLetter, &app.ResumePath, &app.Status, &app.CreatedAt, &app.UpdatedAt, &app.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *Repository) UpdateApplication(app *domain.Application) error {
	query := `
		UPDATE applications
		SET
			first_name = $1,
			last_name = $2,
			email = $3,
			phone = $4,
			linkedin_url = $5,
			cover_letter = $6,
			resume_path = $7,
			status = $8,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{app.FirstName, app.LastName, app.Email, app.Phone, app.LinkedInURL, app.CoverLetter, app.ResumePath, app.Status, app.ID, app.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&app.UpdatedAt, &app.Version); err != nil {
		return err
	}

	return nil
}

// FindLatestApplicationByEmail matches an inbound email back to the most
// recent application from that address.
func (r *Repository) FindLatestApplicationByEmail(email string) (*domain.Application, error) {
	query := `
		SELECT id, public_id, job_id, first_name, last_name, phone, linkedin_url, cover_letter, resume_path, status, created_at, updated_at, version
		FROM applications
		WHERE LOWER(email) = LOWER($1)
		ORDER BY created_at DESC
		LIMIT 1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	app := &domain.Application{
		Email: email,
	}

	dst := []any{&app.ID, &app.PublicID, &app.JobID, &app.FirstName, &app.LastName, &app.Phone, &app.LinkedInURL, &app.CoverLetter, &app.ResumePath, &app.Status, &app.CreatedAt, &app.UpdatedAt, &app.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(dst...); err != nil {
		return nil, err
	}

	return app, nil
}
