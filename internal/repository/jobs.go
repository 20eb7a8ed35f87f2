package repository

import (
	"context"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func (r *Repository) CreateJob(job *domain.Job) error {
	query := `
		INSERT INTO jobs (public_id, title, department, location, description, salary_min, salary_max, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, view_count, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{job.PublicID, job.Title, job.Department, job.Location, job.Description, job.SalaryMin, job.SalaryMax, job.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&job.ID, &job.ViewCount, &job.CreatedAt, &job.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetJobByID(id int64) (*domain.Job, error) {
	query := `
		SELECT public_id, title, department, location, description, salary_min, salary_max, is_active, view_count, created_at, version
		FROM jobs WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	job := &domain.Job{
		ID: id,
	}

	dst := []any{&job.PublicID, &job.Title, &job.Department, &job.Location, &job.Description, &job.SalaryMin, &job.SalaryMax, &job.IsActive, &job.ViewCount, &job.CreatedAt, &job.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return job, nil
}

func (r *Repository) GetJobByPublicID(publicID string) (*domain.Job, error) {
	query := `
		SELECT id, title, department, location, description, salary_min, salary_max, is_active, view_count, created_at, version
		FROM jobs WHERE public_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	job := &domain.Job{
		PublicID: publicID,
	}

	dst := []any{&job.ID, &job.Title, &job.Department, &job.Location, &job.Description, &job.SalaryMin, &job.SalaryMax, &job.IsActive, &job.ViewCount, &job.CreatedAt, &job.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, publicID).Scan(dst...); err != nil {
		return nil, err
	}

	return job, nil
}

func (r *Repository) GetAllJobs(activeOnly bool) ([]*domain.Job, error) {
	query := `
		SELECT id, public_id, title, department, location, description, salary_min, salary_max, is_active, view_count, created_at, version
		FROM jobs
		WHERE ($1 = FALSE OR is_active = TRUE)
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job := &domain.Job{}
		dst := []any{&job.ID, &job.PublicID, &job.Title, &job.Department, &job.Location, &job.Description, &job.SalaryMin, &job.SalaryMax, &job.IsActive, &job.ViewCount, &job.CreatedAt, &job.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

func (r *Repository) UpdateJob(job *domain.Job) error {
	query := `
		UPDATE jobs
		SET
			title = $1,
			department = $2,
			location = $3,
			description = $4,
			salary_min = $5,
			salary_max = $6,
			is_active = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{job.Title, job.Department, job.Location, job.Description, job.SalaryMin, job.SalaryMax, job.IsActive, job.ID, job.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&job.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteJob(id int64) error {
	query := `
		DELETE FROM jobs WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}

// IncrementJobViews bumps the public view counter without touching version,
// so concurrent public views never conflict with admin edits.
func (r *Repository) IncrementJobViews(id int64) error {
	query := `
		UPDATE jobs SET view_count = view_count + 1 WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}
