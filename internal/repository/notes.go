package repository

import (
	"context"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func (r *Repository) CreateApplicationNote(note *domain.ApplicationNote) error {
	query := `
		INSERT INTO application_notes (application_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{note.ApplicationID, note.AuthorID, note.Body}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetApplicationNoteByID(id int64) (*domain.ApplicationNote, error) {
	query := `
		SELECT application_id, author_id, body, created_at, updated_at
		FROM application_notes WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	note := &domain.ApplicationNote{
		ID: id,
	}

	dst := []any{&note.ApplicationID, &note.AuthorID, &note.Body, &note.CreatedAt, &note.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return note, nil
}

func (r *Repository) GetApplicationNotes(applicationID int64) ([]*domain.ApplicationNote, error) {
	query := `
		SELECT id, author_id, body, created_at, updated_at
		FROM application_notes
		WHERE application_id = $1
		ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]*domain.ApplicationNote, 0)
	for rows.Next() {
		note := &domain.ApplicationNote{
			ApplicationID: applicationID,
		}
		dst := []any{&note.ID, &note.AuthorID, &note.Body, &note.CreatedAt, &note.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *Repository) UpdateApplicationNote(note *domain.ApplicationNote) error {
	query := `
		UPDATE application_notes
		SET body = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, note.Body, note.ID).Scan(&note.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteApplicationNote(id int64) error {
	query := `
		DELETE FROM application_notes WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}

func (r *Repository) CreateEmployeeNote(note *domain.EmployeeNote) error {
	query := `
		INSERT INTO employee_notes (employee_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{note.EmployeeID, note.AuthorID, note.Body}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetEmployeeNoteByID(id int64) (*domain.EmployeeNote, error) {
	query := `
		SELECT employee_id, author_id, body, created_at, updated_at
		FROM employee_notes WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	note := &domain.EmployeeNote{
		ID: id,
	}

	dst := []any{&note.EmployeeID, &note.AuthorID, &note.Body, &note.CreatedAt, &note.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return note, nil
}

func (r *Repository) GetEmployeeNotes(employeeID int64) ([]*domain.EmployeeNote, error) {
	query := `
		SELECT id, author_id, body, created_at, updated_at
		FROM employee_notes
		WHERE employee_id = $1
		ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]*domain.EmployeeNote, 0)
	for rows.Next() {
		note := &domain.EmployeeNote{
			EmployeeID: employeeID,
		}
		dst := []any{&note.ID, &note.AuthorID, &note.Body, &note.CreatedAt, &note.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *Repository) UpdateEmployeeNote(note *domain.EmployeeNote) error {
	query := `
		UPDATE employee_notes
		SET body = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, note.Body, note.ID).Scan(&note.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteEmployeeNote(id int64) error {
	query := `
		DELETE FROM employee_notes WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}
