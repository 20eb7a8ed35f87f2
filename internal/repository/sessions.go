package repository

import (
	"context"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func (r *Repository) CreateSession(session *domain.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{session.ID, session.UserID, session.ExpiresAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&session.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSessionByID(id string) (*domain.Session, error) {
	query := `
		SELECT user_id, expires_at, created_at
		FROM sessions WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	session := &domain.Session{
		ID: id,
	}

	dst := []any{&session.UserID, &session.ExpiresAt, &session.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return session, nil
}

func (r *Repository) DeleteSession(id string) error {
	query := `
		DELETE FROM sessions WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}

// DeleteExpiredSessions removes sessions past their expiry. Expiry is also
// checked on every lookup, so this is housekeeping, not enforcement.
func (r *Repository) DeleteExpiredSessions() (int64, error) {
	query := `
		DELETE FROM sessions WHERE expires_at < NOW()
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
