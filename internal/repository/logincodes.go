package repository

import (
	"context"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func (r *Repository) CreateLoginCode(code *domain.LoginCode) error {
	query := `
		INSERT INTO login_codes (email, code_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, used, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{code.Email, code.CodeHash, code.ExpiresAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&code.ID, &code.Used, &code.CreatedAt); err != nil {
		return err
	}

	return nil
}

// GetActiveLoginCodes returns the unexpired, unused codes for an email,
// newest first. Several codes can be outstanding at once; each remains
// independently verifiable until its own expiry.
func (r *Repository) GetActiveLoginCodes(email string) ([]*domain.LoginCode, error) {
	query := `
		SELECT id, code_hash, used, expires_at, created_at
		FROM login_codes
		WHERE email = $1 AND used = FALSE AND expires_at > NOW()
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := make([]*domain.LoginCode, 0)
	for rows.Next() {
		code := &domain.LoginCode{
			Email: email,
		}
		dst := []any{&code.ID, &code.CodeHash, &code.Used, &code.ExpiresAt, &code.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return codes, nil
}

// MarkLoginCodeUsed flips the single-use marker. The row is kept so the
// login attempt stays in the audit trail. Returns sql.ErrNoRows when the
// code was already consumed.
func (r *Repository) MarkLoginCodeUsed(id int64) error {
	query := `
		UPDATE login_codes SET used = TRUE
		WHERE id = $1 AND used = FALSE
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var updated int64
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&updated); err != nil {
		return err
	}

	return nil
}
