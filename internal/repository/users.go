package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func (r *Repository) GetUserByID(id int64) (*domain.AdminUser, error) {
	query := `
		SELECT email, display_name, permissions, last_login_at, created_at, version
		FROM admin_users WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.AdminUser{
		ID: id,
	}

	var permissions []byte
	dst := []any{&user.Email, &user.DisplayName, &permissions, &user.LastLoginAt, &user.CreatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(permissions, &user.Permissions); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByEmail(email string) (*domain.AdminUser, error) {
	query := `
		SELECT id, display_name, permissions, last_login_at, created_at, version
		FROM admin_users WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.AdminUser{
		Email: email,
	}

	var permissions []byte
	dst := []any{&user.ID, &user.DisplayName, &permissions, &user.LastLoginAt, &user.CreatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(dst...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(permissions, &user.Permissions); err != nil {
		return nil, err
	}

	return user, nil
}

// CreateUserWithBootstrap inserts the user inside a transaction that also
// claims the single-row bootstrap marker. Exactly one caller ever wins the
// marker; that user is granted the full permission set. The returned bool
// reports whether this insert was the bootstrap one.
func (r *Repository) CreateUserWithBootstrap(user *domain.AdminUser) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO bootstrap_marker (id) VALUES (1) ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return false, err
	}
	claimed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	bootstrapped := claimed == 1
	if bootstrapped {
		user.Permissions = domain.AllPermissions()
	} else if user.Permissions == nil {
		user.Permissions = domain.PermissionSet{}
	}

	permissions, err := json.Marshal(user.Permissions)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO admin_users (email, display_name, permissions)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	args := []any{user.Email, user.DisplayName, permissions}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.Version); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	return bootstrapped, nil
}

func (r *Repository) UpdateUserPermissions(user *domain.AdminUser) error {
	permissions, err := json.Marshal(user.Permissions)
	if err != nil {
		return err
	}

	query := `
		UPDATE admin_users
		SET
			permissions = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, permissions, user.ID, user.Version).Scan(&user.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) TouchUserLastLogin(id int64) error {
	query := `
		UPDATE admin_users SET last_login_at = NOW() WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}

func (r *Repository) GetAllUsers() ([]*domain.AdminUser, error) {
	query := `
		SELECT id, email, display_name, permissions, last_login_at, created_at, version
		FROM admin_users ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.AdminUser, 0)
	for rows.Next() {
		user := &domain.AdminUser{}
		var permissions []byte
		dst := []any{&user.ID, &user.Email, &user.DisplayName, &permissions, &user.LastLoginAt, &user.CreatedAt, &user.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(permissions, &user.Permissions); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) DeleteUser(id int64) error {
	query := `
		DELETE FROM admin_users WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}
