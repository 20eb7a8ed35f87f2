package repository

import (
	"context"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func (r *Repository) CreateActivityLog(entry *domain.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (entity, entity_id, actor_id, action, field, previous_value, new_value, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{entry.Entity, entry.EntityID, entry.ActorID, entry.Action, entry.Field, []byte(entry.PreviousValue), []byte(entry.NewValue), []byte(entry.Metadata)}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return err
	}

	return nil
}

// CreateActivityLogs inserts a batch of entries, one row per changed
// field, inside a single transaction.
func (r *Repository) CreateActivityLogs(entries []*domain.ActivityLog) error {
	if len(entries) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO activity_logs (entity, entity_id, actor_id, action, field, previous_value, new_value, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	for _, entry := range entries {
		args := []any{entry.Entity, entry.EntityID, entry.ActorID, entry.Action, entry.Field, []byte(entry.PreviousValue), []byte(entry.NewValue), []byte(entry.Metadata)}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetActivityLogs(entity domain.ActivityEntity, entityID int64) ([]*domain.ActivityLog, error) {
	query := `
		SELECT id, actor_id, action, field, previous_value, new_value, metadata, created_at
		FROM activity_logs
		WHERE entity = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, entity, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.ActivityLog, 0)
	for rows.Next() {
		entry := &domain.ActivityLog{
			Entity:   entity,
			EntityID: entityID,
		}
		var previous, next, metadata []byte
		dst := []any{&entry.ID, &entry.ActorID, &entry.Action, &entry.Field, &previous, &next, &metadata, &entry.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entry.PreviousValue = previous
		entry.NewValue = next
		entry.Metadata = metadata
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
