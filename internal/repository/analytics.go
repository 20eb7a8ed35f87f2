package repository

import (
	"context"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func (r *Repository) CreateAnalyticsEvent(event *domain.AnalyticsEvent) error {
	query := `
		INSERT INTO analytics_events (type, job_id, ip_hash, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{event.Type, event.JobID, event.IPHash, []byte(event.Metadata)}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&event.ID, &event.CreatedAt); err != nil {
		return err
	}

	return nil
}

// GetDashboardStats aggregates read-side counters for the admin dashboard.
// Each aggregate is an independent query; the dashboard tolerates slight
// skew between them.
func (r *Repository) GetDashboardStats() (*domain.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	stats := &domain.DashboardStats{
		ApplicationsByStatus: make(map[domain.ApplicationStatus]int64),
		JobViews:             make(map[int64]int64),
		EventsByType:         make(map[domain.AnalyticsEventType]int64),
	}

	rows, err := r.dbpool.QueryContext(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status domain.ApplicationStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ApplicationsByStatus[status] = count
		stats.TotalApplications += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE is_active = TRUE`).Scan(&stats.ActiveJobs); err != nil {
		return nil, err
	}

	jobRows, err := r.dbpool.QueryContext(ctx, `SELECT id, view_count FROM jobs`)
	if err != nil {
		return nil, err
	}
	defer jobRows.Close()
	for jobRows.Next() {
		var id, views int64
		if err := jobRows.Scan(&id, &views); err != nil {
			return nil, err
		}
		stats.JobViews[id] = views
	}
	if err := jobRows.Err(); err != nil {
		return nil, err
	}

	eventRows, err := r.dbpool.QueryContext(ctx, `SELECT type, COUNT(*) FROM analytics_events GROUP BY type`)
	if err != nil {
		return nil, err
	}
	defer eventRows.Close()
	for eventRows.Next() {
		var eventType domain.AnalyticsEventType
		var count int64
		if err := eventRows.Scan(&eventType, &count); err != nil {
			return nil, err
		}
		stats.EventsByType[eventType] = count
	}
	if err := eventRows.Err(); err != nil {
		return nil, err
	}

	leadQuery := `
		SELECT COUNT(*), COALESCE(SUM(estimated_value_cents), 0)
		FROM sales_leads
		WHERE stage NOT IN ('won', 'lost')
	`
	if err := r.dbpool.QueryRowContext(ctx, leadQuery).Scan(&stats.OpenLeads, &stats.PipelineValueCents); err != nil {
		return nil, err
	}

	return stats, nil
}
