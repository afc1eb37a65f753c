package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sescandon/nevexp/internal/models"
)

// RecordEvent appends one notification lifecycle row. Safe on a nil receiver
// so callers never branch on whether recording is enabled.
func (d *DB) RecordEvent(ctx context.Context, r models.DeliveryRecord) error {
	if d == nil {
		return nil
	}
	query := `
        INSERT INTO notification_events (
            id, created_at, kind, tag, action, product_id, title, urgency
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := d.Pool.Exec(ctx, query,
		r.ID, r.CreatedAt, r.Kind, r.Tag, r.Action, r.ProductID, r.Title, string(r.Urgency))
	if err != nil {
		return fmt.Errorf("failed to record notification event: %w", err)
	}
	return nil
}

// RecentEvents returns the latest lifecycle rows, newest first.
func (d *DB) RecentEvents(ctx context.Context, limit int) ([]models.DeliveryRecord, error) {
	if d == nil {
		return nil, nil
	}
	query := `
        SELECT id, created_at, kind, tag, action, product_id, title, urgency
        FROM notification_events
        ORDER BY created_at DESC
        LIMIT $1`
	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification events: %w", err)
	}
	defer rows.Close()

	var records []models.DeliveryRecord
	for rows.Next() {
		var r models.DeliveryRecord
		var id pgtype.UUID
		var urgency string
		err := rows.Scan(&id, &r.CreatedAt, &r.Kind, &r.Tag, &r.Action, &r.ProductID, &r.Title, &urgency)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification event: %w", err)
		}
		r.ID = id.Bytes
		r.Urgency = models.UrgencyLevel(urgency)
		records = append(records, r)
	}

	return records, nil
}
