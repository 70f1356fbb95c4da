package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homegrid/backend/internal/models"
)

// ActivityLogRepo owns the append-only audit log of device actuations.
// Records are never updated or deleted.
type ActivityLogRepo struct {
	pool *pgxpool.Pool
}

func NewActivityLogRepo(pool *pgxpool.Pool) *ActivityLogRepo {
	return &ActivityLogRepo{pool: pool}
}

// Append persists one action record. The id is assigned by the sequence and
// the timestamp by the database clock, so insertion order and record ids agree.
func (r *ActivityLogRepo) Append(ctx context.Context, userID uuid.UUID, deviceName string, action models.Action) (*models.ActionRecord, error) {
	rec := models.ActionRecord{
		UserID:     userID,
		DeviceName: deviceName,
		Action:     action,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO activity_log (user_id, device_name, action)
		VALUES ($1, $2, $3)
		RETURNING id, timestamp
	`, userID, deviceName, string(action)).Scan(&rec.ID, &rec.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("append activity log: %w", err)
	}
	return &rec, nil
}

// List returns the most recent entries joined with the acting user's handle,
// newest first. Ties on timestamp are broken by id descending so the order is
// a deterministic total order even with coarse clock resolution.
func (r *ActivityLogRepo) List(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	if limit <= 0 || limit > 20 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT l.device_name, l.action, l.timestamp, u.username
		FROM activity_log l
		JOIN users u ON l.user_id = u.id
		ORDER BY l.timestamp DESC, l.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity log: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(&e.DeviceName, &e.Action, &e.Timestamp, &e.Username); err != nil {
			return nil, fmt.Errorf("list activity log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activity log: %w", err)
	}
	return entries, nil
}
