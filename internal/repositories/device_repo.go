package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homegrid/backend/internal/config"
)

// DeviceRepo mirrors the configured device allow-list into the devices table
// so the registry is visible alongside the audit log it explains.
type DeviceRepo struct {
	pool *pgxpool.Pool
}

func NewDeviceRepo(pool *pgxpool.Pool) *DeviceRepo {
	return &DeviceRepo{pool: pool}
}

// Sync upserts the configured devices and removes rows no longer configured.
func (r *DeviceRepo) Sync(ctx context.Context, devices []config.DeviceEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	names := make([]string, 0, len(devices))
	for _, d := range devices {
		names = append(names, d.TechnicalName)
		_, err := tx.Exec(ctx, `
			INSERT INTO devices (technical_name, display_name)
			VALUES ($1, $2)
			ON CONFLICT (technical_name) DO UPDATE SET
				display_name = EXCLUDED.display_name,
				updated_at = now()
		`, d.TechnicalName, d.DisplayName)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM devices WHERE technical_name != ALL($1)`, names); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
