package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"storeops/internal/domain/device"
)

type DeviceRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewDeviceRepository(pool *pgxpool.Pool, log *slog.Logger) *DeviceRepository {
	return &DeviceRepository{
		pool: pool,
		log:  log.With("component", "device_repository"),
	}
}

func (r *DeviceRepository) Create(ctx context.Context, storeID, pinHash string) error {
	const query = `
		INSERT INTO devices (store_id, pin_hash)
		VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, storeID, pinHash)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return device.ErrExists
		}
		r.log.Error("failed to create device", "store_id", storeID, "error", err)
		return fmt.Errorf("create device: %w", err)
	}
	return nil
}

func (r *DeviceRepository) FindByStore(ctx context.Context, storeID string) (*device.Device, error) {
	const query = `
		SELECT store_id, pin_hash, created_at
		FROM devices
		WHERE store_id = $1`

	var dev device.Device
	err := r.pool.QueryRow(ctx, query, storeID).
		Scan(&dev.StoreID, &dev.PINHash, &dev.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, device.ErrNotFound
		}
		r.log.Error("failed to find device", "store_id", storeID, "error", err)
		return nil, fmt.Errorf("find device: %w", err)
	}
	return &dev, nil
}

func (r *DeviceRepository) CreateSession(ctx context.Context, storeID, tokenHash string, expiresAt time.Time) error {
	const query = `
		INSERT INTO device_sessions (store_id, token_hash, expires_at)
		VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, storeID, tokenHash, expiresAt)
	if err != nil {
		r.log.Error("failed to create session", "store_id", storeID, "error", err)
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *DeviceRepository) ValidateSession(ctx context.Context, tokenHash string) (string, error) {
	const query = `
		SELECT store_id
		FROM device_sessions
		WHERE token_hash = $1 AND expires_at > now()`

	var storeID string
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(&storeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", device.ErrNotFound
		}
		r.log.Error("failed to validate session", "error", err)
		return "", fmt.Errorf("validate session: %w", err)
	}
	return storeID, nil
}

func (r *DeviceRepository) DeleteSessions(ctx context.Context, storeID string) error {
	const query = `DELETE FROM device_sessions WHERE store_id = $1`

	_, err := r.pool.Exec(ctx, query, storeID)
	if err != nil {
		r.log.Error("failed to delete sessions", "store_id", storeID, "error", err)
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}
