package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"storeops/internal/domain/analytics"
)

type AnalyticsRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewAnalyticsRepository(pool *pgxpool.Pool, log *slog.Logger) *AnalyticsRepository {
	return &AnalyticsRepository{
		pool: pool,
		log:  log.With("component", "analytics_repository"),
	}
}

func (r *AnalyticsRepository) Create(ctx context.Context, ev *analytics.Event) error {
	fields, err := json.Marshal(ev.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	const query = `
		INSERT INTO analytics_events (id, store_id, name, fields, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.pool.Exec(ctx, query, ev.ID, ev.StoreID, ev.Name, fields, ev.CreatedAt)
	if err != nil {
		r.log.Error("failed to create analytics event", "name", ev.Name, "error", err)
		return fmt.Errorf("create analytics event: %w", err)
	}
	return nil
}
