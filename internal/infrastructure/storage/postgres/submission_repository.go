package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"storeops/internal/domain/submission"
)

type SubmissionRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewSubmissionRepository(pool *pgxpool.Pool, log *slog.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		pool: pool,
		log:  log.With("component", "submission_repository"),
	}
}

func (r *SubmissionRepository) Create(ctx context.Context, sub *submission.Submission) error {
	const query = `
		INSERT INTO submissions (id, store_id, type, entity_key, payload, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		sub.ID, sub.StoreID, sub.Type, sub.EntityKey, sub.Payload, sub.Version, sub.CreatedAt)
	if err != nil {
		r.log.Error("failed to create submission", "id", sub.ID, "error", err)
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) Get(ctx context.Context, id string) (*submission.Submission, error) {
	const query = `
		SELECT id, store_id, type, entity_key, payload, version, created_at
		FROM submissions
		WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)

	sub, err := r.scanSubmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, submission.ErrNotFound
		}
		r.log.Error("failed to get submission", "id", id, "error", err)
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

func (r *SubmissionRepository) List(ctx context.Context, storeID string) ([]submission.Submission, error) {
	const query = `
		SELECT id, store_id, type, entity_key, payload, version, created_at
		FROM submissions
		WHERE store_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		r.log.Error("failed to list submissions", "store_id", storeID, "error", err)
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []submission.Submission
	for rows.Next() {
		sub, err := r.scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (r *SubmissionRepository) LatestByEntity(ctx context.Context, storeID string,
	typ submission.SubType, entityKey string) (*submission.Submission, error) {

	const query = `
		SELECT id, store_id, type, entity_key, payload, version, created_at
		FROM submissions
		WHERE store_id = $1 AND type = $2 AND entity_key = $3
		ORDER BY version DESC
		LIMIT 1`

	row := r.pool.QueryRow(ctx, query, storeID, typ, entityKey)

	sub, err := r.scanSubmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, submission.ErrNotFound
		}
		r.log.Error("failed to get latest submission",
			"store_id", storeID, "entity_key", entityKey, "error", err)
		return nil, fmt.Errorf("latest submission: %w", err)
	}
	return sub, nil
}

func (r *SubmissionRepository) scanSubmission(row pgx.Row) (*submission.Submission, error) {
	var sub submission.Submission
	err := row.Scan(&sub.ID, &sub.StoreID, &sub.Type, &sub.EntityKey,
		&sub.Payload, &sub.Version, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
