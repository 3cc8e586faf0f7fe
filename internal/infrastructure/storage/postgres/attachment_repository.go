package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"storeops/internal/domain/attachment"
)

type AttachmentRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewAttachmentRepository(pool *pgxpool.Pool, log *slog.Logger) *AttachmentRepository {
	return &AttachmentRepository{
		pool: pool,
		log:  log.With("component", "attachment_repository"),
	}
}

func (r *AttachmentRepository) Create(ctx context.Context, att *attachment.Attachment) error {
	const query = `
		INSERT INTO attachments (id, store_id, file_name, size, url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		att.ID, att.StoreID, att.FileName, att.Size, att.URL, att.CreatedAt)
	if err != nil {
		r.log.Error("failed to create attachment", "id", att.ID, "error", err)
		return fmt.Errorf("create attachment: %w", err)
	}
	return nil
}

func (r *AttachmentRepository) List(ctx context.Context, storeID string) ([]attachment.Attachment, error) {
	const query = `
		SELECT id, store_id, file_name, size, url, created_at
		FROM attachments
		WHERE store_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		r.log.Error("failed to list attachments", "store_id", storeID, "error", err)
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var atts []attachment.Attachment
	for rows.Next() {
		var att attachment.Attachment
		if err := rows.Scan(&att.ID, &att.StoreID, &att.FileName,
			&att.Size, &att.URL, &att.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		atts = append(atts, att)
	}
	return atts, rows.Err()
}
