package device

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, storeID, pinHash string) error
	FindByStore(ctx context.Context, storeID string) (*Device, error)

	CreateSession(ctx context.Context, storeID, tokenHash string, expiresAt time.Time) error
	// ValidateSession возвращает store_id действующей сессии или ErrNotFound
	ValidateSession(ctx context.Context, tokenHash string) (string, error)
	DeleteSessions(ctx context.Context, storeID string) error
}
