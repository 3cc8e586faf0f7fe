package submission

import (
	"context"
)

// Repository хранилище принятых отправок
type Repository interface {
	Create(ctx context.Context, sub *Submission) error
	Get(ctx context.Context, id string) (*Submission, error)
	List(ctx context.Context, storeID string) ([]Submission, error)

	// LatestByEntity возвращает последнюю принятую отправку для сущности
	// или ErrNotFound, если сущность еще не отправлялась
	LatestByEntity(ctx context.Context, storeID string, typ SubType, entityKey string) (*Submission, error)
}
