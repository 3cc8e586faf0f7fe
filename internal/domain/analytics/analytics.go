package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

var ErrInvalidInput = errors.New("invalid analytics event")

// Event аналитическое событие клиента. События best-effort: клиент
// игнорирует ошибки их доставки, сервер просто складывает их в журнал.
type Event struct {
	ID        string            `json:"id"`
	StoreID   string            `json:"store_id"`
	Name      string            `json:"name"`
	Fields    map[string]string `json:"fields,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, ev *Event) error
}

type Servicer interface {
	Record(ctx context.Context, storeID, name string, fields map[string]string) error
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) Servicer {
	return &Service{
		repo: repo,
		log:  log.With("component", "analytics_service"),
	}
}

func (s *Service) Record(ctx context.Context, storeID, name string, fields map[string]string) error {
	if name == "" {
		return fmt.Errorf("%w: empty event name", ErrInvalidInput)
	}

	ev := &Event{
		ID:        uuid.NewString(),
		StoreID:   storeID,
		Name:      name,
		Fields:    fields,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, ev); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}
