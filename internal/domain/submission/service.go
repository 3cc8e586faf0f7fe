package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Submit(ctx context.Context, storeID string, typ SubType, entityKey string,
		baseVersion int64, payload json.RawMessage) (*Submission, error)
	Get(ctx context.Context, id string) (*Submission, error)
	List(ctx context.Context, storeID string) ([]Submission, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) Servicer {
	return &Service{
		repo: repo,
		log:  log.With("component", "submission_service"),
	}
}

// Submit принимает отправку и проверяет версию изменяемой сущности.
// Пустой entityKey означает сущность без истории (фотоотчет): версия
// не проверяется, каждая отправка независима.
func (s *Service) Submit(ctx context.Context, storeID string, typ SubType,
	entityKey string, baseVersion int64, payload json.RawMessage) (*Submission, error) {

	if !ValidType(typ) {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, typ)
	}
	if len(payload) == 0 || !json.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", ErrInvalidInput)
	}

	version := int64(1)
	if entityKey != "" {
		latest, err := s.repo.LatestByEntity(ctx, storeID, typ, entityKey)
		switch {
		case err == nil:
			if baseVersion != latest.Version {
				s.log.Info("submission conflict",
					"store_id", storeID, "type", typ, "entity_key", entityKey,
					"base_version", baseVersion, "current_version", latest.Version)
				return nil, &ConflictError{Current: latest}
			}
			version = latest.Version + 1
		case errors.Is(err, ErrNotFound):
			// Первая отправка для сущности
		default:
			return nil, fmt.Errorf("lookup latest version: %w", err)
		}
	}

	sub := &Submission{
		ID:        uuid.NewString(),
		StoreID:   storeID,
		Type:      typ,
		EntityKey: entityKey,
		Payload:   payload,
		Version:   version,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	s.log.Info("submission accepted",
		"id", sub.ID, "store_id", storeID, "type", typ, "version", version)
	return sub, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Submission, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, storeID string) ([]Submission, error) {
	subs, err := s.repo.List(ctx, storeID)
	if err != nil {
		s.log.Error("failed to list submissions", "store_id", storeID, "error", err)
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}
