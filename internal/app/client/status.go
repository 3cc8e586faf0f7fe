package client

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// QueueStatus снимок состояния очереди для UI
type QueueStatus struct {
	PendingCount  int       `json:"pending_count"`
	FailedCount   int       `json:"failed_count"`
	ConflictCount int       `json:"conflict_count"`
	Syncing       bool      `json:"syncing"`
	LastDrain     time.Time `json:"last_drain,omitempty"`
}

// StatusSurface — read-only проекция состояния очереди и синхронизации.
// Подписчики получают свежий снимок при каждой мутации хранилища или
// смене фазы оркестратора, без опроса.
type StatusSurface struct {
	store  *QueueStore
	syncer *Syncer
	log    *slog.Logger

	mu   sync.Mutex
	subs []chan QueueStatus
}

func NewStatusSurface(store *QueueStore, syncer *Syncer, log *slog.Logger) *StatusSurface {
	return &StatusSurface{store: store, syncer: syncer, log: log}
}

// Snapshot собирает текущее состояние очереди
func (s *StatusSurface) Snapshot() (*QueueStatus, error) {
	total, err := s.store.Count()
	if err != nil {
		return nil, err
	}
	failed, err := s.store.CountByStatus(StatusFailed)
	if err != nil {
		return nil, err
	}
	conflicts, err := s.store.ListConflicts()
	if err != nil {
		return nil, err
	}

	return &QueueStatus{
		// synced-элементы в хранилище не задерживаются, поэтому всё,
		// что лежит в очереди, считается ожидающим
		PendingCount:  total,
		FailedCount:   failed,
		ConflictCount: len(conflicts),
		Syncing:       s.syncer.IsDraining(),
		LastDrain:     s.syncer.LastDrain(),
	}, nil
}

// Subscribe возвращает канал снимков состояния
func (s *StatusSurface) Subscribe() <-chan QueueStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan QueueStatus, 16)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *StatusSurface) publish() {
	snapshot, err := s.Snapshot()
	if err != nil {
		s.log.Error("Ошибка сборки статуса очереди", "error", err)
		return
	}

	s.mu.Lock()
	subs := s.subs
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- *snapshot:
		default:
		}
	}
}

// Run транслирует события хранилища и оркестратора в снимки состояния
// до отмены контекста
func (s *StatusSurface) Run(ctx context.Context) {
	queueEvents := s.store.Subscribe()
	syncEvents := s.syncer.Subscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case <-queueEvents:
			s.publish()
		case <-syncEvents:
			s.publish()
		}
	}
}
