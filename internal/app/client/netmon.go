package client

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// NetMonitor — единственный источник истины «доступна ли сеть».
// Периодически опрашивает health-эндпоинт бэкенда и публикует переходы
// online/offline. Повторное одинаковое состояние события не порождает.
type NetMonitor struct {
	probe    func(ctx context.Context) error
	interval time.Duration
	log      *slog.Logger

	mu     sync.RWMutex
	online bool
	known  bool
	subs   []chan bool
}

func NewNetMonitor(probe func(ctx context.Context) error, interval time.Duration, log *slog.Logger) *NetMonitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &NetMonitor{
		probe:    probe,
		interval: interval,
		log:      log,
	}
}

// Online возвращает текущее состояние сети
func (m *NetMonitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Subscribe возвращает канал переходов: true — появилась сеть, false — пропала
func (m *NetMonitor) Subscribe() <-chan bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan bool, 8)
	m.subs = append(m.subs, ch)
	return ch
}

// SetOnline фиксирует состояние сети. Событие публикуется ровно один раз
// на фактический переход: online→online дубликата не дает.
func (m *NetMonitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.known && m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	m.known = true
	subs := m.subs
	m.mu.Unlock()

	m.log.Info("Состояние сети изменилось", "online", online)

	for _, ch := range subs {
		select {
		case ch <- online:
		default:
		}
	}
}

// Run опрашивает бэкенд до отмены контекста. Первый опрос выполняется
// сразу, чтобы состояние было известно на старте приложения.
func (m *NetMonitor) Run(ctx context.Context) {
	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *NetMonitor) check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := m.probe(probeCtx)
	m.SetOnline(err == nil)
}
