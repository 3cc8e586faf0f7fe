package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

const (
	// maxAttempts — предел автоматических попыток; дальше только
	// ручной retry или удаление
	maxAttempts = 5

	errMaxRetries = "превышено максимальное число попыток"
)

// backoffDelays — требуемая задержка после k-й попытки (1-индексация);
// для попыток за пределами таблицы действует последнее значение
var backoffDelays = []time.Duration{
	5 * time.Second,
	15 * time.Second,
	30 * time.Second,
	60 * time.Second,
	120 * time.Second,
}

// backoffDelay возвращает задержку после attempts выполненных попыток
func backoffDelay(attempts int) time.Duration {
	if attempts <= 0 {
		return 0
	}
	if attempts > len(backoffDelays) {
		return backoffDelays[len(backoffDelays)-1]
	}
	return backoffDelays[attempts-1]
}

var errSessionExpired = errors.New("сессия устройства недействительна")

// SyncEventKind вид события синхронизации
type SyncEventKind string

const (
	DrainStarted  SyncEventKind = "drain_started"
	DrainFinished SyncEventKind = "drain_finished"
	ItemSynced    SyncEventKind = "item_synced"
	ItemFailed    SyncEventKind = "item_failed"
)

// SyncEvent событие оркестратора для подписчиков (статусная панель, UI)
type SyncEvent struct {
	Kind   SyncEventKind
	ItemID string
}

// Syncer — оркестратор синхронизации. Разгружает очередь, когда позволяют
// условия: применяет backoff, классифицирует ошибки и отводит неразрешимые
// элементы в конфликты. Одновременно активен не более одного прохода.
type Syncer struct {
	store    *QueueStore
	uploader *Uploader
	monitor  *NetMonitor
	log      *slog.Logger
	interval time.Duration
	onLogout func()
	now      func() time.Time

	mu         sync.Mutex
	isDraining bool
	lastDrain  time.Time
	subs       []chan SyncEvent
}

func NewSyncer(store *QueueStore, uploader *Uploader, monitor *NetMonitor,
	interval time.Duration, onLogout func(), log *slog.Logger) *Syncer {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Syncer{
		store:    store,
		uploader: uploader,
		monitor:  monitor,
		interval: interval,
		onLogout: onLogout,
		log:      log,
		now:      time.Now,
	}
}

// Subscribe возвращает канал событий синхронизации
func (s *Syncer) Subscribe() <-chan SyncEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan SyncEvent, 64)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Syncer) emit(ev SyncEvent) {
	s.mu.Lock()
	subs := s.subs
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// IsDraining сообщает, идет ли проход синхронизации
func (s *Syncer) IsDraining() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isDraining
}

// LastDrain возвращает время последнего полностью успешного прохода
func (s *Syncer) LastDrain() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDrain
}

// Run запускает оркестратор до отмены контекста. Триггеры прохода:
// старт приложения, переход сети в online, постановка нового элемента,
// периодический таймер.
func (s *Syncer) Run(ctx context.Context) {
	queueEvents := s.store.Subscribe()
	transitions := s.monitor.Subscribe()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Проход на старте: в очереди могли остаться элементы с прошлого запуска
	if err := s.Drain(ctx); err != nil {
		s.log.Error("Ошибка прохода синхронизации", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-queueEvents:
			if ev.Kind != EventEnqueued {
				continue
			}
			if err := s.Drain(ctx); err != nil {
				s.log.Error("Ошибка прохода синхронизации", "error", err)
			}
		case online := <-transitions:
			if !online {
				continue
			}
			if err := s.Drain(ctx); err != nil {
				s.log.Error("Ошибка прохода синхронизации", "error", err)
			}
		case <-ticker.C:
			if err := s.Drain(ctx); err != nil {
				s.log.Error("Ошибка прохода синхронизации", "error", err)
			}
		}
	}
}

// Drain выполняет один проход по очереди в порядке создания элементов.
// Повторный вызов во время активного прохода — no-op, второй параллельный
// проход не запускается никогда.
func (s *Syncer) Drain(ctx context.Context) error {
	s.mu.Lock()
	if s.isDraining {
		s.mu.Unlock()
		return nil
	}
	s.isDraining = true
	s.mu.Unlock()

	// Флаг снимается ровно один раз, даже если обработка элемента паникует
	defer func() {
		s.mu.Lock()
		s.isDraining = false
		s.mu.Unlock()
		s.emit(SyncEvent{Kind: DrainFinished})
	}()

	s.emit(SyncEvent{Kind: DrainStarted})

	if !s.monitor.Online() {
		return nil
	}

	items, err := s.eligible()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		s.finishPass(true)
		return nil
	}

	s.log.Info("Начало прохода синхронизации", "eligible", len(items))

	failures := 0
	for _, item := range items {
		if !s.monitor.Online() {
			// Сеть пропала посреди прохода — просто перестаем продвигаться
			return nil
		}

		if item.Attempts >= maxAttempts {
			// Терминальный отказ: элемент больше не подбирается автоматически
			if item.Error != errMaxRetries {
				if err := s.store.MarkFailed(item.ID, errMaxRetries, ""); err != nil {
					s.log.Error("Ошибка фиксации отказа", "item_id", item.ID, "error", err)
				}
				s.emit(SyncEvent{Kind: ItemFailed, ItemID: item.ID})
			}
			failures++
			continue
		}

		if item.Attempts > 0 {
			required := backoffDelay(item.Attempts)
			if s.now().Sub(item.LastAttempt) < required {
				// Рано: элемент подождет следующего прохода
				continue
			}
		}

		if err := s.processItem(ctx, item); err != nil {
			failures++
			if errors.Is(err, errSessionExpired) {
				// Глобальный logout: продолжать проход с мертвой сессией бессмысленно
				return err
			}
		}
	}

	s.finishPass(failures == 0)
	return nil
}

// eligible выбирает элементы для прохода: pending всегда, failed — только
// при transient-ошибке (конфликты, валидация, квоты и исчерпанные попытки
// ждут действий пользователя)
func (s *Syncer) eligible() ([]*QueueItem, error) {
	all, err := s.store.ListAll()
	if err != nil {
		return nil, err
	}

	var items []*QueueItem
	for _, item := range all {
		switch item.Status {
		case StatusPending:
			items = append(items, item)
		case StatusFailed:
			if item.ErrorClass == ClassTransient {
				items = append(items, item)
			}
		}
	}

	return items, nil
}

func (s *Syncer) processItem(ctx context.Context, item *QueueItem) error {
	if err := s.store.UpdateStatus(item.ID, StatusSyncing, ""); err != nil {
		return err
	}
	if err := s.store.IncrementAttempts(item.ID); err != nil {
		return err
	}

	recordID, err := s.uploader.Upload(ctx, item)
	if err == nil {
		// Успех: synced-элементы не хранятся, запись сразу удаляется
		if err := s.store.Remove(item.ID); err != nil {
			return err
		}
		s.log.Info("Отправка синхронизирована",
			"item_id", item.ID, "type", item.Type, "record_id", recordID)
		s.emit(SyncEvent{Kind: ItemSynced, ItemID: item.ID})
		return nil
	}

	ue := AsUploadError(err)
	s.log.Warn("Ошибка отправки",
		"item_id", item.ID, "class", ue.Class, "error", ue.Message)

	switch ue.Class {
	case ClassAuth:
		if merr := s.store.MarkFailed(item.ID, ue.Message, ClassAuth); merr != nil {
			s.log.Error("Ошибка фиксации отказа", "item_id", item.ID, "error", merr)
		}
		s.emit(SyncEvent{Kind: ItemFailed, ItemID: item.ID})
		if s.onLogout != nil {
			s.onLogout()
		}
		return errSessionExpired

	case ClassConflict:
		serverCopy := ue.ServerCopy
		if len(serverCopy) == 0 {
			serverCopy = json.RawMessage("null")
		}
		conflict := &SyncConflict{
			ItemID:        item.ID,
			Type:          item.Type,
			LocalVersion:  item.Payload,
			ServerVersion: serverCopy,
			CreatedAt:     s.now(),
		}
		if cerr := s.store.SaveConflict(conflict); cerr != nil {
			s.log.Error("Ошибка сохранения конфликта", "item_id", item.ID, "error", cerr)
		}
		if merr := s.store.MarkFailed(item.ID, ue.Message, ClassConflict); merr != nil {
			s.log.Error("Ошибка фиксации отказа", "item_id", item.ID, "error", merr)
		}
		s.emit(SyncEvent{Kind: ItemFailed, ItemID: item.ID})
		return ue

	default:
		// validation, quota — ждут пользователя; transient — подберется
		// следующим проходом по таблице backoff
		if merr := s.store.MarkFailed(item.ID, ue.Message, ue.Class); merr != nil {
			s.log.Error("Ошибка фиксации отказа", "item_id", item.ID, "error", merr)
		}
		s.emit(SyncEvent{Kind: ItemFailed, ItemID: item.ID})
		return ue
	}
}

func (s *Syncer) finishPass(clean bool) {
	if !clean {
		return
	}
	s.mu.Lock()
	s.lastDrain = s.now()
	s.mu.Unlock()
}

// RetryItem возвращает отказавший элемент в pending и сразу запускает проход.
// Ручной повтор не ждет backoff, а элементу с исчерпанными попытками дает
// еще одну попытку.
func (s *Syncer) RetryItem(ctx context.Context, id string) error {
	item, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if item.Status != StatusFailed {
		return errors.New("повторить можно только отправку со статусом failed")
	}

	if err := s.store.ResetForRetry(id); err != nil {
		return err
	}

	return s.Drain(ctx)
}

// DeleteItem удаляет отправку и связанный с ней конфликт
func (s *Syncer) DeleteItem(id string) error {
	if err := s.store.DeleteConflict(id); err != nil {
		return err
	}
	return s.store.Remove(id)
}
