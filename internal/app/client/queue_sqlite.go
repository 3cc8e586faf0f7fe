package client

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"
)

// QueueEventKind вид события очереди
type QueueEventKind string

const (
	EventEnqueued QueueEventKind = "enqueued"
	EventUpdated  QueueEventKind = "updated"
	EventRemoved  QueueEventKind = "removed"
	EventCleared  QueueEventKind = "cleared"
)

// QueueEvent событие изменения очереди. Хранилище публикует события,
// подписчики (оркестратор, статусная панель) реагируют — без ленивых
// импортов и циклических зависимостей.
type QueueEvent struct {
	Kind   QueueEventKind
	ItemID string
}

// QueueStore — долговременное хранилище отложенных отправок и конфликтов.
// Каждая мутация фиксируется в SQLite до возврата из вызова: после
// завершения операции данные переживают аварийное завершение процесса.
type QueueStore struct {
	db  *sql.DB
	log *slog.Logger

	mu   sync.Mutex
	subs []chan QueueEvent
}

func NewQueueStore(path string, log *slog.Logger) (*QueueStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_sync=full")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	store := &QueueStore{db: db, log: log}

	if err := store.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return store, nil
}

func (s *QueueStore) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS queue_items (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			payload BLOB NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			attempts INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			last_attempt INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			error_class TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_queue_status ON queue_items(status);
		CREATE INDEX IF NOT EXISTS idx_queue_type ON queue_items(type);
		CREATE INDEX IF NOT EXISTS idx_queue_created ON queue_items(created_at);

		CREATE TABLE IF NOT EXISTS sync_conflicts (
			item_id TEXT PRIMARY KEY REFERENCES queue_items(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			local_version BLOB NOT NULL,
			server_version BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);
	`)

	return err
}

// Subscribe возвращает канал событий очереди. Доставка не блокирует
// мутации: если подписчик не успевает читать, событие отбрасывается.
func (s *QueueStore) Subscribe() <-chan QueueEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan QueueEvent, 64)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *QueueStore) notify(ev QueueEvent) {
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

// Enqueue добавляет новую отправку со статусом pending и attempts=0.
// Идентификатор присваивается здесь и не меняется до конца жизни элемента.
func (s *QueueStore) Enqueue(t ItemType, payload json.RawMessage) (*QueueItem, error) {
	if !ValidType(t) {
		return nil, fmt.Errorf("неизвестный тип отправки: %s", t)
	}
	if !json.Valid(payload) {
		return nil, fmt.Errorf("payload не является корректным JSON")
	}

	item := &QueueItem{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Status:    StatusPending,
		Attempts:  0,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(`
		INSERT INTO queue_items (id, type, payload, status, attempts, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, item.ID, item.Type, []byte(item.Payload), item.Status, item.Attempts,
		item.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения отправки: %w", err)
	}

	s.notify(QueueEvent{Kind: EventEnqueued, ItemID: item.ID})
	return item, nil
}

// UpdateStatus меняет статус и текст ошибки, фиксируя время последней попытки.
// Класс ошибки при этом сбрасывается — для failed-статусов с классификацией
// используется MarkFailed.
func (s *QueueStore) UpdateStatus(id string, status ItemStatus, errText string) error {
	res, err := s.db.Exec(`
		UPDATE queue_items SET status = ?, error = ?, error_class = '', last_attempt = ? WHERE id = ?
	`, status, errText, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка проверки обновления: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("отправка не найдена: %s", id)
	}

	s.notify(QueueEvent{Kind: EventUpdated, ItemID: id})
	return nil
}

// MarkFailed переводит отправку в failed с текстом и классом ошибки.
// Класс определяет, будет ли элемент подобран следующим проходом
// автоматически (transient) или ждет действий пользователя.
func (s *QueueStore) MarkFailed(id string, errText string, class ErrorClass) error {
	res, err := s.db.Exec(`
		UPDATE queue_items SET status = ?, error = ?, error_class = ?, last_attempt = ? WHERE id = ?
	`, StatusFailed, errText, class, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка проверки обновления: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("отправка не найдена: %s", id)
	}

	s.notify(QueueEvent{Kind: EventUpdated, ItemID: id})
	return nil
}

// IncrementAttempts увеличивает счетчик попыток. Счетчик никогда не убывает.
func (s *QueueStore) IncrementAttempts(id string) error {
	res, err := s.db.Exec(`
		UPDATE queue_items SET attempts = attempts + 1, last_attempt = ? WHERE id = ?
	`, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("ошибка увеличения счетчика попыток: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка проверки обновления: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("отправка не найдена: %s", id)
	}

	s.notify(QueueEvent{Kind: EventUpdated, ItemID: id})
	return nil
}

// RequeueWithPayload заменяет payload, сбрасывает статус в pending и очищает
// ошибку. Используется при разрешении конфликтов: счетчик попыток сохраняется.
func (s *QueueStore) RequeueWithPayload(id string, payload json.RawMessage) error {
	if !json.Valid(payload) {
		return fmt.Errorf("payload не является корректным JSON")
	}

	res, err := s.db.Exec(`
		UPDATE queue_items SET payload = ?, status = ?, error = '', error_class = '' WHERE id = ?
	`, []byte(payload), StatusPending, id)
	if err != nil {
		return fmt.Errorf("ошибка замены payload: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка проверки обновления: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("отправка не найдена: %s", id)
	}

	s.notify(QueueEvent{Kind: EventUpdated, ItemID: id})
	return nil
}

// ResetForRetry готовит отправку к ручному повтору: статус pending, ошибка
// и метка последней попытки сброшены, счетчик попыток урезан так, чтобы
// у исчерпанного элемента оставалась одна автоматическая попытка.
func (s *QueueStore) ResetForRetry(id string) error {
	res, err := s.db.Exec(`
		UPDATE queue_items
		SET status = ?, error = '', error_class = '', last_attempt = 0,
			attempts = MIN(attempts, ?)
		WHERE id = ?
	`, StatusPending, maxAttempts-1, id)
	if err != nil {
		return fmt.Errorf("ошибка сброса для повтора: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка проверки обновления: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("отправка не найдена: %s", id)
	}

	s.notify(QueueEvent{Kind: EventUpdated, ItemID: id})
	return nil
}

// Remove удаляет отправку навсегда: после успешной синхронизации
// или по явному действию пользователя.
func (s *QueueStore) Remove(id string) error {
	_, err := s.db.Exec("DELETE FROM queue_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("ошибка удаления отправки: %w", err)
	}

	s.notify(QueueEvent{Kind: EventRemoved, ItemID: id})
	return nil
}

// Get возвращает отправку по идентификатору
func (s *QueueStore) Get(id string) (*QueueItem, error) {
	row := s.db.QueryRow(`
		SELECT id, type, payload, status, attempts, created_at, last_attempt, error, error_class
		FROM queue_items WHERE id = ?
	`, id)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("отправка не найдена: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения отправки: %w", err)
	}

	return item, nil
}

// ListAll возвращает все отправки в порядке создания (FIFO)
func (s *QueueStore) ListAll() ([]*QueueItem, error) {
	return s.list("SELECT id, type, payload, status, attempts, created_at, last_attempt, error, error_class FROM queue_items ORDER BY created_at ASC, rowid ASC")
}

// ListByStatus возвращает отправки с указанным статусом в порядке создания
func (s *QueueStore) ListByStatus(status ItemStatus) ([]*QueueItem, error) {
	return s.list("SELECT id, type, payload, status, attempts, created_at, last_attempt, error, error_class FROM queue_items WHERE status = ? ORDER BY created_at ASC, rowid ASC", status)
}

// ListByType возвращает отправки указанного типа в порядке создания
func (s *QueueStore) ListByType(t ItemType) ([]*QueueItem, error) {
	return s.list("SELECT id, type, payload, status, attempts, created_at, last_attempt, error, error_class FROM queue_items WHERE type = ? ORDER BY created_at ASC, rowid ASC", t)
}

func (s *QueueStore) list(query string, args ...interface{}) ([]*QueueItem, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	var items []*QueueItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования отправки: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*QueueItem, error) {
	var item QueueItem
	var payload []byte
	var createdAt, lastAttempt int64

	if err := row.Scan(&item.ID, &item.Type, &payload, &item.Status,
		&item.Attempts, &createdAt, &lastAttempt, &item.Error, &item.ErrorClass); err != nil {
		return nil, err
	}

	item.Payload = json.RawMessage(payload)
	item.CreatedAt = time.UnixMilli(createdAt)
	if lastAttempt > 0 {
		item.LastAttempt = time.UnixMilli(lastAttempt)
	}

	return &item, nil
}

// Clear удаляет все отправки и конфликты. Необратимо, только по явному
// действию пользователя «очистить офлайн-данные».
func (s *QueueStore) Clear() (int, error) {
	if _, err := s.db.Exec("DELETE FROM sync_conflicts"); err != nil {
		return 0, fmt.Errorf("ошибка очистки конфликтов: %w", err)
	}

	res, err := s.db.Exec("DELETE FROM queue_items")
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки очереди: %w", err)
	}

	affected, _ := res.RowsAffected()
	s.log.Warn("Очередь офлайн-отправок очищена", "removed", affected)

	s.notify(QueueEvent{Kind: EventCleared})
	return int(affected), nil
}

// Count возвращает количество неразрешенных отправок
func (s *QueueStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM queue_items").Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчета отправок: %w", err)
	}
	return count, nil
}

// CountByStatus возвращает количество отправок с указанным статусом
func (s *QueueStore) CountByStatus(status ItemStatus) (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM queue_items WHERE status = ?", status).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчета отправок: %w", err)
	}
	return count, nil
}

// SaveConflict сохраняет конфликт для элемента очереди
func (s *QueueStore) SaveConflict(c *SyncConflict) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_conflicts (item_id, type, local_version, server_version, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET
			local_version = excluded.local_version,
			server_version = excluded.server_version,
			created_at = excluded.created_at
	`, c.ItemID, c.Type, []byte(c.LocalVersion), []byte(c.ServerVersion),
		c.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("ошибка сохранения конфликта: %w", err)
	}

	s.notify(QueueEvent{Kind: EventUpdated, ItemID: c.ItemID})
	return nil
}

// GetConflict возвращает конфликт для элемента очереди
func (s *QueueStore) GetConflict(itemID string) (*SyncConflict, error) {
	var c SyncConflict
	var local, server []byte
	var createdAt int64

	err := s.db.QueryRow(`
		SELECT item_id, type, local_version, server_version, created_at
		FROM sync_conflicts WHERE item_id = ?
	`, itemID).Scan(&c.ItemID, &c.Type, &local, &server, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("конфликт не найден: %s", itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфликта: %w", err)
	}

	c.LocalVersion = json.RawMessage(local)
	c.ServerVersion = json.RawMessage(server)
	c.CreatedAt = time.UnixMilli(createdAt)
	return &c, nil
}

// ListConflicts возвращает конфликты в стабильном порядке обнаружения
func (s *QueueStore) ListConflicts() ([]*SyncConflict, error) {
	rows, err := s.db.Query(`
		SELECT item_id, type, local_version, server_version, created_at
		FROM sync_conflicts ORDER BY created_at ASC, item_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	var conflicts []*SyncConflict
	for rows.Next() {
		var c SyncConflict
		var local, server []byte
		var createdAt int64

		if err := rows.Scan(&c.ItemID, &c.Type, &local, &server, &createdAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования конфликта: %w", err)
		}

		c.LocalVersion = json.RawMessage(local)
		c.ServerVersion = json.RawMessage(server)
		c.CreatedAt = time.UnixMilli(createdAt)
		conflicts = append(conflicts, &c)
	}

	return conflicts, rows.Err()
}

// DeleteConflict удаляет конфликт после разрешения
func (s *QueueStore) DeleteConflict(itemID string) error {
	_, err := s.db.Exec("DELETE FROM sync_conflicts WHERE item_id = ?", itemID)
	if err != nil {
		return fmt.Errorf("ошибка удаления конфликта: %w", err)
	}

	s.notify(QueueEvent{Kind: EventUpdated, ItemID: itemID})
	return nil
}

func (s *QueueStore) Close() error {
	return s.db.Close()
}
