package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/exp/slog"
)

// ConflictResolver дает пользователю выбрать авторитетную версию, когда
// локальное и серверное состояние одной сущности разошлись. Содержимое
// версий для резолвера непрозрачно — семантической интерпретации нет.
type ConflictResolver struct {
	store *QueueStore
	log   *slog.Logger
}

func NewConflictResolver(store *QueueStore, log *slog.Logger) *ConflictResolver {
	return &ConflictResolver{store: store, log: log}
}

// List возвращает неразрешенные конфликты в стабильном порядке обнаружения.
// Конфликты разрешаются по одному; пропуск оставляет элемент очереди
// в статусе failed нетронутым.
func (r *ConflictResolver) List() ([]*SyncConflict, error) {
	return r.store.ListConflicts()
}

// Get возвращает конфликт для элемента очереди
func (r *ConflictResolver) Get(itemID string) (*SyncConflict, error) {
	return r.store.GetConflict(itemID)
}

// Resolve применяет выбранное разрешение: payload элемента заменяется
// выбранной версией, статус сбрасывается в pending, ошибка очищается,
// запись о конфликте удаляется.
func (r *ConflictResolver) Resolve(itemID string, res Resolution, merged json.RawMessage) error {
	conflict, err := r.store.GetConflict(itemID)
	if err != nil {
		return err
	}

	var payload json.RawMessage
	switch res {
	case ResolutionLocal:
		payload = conflict.LocalVersion
	case ResolutionServer:
		// Сервер мог не прислать свою версию: тогда она хранится как null
		// и отправлять ее нечего
		if isNullJSON(conflict.ServerVersion) {
			return fmt.Errorf("серверная версия в конфликте отсутствует, выберите local или merge")
		}
		payload = conflict.ServerVersion
	case ResolutionMerge:
		// Проверяем только синтаксическую корректность
		if len(merged) == 0 || !json.Valid(merged) {
			return fmt.Errorf("объединенный payload не является корректным JSON")
		}
		payload = merged
	default:
		return fmt.Errorf("неизвестный способ разрешения конфликта: %s", res)
	}

	if err := r.store.RequeueWithPayload(itemID, payload); err != nil {
		return err
	}
	if err := r.store.DeleteConflict(itemID); err != nil {
		return err
	}

	r.log.Info("Конфликт разрешен",
		"item_id", itemID, "resolution", res)
	return nil
}

func isNullJSON(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
