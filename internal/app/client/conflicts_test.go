package client

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func seedConflict(t *testing.T, store *QueueStore) *QueueItem {
	t.Helper()

	payload, _ := json.Marshal(&ChecklistPayload{ChecklistName: "Открытие", BaseVersion: 3})
	item, err := store.Enqueue(TypeChecklist, payload)
	if err != nil {
		t.Fatalf("Ошибка постановки в очередь: %v", err)
	}

	if err := store.MarkFailed(item.ID, "conflict: entity changed on server", ClassConflict); err != nil {
		t.Fatalf("Ошибка фиксации отказа: %v", err)
	}
	conflict := &SyncConflict{
		ItemID:        item.ID,
		Type:          item.Type,
		LocalVersion:  item.Payload,
		ServerVersion: json.RawMessage(`{"checklist_name":"Открытие","base_version":7}`),
		CreatedAt:     time.Now(),
	}
	if err := store.SaveConflict(conflict); err != nil {
		t.Fatalf("Ошибка сохранения конфликта: %v", err)
	}

	return item
}

func TestConflictResolver_ResolveLocal(t *testing.T) {
	store, _ := newTestStore(t)
	r := NewConflictResolver(store, testLogger())

	item := seedConflict(t, store)

	if err := r.Resolve(item.ID, ResolutionLocal, nil); err != nil {
		t.Fatalf("Ошибка разрешения конфликта: %v", err)
	}

	got, _ := store.Get(item.ID)
	if got.Status != StatusPending {
		t.Errorf("Ожидался статус pending, получен: %s", got.Status)
	}
	if got.Error != "" || got.ErrorClass != "" {
		t.Errorf("Ошибка должна быть очищена: %q/%q", got.Error, got.ErrorClass)
	}
	if string(got.Payload) != string(item.Payload) {
		t.Errorf("Локальная версия должна сохраниться: %s", got.Payload)
	}

	if _, err := store.GetConflict(item.ID); err == nil {
		t.Error("Запись о конфликте должна быть удалена")
	}
}

func TestConflictResolver_ResolveServer(t *testing.T) {
	store, _ := newTestStore(t)
	r := NewConflictResolver(store, testLogger())

	item := seedConflict(t, store)

	if err := r.Resolve(item.ID, ResolutionServer, nil); err != nil {
		t.Fatalf("Ошибка разрешения конфликта: %v", err)
	}

	got, _ := store.Get(item.ID)
	if string(got.Payload) != `{"checklist_name":"Открытие","base_version":7}` {
		t.Errorf("Payload должен стать серверной версией: %s", got.Payload)
	}
}

func TestConflictResolver_ResolveMerge(t *testing.T) {
	store, _ := newTestStore(t)
	r := NewConflictResolver(store, testLogger())

	item := seedConflict(t, store)

	merged := json.RawMessage(`{"checklist_name":"Открытие","base_version":7,"comment":"объединено"}`)
	if err := r.Resolve(item.ID, ResolutionMerge, merged); err != nil {
		t.Fatalf("Ошибка разрешения конфликта: %v", err)
	}

	got, _ := store.Get(item.ID)
	if string(got.Payload) != string(merged) {
		t.Errorf("Payload должен стать объединенной версией: %s", got.Payload)
	}

	t.Run("InvalidMerge", func(t *testing.T) {
		other := seedConflict(t, store)

		if err := r.Resolve(other.ID, ResolutionMerge, json.RawMessage(`{broken`)); err == nil {
			t.Error("Некорректный JSON должен отклоняться")
		}
		if err := r.Resolve(other.ID, ResolutionMerge, nil); err == nil {
			t.Error("Пустой payload должен отклоняться")
		}

		// Конфликт остается неразрешенным
		if _, err := store.GetConflict(other.ID); err != nil {
			t.Errorf("Конфликт не должен исчезать при неудачной попытке: %v", err)
		}
	})
}

// Конфликт без серверной копии (409 без server_version) нельзя разрешить
// в пользу сервера: отправлять нечего
func TestConflictResolver_ResolveServerNullVersion(t *testing.T) {
	store, _ := newTestStore(t)
	r := NewConflictResolver(store, testLogger())

	payload, _ := json.Marshal(&ChecklistPayload{ChecklistName: "Открытие"})
	item, _ := store.Enqueue(TypeChecklist, payload)
	store.MarkFailed(item.ID, "conflict: entity changed on server", ClassConflict)
	store.SaveConflict(&SyncConflict{
		ItemID:        item.ID,
		Type:          item.Type,
		LocalVersion:  item.Payload,
		ServerVersion: json.RawMessage(`null`),
		CreatedAt:     time.Now(),
	})

	if err := r.Resolve(item.ID, ResolutionServer, nil); err == nil {
		t.Error("Разрешение server при отсутствующей серверной версии должно отклоняться")
	}

	// Конфликт и элемент остаются нетронутыми
	if _, err := store.GetConflict(item.ID); err != nil {
		t.Errorf("Конфликт не должен исчезать: %v", err)
	}
	got, _ := store.Get(item.ID)
	if got.Status != StatusFailed {
		t.Errorf("Элемент должен остаться failed: %s", got.Status)
	}

	// local остается доступным способом разрешения
	if err := r.Resolve(item.ID, ResolutionLocal, nil); err != nil {
		t.Fatalf("Ошибка разрешения local: %v", err)
	}
}

func TestConflictResolver_UnknownResolution(t *testing.T) {
	store, _ := newTestStore(t)
	r := NewConflictResolver(store, testLogger())

	item := seedConflict(t, store)
	if err := r.Resolve(item.ID, Resolution("magic"), nil); err == nil {
		t.Error("Неизвестный способ разрешения должен отклоняться")
	}
}

func TestConflictResolver_MissingConflict(t *testing.T) {
	store, _ := newTestStore(t)
	r := NewConflictResolver(store, testLogger())

	if err := r.Resolve("no-such-item", ResolutionLocal, nil); err == nil {
		t.Error("Ожидалась ошибка для несуществующего конфликта")
	}
}

// Сценарий целиком: конфликт при отправке, разрешение, успешная синхронизация
func TestConflictResolver_ResolveThenDrain(t *testing.T) {
	env := newSyncEnv(t)
	r := NewConflictResolver(env.store, testLogger())

	env.backend.submitErr = &UploadError{
		Class:      ClassConflict,
		Message:    "conflict: entity changed on server",
		ServerCopy: json.RawMessage(`{"checklist_name":"Открытие","base_version":9}`),
	}
	item := env.enqueueChecklist(t, "Открытие")

	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}
	if _, err := env.store.GetConflict(item.ID); err != nil {
		t.Fatalf("Конфликт должен быть зафиксирован: %v", err)
	}

	env.backend.submitErr = nil
	if err := r.Resolve(item.ID, ResolutionServer, nil); err != nil {
		t.Fatalf("Ошибка разрешения конфликта: %v", err)
	}

	env.syncer.now = func() time.Time { return time.Now().Add(time.Minute) }
	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}

	if _, err := env.store.Get(item.ID); err == nil {
		t.Error("Элемент должен быть отправлен и удален из очереди")
	}
	if _, err := env.store.GetConflict(item.ID); err == nil {
		t.Error("Конфликт не должен пережить разрешение")
	}
	if len(env.backend.submittedNames) != 1 {
		t.Errorf("Ожидалась одна успешная отправка, было: %d", len(env.backend.submittedNames))
	}
}
