package client

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

type syncEnv struct {
	store   *QueueStore
	backend *fakeBackend
	monitor *NetMonitor
	syncer  *Syncer
	logouts int
}

func newSyncEnv(t *testing.T) *syncEnv {
	t.Helper()

	store, _ := newTestStore(t)
	backend := &fakeBackend{}
	monitor := NewNetMonitor(nil, time.Minute, testLogger())
	monitor.SetOnline(true)

	env := &syncEnv{store: store, backend: backend, monitor: monitor}
	uploader := NewUploader(backend, testLogger())
	env.syncer = NewSyncer(store, uploader, monitor, time.Minute,
		func() { env.logouts++ }, testLogger())

	return env
}

func (e *syncEnv) enqueueChecklist(t *testing.T, name string) *QueueItem {
	t.Helper()

	payload, _ := json.Marshal(&ChecklistPayload{ChecklistName: name})
	item, err := e.store.Enqueue(TypeChecklist, payload)
	if err != nil {
		t.Fatalf("Ошибка постановки в очередь: %v", err)
	}
	return item
}

func TestSyncer_DrainSuccess(t *testing.T) {
	env := newSyncEnv(t)

	env.enqueueChecklist(t, "Открытие")
	env.enqueueChecklist(t, "Ревизия")

	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}

	count, _ := env.store.Count()
	if count != 0 {
		t.Errorf("После успешного прохода очередь должна быть пустой, осталось: %d", count)
	}

	// FIFO: первым отправляется созданный раньше
	if len(env.backend.submittedNames) != 2 ||
		env.backend.submittedNames[0] != "Открытие" ||
		env.backend.submittedNames[1] != "Ревизия" {
		t.Errorf("Нарушен порядок отправки: %v", env.backend.submittedNames)
	}

	if env.syncer.LastDrain().IsZero() {
		t.Error("Время успешного прохода должно обновиться")
	}
}

func TestSyncer_OfflineNoop(t *testing.T) {
	env := newSyncEnv(t)
	env.monitor.SetOnline(false)

	item := env.enqueueChecklist(t, "Открытие")

	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}

	got, _ := env.store.Get(item.ID)
	if got.Status != StatusPending || got.Attempts != 0 {
		t.Errorf("Офлайн-проход не должен трогать элементы: status=%s attempts=%d",
			got.Status, got.Attempts)
	}
	if len(env.backend.submittedNames) != 0 {
		t.Error("Отправок в офлайне быть не должно")
	}
}

func TestSyncer_BackoffRespected(t *testing.T) {
	env := newSyncEnv(t)

	item := env.enqueueChecklist(t, "Открытие")

	// Две выполненные попытки: требуемая задержка перед третьей — 15 секунд
	env.store.IncrementAttempts(item.ID)
	env.store.IncrementAttempts(item.ID)

	env.syncer.now = func() time.Time { return time.Now().Add(10 * time.Second) }
	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}
	if len(env.backend.submittedNames) != 0 {
		t.Error("Через 10 секунд элемент должен быть пропущен (нужно 15)")
	}

	env.syncer.now = func() time.Time { return time.Now().Add(16 * time.Second) }
	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}
	if len(env.backend.submittedNames) != 1 {
		t.Error("Через 16 секунд элемент должен быть отправлен")
	}
}

func TestSyncer_MaxAttemptsTerminal(t *testing.T) {
	env := newSyncEnv(t)

	item := env.enqueueChecklist(t, "Открытие")
	for i := 0; i < maxAttempts; i++ {
		env.store.IncrementAttempts(item.ID)
	}
	env.store.MarkFailed(item.ID, "timeout", ClassTransient)

	env.syncer.now = func() time.Time { return time.Now().Add(time.Hour) }
	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}

	got, _ := env.store.Get(item.ID)
	if got.Status != StatusFailed || got.Error != errMaxRetries {
		t.Errorf("Ожидался терминальный отказ, получено: %s / %q", got.Status, got.Error)
	}
	if len(env.backend.submittedNames) != 0 {
		t.Error("Элемент с исчерпанными попытками не должен отправляться")
	}

	// Следующий проход вообще не подбирает его
	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}
	refetched, _ := env.store.Get(item.ID)
	if refetched.Attempts != maxAttempts {
		t.Errorf("Счетчик попыток не должен расти: %d", refetched.Attempts)
	}
}

func TestSyncer_ConflictPath(t *testing.T) {
	env := newSyncEnv(t)
	env.backend.submitErr = &UploadError{
		Class:      ClassConflict,
		Message:    "conflict: entity changed on server",
		ServerCopy: json.RawMessage(`{"checklist_name":"Открытие","base_version":7}`),
	}

	item := env.enqueueChecklist(t, "Открытие")

	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Конфликт не должен прерывать проход: %v", err)
	}

	got, _ := env.store.Get(item.ID)
	if got.Status != StatusFailed || got.ErrorClass != ClassConflict {
		t.Errorf("Ожидался failed/conflict, получено: %s/%s", got.Status, got.ErrorClass)
	}

	conflict, err := env.store.GetConflict(item.ID)
	if err != nil {
		t.Fatalf("Конфликт должен быть сохранен: %v", err)
	}
	if string(conflict.ServerVersion) != `{"checklist_name":"Открытие","base_version":7}` {
		t.Errorf("Неверная серверная версия: %s", conflict.ServerVersion)
	}

	// До разрешения конфликта автоповторов нет
	env.backend.submitErr = nil
	env.syncer.now = func() time.Time { return time.Now().Add(time.Hour) }
	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}
	refetched, _ := env.store.Get(item.ID)
	if refetched.Attempts != 1 {
		t.Errorf("Конфликтный элемент не должен повторяться: attempts=%d", refetched.Attempts)
	}
}

func TestSyncer_AuthForcesLogout(t *testing.T) {
	env := newSyncEnv(t)
	env.backend.submitErr = &UploadError{Class: ClassAuth, Message: "invalid token"}

	first := env.enqueueChecklist(t, "Открытие")
	second := env.enqueueChecklist(t, "Ревизия")

	if err := env.syncer.Drain(context.Background()); err == nil {
		t.Fatal("Ожидалась ошибка сессии")
	}

	if env.logouts != 1 {
		t.Errorf("Ожидался один глобальный logout, было: %d", env.logouts)
	}

	got, _ := env.store.Get(first.ID)
	if got.Status != StatusFailed || got.ErrorClass != ClassAuth {
		t.Errorf("Первый элемент: ожидался failed/auth, получено: %s/%s",
			got.Status, got.ErrorClass)
	}

	// Проход остановлен: второй элемент не трогали
	untouched, _ := env.store.Get(second.ID)
	if untouched.Status != StatusPending || untouched.Attempts != 0 {
		t.Errorf("Второй элемент должен остаться pending: %s/%d",
			untouched.Status, untouched.Attempts)
	}
}

func TestSyncer_ValidationNotRetried(t *testing.T) {
	env := newSyncEnv(t)
	env.backend.submitErr = &UploadError{Class: ClassValidation, Message: "invalid payload"}

	item := env.enqueueChecklist(t, "Открытие")

	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}

	env.backend.submitErr = nil
	env.syncer.now = func() time.Time { return time.Now().Add(time.Hour) }
	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}

	got, _ := env.store.Get(item.ID)
	if got.Attempts != 1 {
		t.Errorf("Ошибка валидации не должна повторяться автоматически: attempts=%d", got.Attempts)
	}
}

func TestSyncer_TransientRetriedAfterBackoff(t *testing.T) {
	env := newSyncEnv(t)
	env.backend.submitErr = &UploadError{Class: ClassTransient, Message: "http 502"}

	item := env.enqueueChecklist(t, "Открытие")

	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}

	got, _ := env.store.Get(item.ID)
	if got.Status != StatusFailed || got.ErrorClass != ClassTransient || got.Attempts != 1 {
		t.Fatalf("Неверное состояние после transient-сбоя: %+v", got)
	}

	// После задержки backoff элемент подбирается автоматически
	env.backend.submitErr = nil
	env.syncer.now = func() time.Time { return time.Now().Add(6 * time.Second) }
	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}

	if _, err := env.store.Get(item.ID); err == nil {
		t.Error("Элемент должен быть удален после успешной отправки")
	}
}

func TestSyncer_RetryItem(t *testing.T) {
	env := newSyncEnv(t)

	item := env.enqueueChecklist(t, "Открытие")
	env.store.IncrementAttempts(item.ID)
	env.store.MarkFailed(item.ID, "quota exceeded", ClassQuota)

	env.syncer.now = func() time.Time { return time.Now().Add(time.Minute) }
	if err := env.syncer.RetryItem(context.Background(), item.ID); err != nil {
		t.Fatalf("Ошибка ручного повтора: %v", err)
	}

	if _, err := env.store.Get(item.ID); err == nil {
		t.Error("После ручного повтора и успешной отправки элемент должен исчезнуть")
	}

	t.Run("OnlyFailed", func(t *testing.T) {
		pending := env.enqueueChecklist(t, "Приемка")
		if err := env.syncer.RetryItem(context.Background(), pending.ID); err == nil {
			t.Error("Повтор pending-элемента должен возвращать ошибку")
		}
	})
}

// Ручной повтор — единственный выход для элемента с исчерпанными попытками
// кроме удаления, и он обязан дойти до реальной отправки
func TestSyncer_RetryMaxedItem(t *testing.T) {
	env := newSyncEnv(t)

	item := env.enqueueChecklist(t, "Открытие")
	for i := 0; i < maxAttempts; i++ {
		env.store.IncrementAttempts(item.ID)
	}
	env.store.MarkFailed(item.ID, errMaxRetries, "")

	if err := env.syncer.RetryItem(context.Background(), item.ID); err != nil {
		t.Fatalf("Ошибка ручного повтора: %v", err)
	}

	if len(env.backend.submittedNames) != 1 {
		t.Fatalf("Ручной повтор должен дойти до отправки, было: %d",
			len(env.backend.submittedNames))
	}
	if _, err := env.store.Get(item.ID); err == nil {
		t.Error("После успешной отправки элемент должен исчезнуть")
	}

	// Если повтор снова падает, предел попыток восстанавливается
	t.Run("AgainTerminal", func(t *testing.T) {
		env := newSyncEnv(t)
		env.backend.submitErr = &UploadError{Class: ClassTransient, Message: "http 502"}

		item := env.enqueueChecklist(t, "Ревизия")
		for i := 0; i < maxAttempts; i++ {
			env.store.IncrementAttempts(item.ID)
		}
		env.store.MarkFailed(item.ID, errMaxRetries, "")

		if err := env.syncer.RetryItem(context.Background(), item.ID); err != nil {
			t.Fatalf("Ошибка ручного повтора: %v", err)
		}

		got, _ := env.store.Get(item.ID)
		if got.Status != StatusFailed || got.Attempts != maxAttempts {
			t.Errorf("Ожидался возврат к пределу попыток: %s/%d", got.Status, got.Attempts)
		}
	})
}

// Ручной повтор выполняется сразу, даже если окно backoff еще не истекло
func TestSyncer_RetryItemSkipsBackoff(t *testing.T) {
	env := newSyncEnv(t)

	item := env.enqueueChecklist(t, "Открытие")
	env.store.IncrementAttempts(item.ID)
	env.store.MarkFailed(item.ID, "http 502", ClassTransient)

	// Время не сдвигаем: автоматический проход удержал бы элемент по backoff
	if err := env.syncer.RetryItem(context.Background(), item.ID); err != nil {
		t.Fatalf("Ошибка ручного повтора: %v", err)
	}

	if len(env.backend.submittedNames) != 1 {
		t.Errorf("Ручной повтор не должен ждать backoff, отправок: %d",
			len(env.backend.submittedNames))
	}
}

func TestSyncer_SingleFlight(t *testing.T) {
	env := newSyncEnv(t)
	env.backend.submitGate = make(chan struct{})

	env.enqueueChecklist(t, "Открытие")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		env.syncer.Drain(context.Background())
	}()

	// Дожидаемся, пока первый проход захватит флаг и застрянет в отправке
	for i := 0; i < 100 && !env.syncer.IsDraining(); i++ {
		time.Sleep(time.Millisecond)
	}
	if !env.syncer.IsDraining() {
		t.Fatal("Первый проход не начался")
	}

	// Повторный вызов — no-op, второй параллельный проход не стартует
	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Повторный вызов должен быть no-op: %v", err)
	}

	close(env.backend.submitGate)
	wg.Wait()

	if len(env.backend.submittedNames) != 1 {
		t.Errorf("Элемент должен быть отправлен ровно один раз: %d",
			len(env.backend.submittedNames))
	}
}

func TestSyncer_DeleteItem(t *testing.T) {
	env := newSyncEnv(t)

	item := env.enqueueChecklist(t, "Открытие")
	env.store.SaveConflict(&SyncConflict{
		ItemID:        item.ID,
		Type:          item.Type,
		LocalVersion:  item.Payload,
		ServerVersion: json.RawMessage(`null`),
		CreatedAt:     time.Now(),
	})

	if err := env.syncer.DeleteItem(item.ID); err != nil {
		t.Fatalf("Ошибка удаления: %v", err)
	}

	if _, err := env.store.Get(item.ID); err == nil {
		t.Error("Элемент должен быть удален")
	}
	if _, err := env.store.GetConflict(item.ID); err == nil {
		t.Error("Конфликт должен быть удален вместе с элементом")
	}
}

// Сценарий: постановка в офлайне, переход в онлайн, успешная синхронизация
func TestSyncer_OfflineToOnlineScenario(t *testing.T) {
	env := newSyncEnv(t)
	env.monitor.SetOnline(false)

	env.enqueueChecklist(t, "Открытие")
	env.syncer.Drain(context.Background())

	count, _ := env.store.Count()
	if count != 1 {
		t.Fatalf("В офлайне элемент должен ждать в очереди: %d", count)
	}

	env.monitor.SetOnline(true)
	if err := env.syncer.Drain(context.Background()); err != nil {
		t.Fatalf("Ошибка прохода: %v", err)
	}

	count, _ = env.store.Count()
	if count != 0 {
		t.Errorf("После выхода в онлайн очередь должна опустеть: %d", count)
	}
	if env.syncer.LastDrain().IsZero() {
		t.Error("Метка последней синхронизации должна обновиться")
	}
}
