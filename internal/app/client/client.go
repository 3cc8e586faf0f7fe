package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	gosync "sync"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"storeops/internal/app/client/config"
)

// App связывает компоненты клиента: очередь, монитор сети, uploader,
// оркестратор синхронизации и статусную панель
type App struct {
	config     *config.Config
	log        *slog.Logger
	httpClient *httpClient
	store      *QueueStore
	monitor    *NetMonitor
	uploader   *Uploader
	syncer     *Syncer
	resolver   *ConflictResolver
	status     *StatusSurface

	mu            gosync.RWMutex
	authenticated bool
	wg            gosync.WaitGroup
	cancel        context.CancelFunc
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	httpCl, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации HTTP клиента: %w", err)
	}

	store, err := NewQueueStore(cfg.QueuePath, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации очереди: %w", err)
	}

	app := &App{
		config:     cfg,
		log:        log,
		httpClient: httpCl,
		store:      store,
	}

	app.monitor = NewNetMonitor(httpCl.HealthCheck,
		time.Duration(cfg.ProbeInterval)*time.Second, log)
	app.uploader = NewUploader(httpCl, log)
	app.syncer = NewSyncer(store, app.uploader, app.monitor,
		time.Duration(cfg.SyncInterval)*time.Second, app.Logout, log)
	app.resolver = NewConflictResolver(store, log)
	app.status = NewStatusSurface(store, app.syncer, log)

	// Загружаем токен устройства, если он сохранен
	if token, err := os.ReadFile(cfg.TokenPath); err == nil && len(token) > 0 {
		httpCl.SetToken(string(token))
		app.authenticated = true
		log.Debug("Токен устройства загружен из файла")
	}

	return app, nil
}

// Run запускает фоновые контуры клиента: монитор сети, оркестратор
// и статусную панель. Блокируется до SIGINT/SIGTERM.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go a.handleSignals()

	a.wg.Add(3)
	go func() {
		defer a.wg.Done()
		a.monitor.Run(ctx)
	}()
	go func() {
		defer a.wg.Done()
		a.syncer.Run(ctx)
	}()
	go func() {
		defer a.wg.Done()
		a.status.Run(ctx)
	}()

	a.log.Info("Клиент запущен",
		"server", a.config.ServerAddress,
		"env", a.config.Env,
	)

	a.wg.Wait()
	return nil
}

func (a *App) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	a.log.Info("Получен сигнал завершения")
	if a.cancel != nil {
		a.cancel()
	}
}

// Close освобождает ресурсы клиента
func (a *App) Close() error {
	return a.store.Close()
}

// Enqueue ставит отправку в очередь. Возвращается сразу, ничего сетевого
// не ждет: доставкой займется оркестратор.
func (a *App) Enqueue(t ItemType, payload interface{}) (*QueueItem, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации payload: %w", err)
	}
	return a.store.Enqueue(t, data)
}

// SyncNow запускает ручной проход синхронизации
func (a *App) SyncNow(ctx context.Context) error {
	a.monitor.check(ctx)
	return a.syncer.Drain(ctx)
}

// CheckConnection проверяет соединение с сервером
func (a *App) CheckConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return a.httpClient.HealthCheck(ctx)
}

// IsAuthenticated сообщает, есть ли действующая сессия устройства
func (a *App) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.authenticated
}

// Register регистрирует магазин на сервере
func (a *App) Register(ctx context.Context, storeID, pin string) error {
	if err := a.httpClient.Register(ctx, storeID, pin); err != nil {
		return fmt.Errorf("ошибка регистрации: %w", err)
	}
	return nil
}

// Login выполняет вход устройства по PIN и сохраняет токен
func (a *App) Login(ctx context.Context, storeID, pin string) error {
	token, err := a.httpClient.Login(ctx, storeID, pin)
	if err != nil {
		return fmt.Errorf("ошибка входа: %w", err)
	}

	if err := os.WriteFile(a.config.TokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}

	a.mu.Lock()
	a.authenticated = true
	a.mu.Unlock()

	return nil
}

// Logout сбрасывает сессию устройства. Вызывается и вручную, и оркестратором
// при ошибке аутентификации (глобальный logout).
func (a *App) Logout() {
	a.mu.Lock()
	a.authenticated = false
	a.mu.Unlock()

	a.httpClient.SetToken("")
	if err := os.Remove(a.config.TokenPath); err != nil && !os.IsNotExist(err) {
		a.log.Warn("Ошибка удаления токена", "error", err)
	}

	a.log.Info("Сессия устройства завершена")
}

// Queue возвращает хранилище очереди
func (a *App) Queue() *QueueStore { return a.store }

// Syncer возвращает оркестратор синхронизации
func (a *App) Syncer() *Syncer { return a.syncer }

// Resolver возвращает резолвер конфликтов
func (a *App) Resolver() *ConflictResolver { return a.resolver }

// Status возвращает статусную панель очереди
func (a *App) Status() *StatusSurface { return a.status }

// Monitor возвращает монитор сети
func (a *App) Monitor() *NetMonitor { return a.monitor }

// Config возвращает конфигурацию клиента
func (a *App) Config() *config.Config { return a.config }
