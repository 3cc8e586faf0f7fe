//POST /api/devices/register       # Регистрация магазина (публичный)
//POST /api/devices/login          # Вход устройства по PIN (публичный)
//GET  /api/health                 # Проба доступности (публичный)
//POST /api/submissions/checklist  # Принять чек-лист (auth)
//POST /api/submissions/replacement # Принять заявку на замену (auth)
//POST /api/submissions/photo      # Принять фотоотчет (auth)
//GET  /api/submissions            # Список отправок магазина (auth)
//GET  /api/submissions/{id}       # Получить отправку (auth)
//POST /api/attachments            # Загрузить вложение (auth)
//GET  /api/attachments            # Список вложений (auth)
//POST /api/analytics              # Записать событие (auth)

package api

import (
	"net/http"
	"time"

	analyticsAPI "storeops/internal/app/server/api/http/analytics"
	attachmentAPI "storeops/internal/app/server/api/http/attachment"
	deviceAPI "storeops/internal/app/server/api/http/device"
	healthAPI "storeops/internal/app/server/api/http/health"
	"storeops/internal/app/server/api/http/middleware"
	"storeops/internal/app/server/api/http/middleware/auth"
	"storeops/internal/app/server/api/http/middleware/logger"
	submissionAPI "storeops/internal/app/server/api/http/submission"
	"storeops/internal/app/server/config"
	"storeops/internal/domain/analytics"
	"storeops/internal/domain/attachment"
	"storeops/internal/domain/device"
	"storeops/internal/domain/submission"
	"storeops/internal/infrastructure/storage/disk"
	"storeops/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health     *healthAPI.Handler
	Device     *deviceAPI.Handler
	Submission *submissionAPI.Handler
	Attachment *attachmentAPI.Handler
	Analytics  *analyticsAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(cfg *config.Config, storage *postgres.Storage, blobs *disk.BlobStore, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaCfg := huma.DefaultConfig("StoreOps API", "1.0.0")
	humaCfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaCfg)

	h := handlers(cfg, storage, blobs, log)
	h.Health.SetupRoutes(API)
	h.Device.SetupRoutes(API)
	h.Submission.SetupRoutes(API)
	h.Attachment.SetupRoutes(API)
	h.Analytics.SetupRoutes(API)

	// Статическая раздача содержимого вложений
	fs := http.StripPrefix("/attachments/", http.FileServer(http.Dir(blobs.Dir())))
	mux.Get("/attachments/*", fs.ServeHTTP)

	return mux
}

func handlers(cfg *config.Config, storage *postgres.Storage, blobs *disk.BlobStore, log *slog.Logger) *Handlers {
	pool := storage.Pool()

	deviceRepo := postgres.NewDeviceRepository(pool, log)
	deviceService := device.NewService(deviceRepo,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour, log)
	authMW := auth.New(deviceService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	deviceHandler := deviceAPI.NewHandler(deviceService, log, middlewares.GetAllAndClear())

	submissionRepo := postgres.NewSubmissionRepository(pool, log)
	submissionService := submission.NewService(submissionRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	submissionHandler := submissionAPI.NewHandler(submissionService, log, middlewares.GetAllAndClear())

	attachmentRepo := postgres.NewAttachmentRepository(pool, log)
	attachmentService := attachment.NewService(attachmentRepo, blobs, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	attachmentHandler := attachmentAPI.NewHandler(attachmentService, log, middlewares.GetAllAndClear())

	analyticsRepo := postgres.NewAnalyticsRepository(pool, log)
	analyticsService := analytics.NewService(analyticsRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	analyticsHandler := analyticsAPI.NewHandler(analyticsService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:     healthHandler,
		Device:     deviceHandler,
		Submission: submissionHandler,
		Attachment: attachmentHandler,
		Analytics:  analyticsHandler,
	}
}
