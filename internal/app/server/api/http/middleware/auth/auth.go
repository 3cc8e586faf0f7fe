package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"storeops/internal/domain/device"
)

type Auth struct {
	devices device.Servicer
	log     *slog.Logger
}

func New(devices device.Servicer, log *slog.Logger) *Auth {
	return &Auth{
		devices: devices,
		log:     log.With("component", "auth_middleware"),
	}
}

type contextKey string

const StoreIDKey contextKey = "storeID"

// Middleware проверяет bearer-токен устройства и кладет store_id в контекст
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token := ctx.Header("Authorization")

		if len(token) < 7 || token[:7] != "Bearer " {
			a.reject(ctx)
			return
		}

		storeID, err := a.devices.Validate(ctx.Context(), token[7:])
		if err != nil {
			a.log.Debug("token validation failed", "error", err)
			a.reject(ctx)
			return
		}

		newCtx := context.WithValue(ctx.Context(), StoreIDKey, storeID)
		next(huma.WithContext(ctx, newCtx))
	}
}

func (a *Auth) reject(ctx huma.Context) {
	ctx.SetStatus(http.StatusUnauthorized)
	ctx.SetHeader("Content-Type", "application/json")

	if err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
		"error": "Unauthorized",
	}); err != nil {
		a.log.Error("failed to encode auth error", "error", err)
	}
}

func GetStoreID(ctx context.Context) (string, bool) {
	storeID, ok := ctx.Value(StoreIDKey).(string)
	return storeID, ok
}
