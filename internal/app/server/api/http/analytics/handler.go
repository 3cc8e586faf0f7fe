package analytics

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"storeops/internal/app/server/api/http/middleware/auth"
	"storeops/internal/domain/analytics"
)

type Handler struct {
	service    analytics.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service analytics.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.recordOp(), h.record)
}

func (h *Handler) record(ctx context.Context, input *recordInput) (*recordOutput, error) {
	storeID, ok := auth.GetStoreID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Record(ctx, storeID, input.Body.Event, input.Body.Fields); err != nil {
		if errors.Is(err, analytics.ErrInvalidInput) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, err
	}

	return &recordOutput{
		Body: recordResponse{Status: "Ok"},
	}, nil
}
