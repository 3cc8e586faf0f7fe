package device

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"storeops/internal/domain/device"
)

type Handler struct {
	service    device.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service device.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	err := h.service.Register(ctx, input.Body.StoreID, input.Body.PIN)
	if err != nil {
		switch {
		case errors.Is(err, device.ErrInvalidInput):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		case errors.Is(err, device.ErrExists):
			return nil, huma.Error409Conflict("store already registered")
		}
		return nil, err
	}

	return &registerOutput{
		Body: registerResponse{Status: "Ok"},
	}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	token, err := h.service.Authenticate(ctx, input.Body.StoreID, input.Body.PIN)
	if err != nil {
		if errors.Is(err, device.ErrInvalidAuth) {
			return nil, huma.Error401Unauthorized("invalid store id or pin")
		}
		return nil, err
	}

	return &loginOutput{
		Body: loginResponse{Token: token},
	}, nil
}
