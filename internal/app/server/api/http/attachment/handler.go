package attachment

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"storeops/internal/app/server/api/http/middleware/auth"
	"storeops/internal/domain/attachment"
)

type Handler struct {
	service    attachment.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service attachment.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.uploadOp(), h.upload)
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) upload(ctx context.Context, input *uploadInput) (*uploadOutput, error) {
	storeID, ok := auth.GetStoreID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	data, err := base64.StdEncoding.DecodeString(input.Body.Data)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("Invalid base64 data: " + err.Error())
	}

	att, err := h.service.Save(ctx, storeID, input.Body.FileName, data)
	if err != nil {
		switch {
		case errors.Is(err, attachment.ErrInvalidInput):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		case errors.Is(err, attachment.ErrTooLarge):
			return nil, huma.NewError(http.StatusRequestEntityTooLarge, err.Error())
		}
		return nil, err
	}

	return &uploadOutput{
		Body: uploadResponse{
			ID:  att.ID,
			URL: att.URL,
		},
	}, nil
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	storeID, ok := auth.GetStoreID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	atts, err := h.service.List(ctx, storeID)
	if err != nil {
		return nil, err
	}

	return &listOutput{
		Body: listResponse{Attachments: atts},
	}, nil
}
