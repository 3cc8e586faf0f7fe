package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"storeops/internal/app/server/api/http/middleware/auth"
	"storeops/internal/domain/submission"
)

type Handler struct {
	service    submission.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service submission.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createChecklistOp(), h.createChecklist)
	huma.Register(api, h.createReplacementOp(), h.createReplacement)
	huma.Register(api, h.createPhotoOp(), h.createPhoto)
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.findOp(), h.find)
}

// conflictError сериализуется в тело ответа 409: клиент достает из него
// server_version для разрешения конфликта на стороне пользователя
type conflictError struct {
	Message       string          `json:"error"`
	ServerVersion json.RawMessage `json:"server_version"`
}

func (e *conflictError) Error() string  { return e.Message }
func (e *conflictError) GetStatus() int { return http.StatusConflict }

func (h *Handler) submit(ctx context.Context, typ submission.SubType,
	entityKey string, baseVersion int64, payload interface{}) (*output, error) {

	storeID, ok := auth.GetStoreID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	sub, err := h.service.Submit(ctx, storeID, typ, entityKey, baseVersion, raw)
	if err != nil {
		var conflict *submission.ConflictError
		switch {
		case errors.As(err, &conflict):
			return nil, &conflictError{
				Message: fmt.Sprintf("conflict: entity changed on server, current version %d",
					conflict.Current.Version),
				ServerVersion: conflict.Current.Payload,
			}
		case errors.Is(err, submission.ErrInvalidInput):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, err
	}

	return &output{
		Body: response{
			ID:      sub.ID,
			Version: sub.Version,
			Status:  "Ok",
		},
	}, nil
}

func (h *Handler) createChecklist(ctx context.Context, input *createChecklistInput) (*output, error) {
	return h.submit(ctx, submission.TypeChecklist,
		input.Body.ChecklistID, input.Body.BaseVersion, input.Body)
}

func (h *Handler) createReplacement(ctx context.Context, input *createReplacementInput) (*output, error) {
	return h.submit(ctx, submission.TypeReplacement,
		input.Body.SKU, input.Body.BaseVersion, input.Body)
}

func (h *Handler) createPhoto(ctx context.Context, input *createPhotoInput) (*output, error) {
	// Фотоотчеты независимы, у них нет версионируемой сущности
	return h.submit(ctx, submission.TypePhoto, "", 0, input.Body)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	storeID, ok := auth.GetStoreID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	subs, err := h.service.List(ctx, storeID)
	if err != nil {
		return nil, err
	}

	return &listOutput{
		Body: listResponse{Submissions: subs},
	}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*findOutput, error) {
	storeID, ok := auth.GetStoreID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	sub, err := h.service.Get(ctx, input.ID)
	if err != nil {
		if errors.Is(err, submission.ErrNotFound) {
			return nil, huma.Error404NotFound("submission not found")
		}
		return nil, err
	}
	if sub.StoreID != storeID {
		return nil, huma.Error404NotFound("submission not found")
	}

	return &findOutput{Body: *sub}, nil
}
