package analytics

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) recordOp() huma.Operation {
	return huma.Operation{
		OperationID: "analytics-record",
		Method:      http.MethodPost,
		Path:        "/api/analytics",
		Summary:     "Записать аналитическое событие",
		Description: "События best-effort: клиент не повторяет их при сбоях.",
		Tags:        []string{"analytics"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
