package attachment

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) uploadOp() huma.Operation {
	return huma.Operation{
		OperationID: "attachments-upload",
		Method:      http.MethodPost,
		Path:        "/api/attachments",
		Summary:     "Загрузить вложение",
		Description: "Принимает содержимое файла в base64 и возвращает публичный URL. Клиент подставляет URL в payload отправки вместо локального пути.",
		Tags:        []string{"attachments"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "attachments-list",
		Method:      http.MethodGet,
		Path:        "/api/attachments",
		Summary:     "Список вложений магазина",
		Tags:        []string{"attachments"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
