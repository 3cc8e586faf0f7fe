package submission

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createChecklistOp() huma.Operation {
	return huma.Operation{
		OperationID: "submissions-create-checklist",
		Method:      http.MethodPost,
		Path:        "/api/submissions/checklist",
		Summary:     "Принять заполненный чек-лист",
		Description: "Принимает результат заполнения чек-листа. При расхождении base_version с серверной версией возвращает 409 с актуальной копией.",
		Tags:        []string{"submissions"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createReplacementOp() huma.Operation {
	return huma.Operation{
		OperationID: "submissions-create-replacement",
		Method:      http.MethodPost,
		Path:        "/api/submissions/replacement",
		Summary:     "Принять заявку на замену товара",
		Tags:        []string{"submissions"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createPhotoOp() huma.Operation {
	return huma.Operation{
		OperationID: "submissions-create-photo",
		Method:      http.MethodPost,
		Path:        "/api/submissions/photo",
		Summary:     "Принять фотоотчет",
		Tags:        []string{"submissions"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "submissions-list",
		Method:      http.MethodGet,
		Path:        "/api/submissions",
		Summary:     "Список принятых отправок магазина",
		Tags:        []string{"submissions"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "submissions-find",
		Method:      http.MethodGet,
		Path:        "/api/submissions/{id}",
		Summary:     "Получить отправку",
		Tags:        []string{"submissions"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
