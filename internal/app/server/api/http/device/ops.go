package device

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) registerOp() huma.Operation {
	return huma.Operation{
		OperationID: "devices-register",
		Method:      http.MethodPost,
		Path:        "/api/devices/register",
		Summary:     "Регистрация устройства магазина",
		Description: "Создает учетную запись магазина с PIN-кодом для входа устройств.",
		Tags:        []string{"devices"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "devices-login",
		Method:      http.MethodPost,
		Path:        "/api/devices/login",
		Summary:     "Вход устройства по PIN",
		Description: "Проверяет PIN магазина и выдает bearer-токен для остальных операций.",
		Tags:        []string{"devices"},
		Middlewares: h.middleware,
	}
}
