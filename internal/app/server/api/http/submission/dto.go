package submission

import (
	"time"

	"storeops/internal/domain/submission"
)

type output struct {
	Body response
}

type response struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`
	Status  string `json:"status"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Submissions []submission.Submission `json:"submissions"`
}

type findInput struct {
	ID string `path:"id" doc:"ID отправки"`
}

type findOutput struct {
	Body submission.Submission
}

// ==================== Checklist ====================

type createChecklistInput struct {
	Body createChecklistRequest
}

type createChecklistRequest struct {
	ChecklistID   string            `json:"checklist_id" doc:"ID шаблона чек-листа" minLength:"1"`
	ChecklistName string            `json:"checklist_name,omitempty" doc:"Название чек-листа"`
	StoreID       string            `json:"store_id,omitempty" doc:"Магазин (информативно, авторитетен токен)"`
	BaseVersion   int64             `json:"base_version,omitempty" doc:"Версия сущности, от которой заполнялся чек-лист"`
	Answers       map[string]string `json:"answers" doc:"Ответы по пунктам"`
	CompletedBy   string            `json:"completed_by,omitempty" doc:"Сотрудник"`
	CompletedAt   time.Time         `json:"completed_at,omitempty" doc:"Время заполнения"`
	PhotoURLs     []string          `json:"photo_urls,omitempty" doc:"URL загруженных вложений"`
}

// ==================== Replacement ====================

type createReplacementInput struct {
	Body createReplacementRequest
}

type createReplacementRequest struct {
	ProductName string    `json:"product_name" doc:"Название товара" minLength:"1"`
	SKU         string    `json:"sku" doc:"Артикул товара" minLength:"1"`
	StoreID     string    `json:"store_id,omitempty" doc:"Магазин (информативно, авторитетен токен)"`
	BaseVersion int64     `json:"base_version,omitempty" doc:"Версия сущности"`
	Quantity    int       `json:"quantity,omitempty" doc:"Количество"`
	Reason      string    `json:"reason,omitempty" doc:"Причина замены"`
	RequestedBy string    `json:"requested_by,omitempty" doc:"Сотрудник"`
	RequestedAt time.Time `json:"requested_at,omitempty" doc:"Время заявки"`
	PhotoURLs   []string  `json:"photo_urls,omitempty" doc:"URL загруженных вложений"`
}

// ==================== Photo ====================

type createPhotoInput struct {
	Body createPhotoRequest
}

type createPhotoRequest struct {
	StoreID     string    `json:"store_id,omitempty" doc:"Магазин (информативно, авторитетен токен)"`
	BaseVersion int64     `json:"base_version,omitempty" doc:"Не используется для фотоотчетов"`
	Caption     string    `json:"caption,omitempty" doc:"Подпись"`
	TakenBy     string    `json:"taken_by,omitempty" doc:"Сотрудник"`
	TakenAt     time.Time `json:"taken_at,omitempty" doc:"Время съемки"`
	PhotoURLs   []string  `json:"photo_urls" doc:"URL загруженных вложений" minItems:"1"`
}
