package submission

import (
	"encoding/json"
	"time"
)

// SubType тип отправки
type SubType string

const (
	TypeChecklist   SubType = "checklist"
	TypeReplacement SubType = "replacement"
	TypePhoto       SubType = "photo"
)

// ValidType проверяет, что тип входит в закрытый набор
func ValidType(t SubType) bool {
	switch t {
	case TypeChecklist, TypeReplacement, TypePhoto:
		return true
	}
	return false
}

// Submission принятая сервером отправка из магазина. EntityKey идентифицирует
// изменяемую сущность внутри магазина (чек-лист, SKU товара); Version растет
// монотонно для каждой пары (store_id, type, entity_key).
type Submission struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	Type      SubType         `json:"type"`
	EntityKey string          `json:"entity_key,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
}
