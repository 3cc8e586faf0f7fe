package client

import (
	"encoding/json"
	"fmt"
	"time"
)

// ItemType тип отправки в очереди
type ItemType string

const (
	TypeChecklist   ItemType = "checklist"
	TypeReplacement ItemType = "replacement"
	TypePhoto       ItemType = "photo"
)

// ValidType проверяет, что тип входит в закрытый набор
func ValidType(t ItemType) bool {
	switch t {
	case TypeChecklist, TypeReplacement, TypePhoto:
		return true
	}
	return false
}

// ItemStatus статус элемента очереди
type ItemStatus string

const (
	StatusPending ItemStatus = "pending"
	StatusSyncing ItemStatus = "syncing"
	StatusFailed  ItemStatus = "failed"
	StatusSynced  ItemStatus = "synced"
)

// QueueItem — одна отложенная отправка. Очередь не интерпретирует payload,
// разбор по типу происходит только в uploader'е.
type QueueItem struct {
	ID          string          `json:"id"`
	Type        ItemType        `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Status      ItemStatus      `json:"status"`
	Attempts    int             `json:"attempts"`
	CreatedAt   time.Time       `json:"created_at"`
	LastAttempt time.Time       `json:"last_attempt,omitempty"`
	Error       string          `json:"error,omitempty"`
	ErrorClass  ErrorClass      `json:"error_class,omitempty"`
}

// Title возвращает человекочитаемый заголовок элемента
func (q *QueueItem) Title() string {
	switch q.Type {
	case TypeChecklist:
		var p ChecklistPayload
		if err := json.Unmarshal(q.Payload, &p); err == nil && p.ChecklistName != "" {
			return fmt.Sprintf("Чек-лист «%s»", p.ChecklistName)
		}
		return "Чек-лист"
	case TypeReplacement:
		var p ReplacementPayload
		if err := json.Unmarshal(q.Payload, &p); err == nil && p.ProductName != "" {
			return fmt.Sprintf("Заявка на замену: %s", p.ProductName)
		}
		return "Заявка на замену"
	case TypePhoto:
		return "Фотоотчет"
	}
	return string(q.Type)
}

// SyncConflict расхождение локальной и серверной версии одной сущности.
// Конфликт не владеет элементом очереди, а только аннотирует его.
type SyncConflict struct {
	ItemID        string          `json:"item_id"`
	Type          ItemType        `json:"type"`
	LocalVersion  json.RawMessage `json:"local_version"`
	ServerVersion json.RawMessage `json:"server_version"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Resolution вариант разрешения конфликта
type Resolution string

const (
	ResolutionLocal  Resolution = "local"
	ResolutionServer Resolution = "server"
	ResolutionMerge  Resolution = "merge"
)

// ChecklistPayload результат заполнения чек-листа
type ChecklistPayload struct {
	ChecklistID   string            `json:"checklist_id"`
	ChecklistName string            `json:"checklist_name"`
	StoreID       string            `json:"store_id"`
	BaseVersion   int64             `json:"base_version"`
	Answers       map[string]string `json:"answers"`
	CompletedBy   string            `json:"completed_by"`
	CompletedAt   time.Time         `json:"completed_at"`
	LocalPhotos   []string          `json:"local_photos,omitempty"`
	PhotoURLs     []string          `json:"photo_urls,omitempty"`
}

// ReplacementPayload заявка на замену товара
type ReplacementPayload struct {
	ProductName string    `json:"product_name"`
	SKU         string    `json:"sku"`
	StoreID     string    `json:"store_id"`
	BaseVersion int64     `json:"base_version"`
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason"`
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
	LocalPhotos []string  `json:"local_photos,omitempty"`
	PhotoURLs   []string  `json:"photo_urls,omitempty"`
}

// PhotoPayload отдельный фотоотчет
type PhotoPayload struct {
	StoreID     string    `json:"store_id"`
	BaseVersion int64     `json:"base_version"`
	Caption     string    `json:"caption"`
	TakenBy     string    `json:"taken_by"`
	TakenAt     time.Time `json:"taken_at"`
	LocalPhotos []string  `json:"local_photos,omitempty"`
	PhotoURLs   []string  `json:"photo_urls,omitempty"`
}
