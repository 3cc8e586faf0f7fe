package attachment

import "time"

// Attachment метаданные загруженного вложения. Содержимое файла лежит
// в блоб-хранилище, в базе только учетная запись.
type Attachment struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	FileName  string    `json:"file_name"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
