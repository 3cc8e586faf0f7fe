package attachment

import "context"

// Repository учет метаданных вложений
type Repository interface {
	Create(ctx context.Context, att *Attachment) error
	List(ctx context.Context, storeID string) ([]Attachment, error)
}

// BlobStore хранилище содержимого файлов. Put возвращает публичный URL.
type BlobStore interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}
