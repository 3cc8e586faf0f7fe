package disk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slog"
)

// BlobStore хранит содержимое вложений на локальном диске и раздает их
// по публичному базовому URL через статический обработчик.
type BlobStore struct {
	dir     string
	baseURL string
	log     *slog.Logger
}

func NewBlobStore(dir, baseURL string, log *slog.Logger) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}
	return &BlobStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With("component", "blob_store"),
	}, nil
}

func (b *BlobStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	// Отбрасываем компоненты пути из имени блоба
	name = filepath.Base(name)

	path := filepath.Join(b.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		b.log.Error("failed to write blob", "name", name, "error", err)
		return "", fmt.Errorf("write blob: %w", err)
	}

	return b.baseURL + "/attachments/" + name, nil
}

// Dir возвращает каталог с файлами для статической раздачи
func (b *BlobStore) Dir() string {
	return b.dir
}
