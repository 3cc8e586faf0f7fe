package attachment

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// maxSize предел размера одного вложения (после base64-декодирования)
const maxSize = 16 << 20

type Servicer interface {
	Save(ctx context.Context, storeID, fileName string, data []byte) (*Attachment, error)
	List(ctx context.Context, storeID string) ([]Attachment, error)
}

type Service struct {
	repo  Repository
	blobs BlobStore
	log   *slog.Logger
}

func NewService(repo Repository, blobs BlobStore, log *slog.Logger) Servicer {
	return &Service{
		repo:  repo,
		blobs: blobs,
		log:   log.With("component", "attachment_service"),
	}
}

// Save кладет содержимое в блоб-хранилище и регистрирует метаданные.
// Имя в хранилище генерируется сервером: клиентские имена файлов
// не доверяются и сохраняются только как метаданные.
func (s *Service) Save(ctx context.Context, storeID, fileName string, data []byte) (*Attachment, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if len(data) > maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	id := uuid.NewString()
	blobName := id + filepath.Ext(fileName)

	url, err := s.blobs.Put(ctx, blobName, data)
	if err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	att := &Attachment{
		ID:        id,
		StoreID:   storeID,
		FileName:  filepath.Base(fileName),
		Size:      int64(len(data)),
		URL:       url,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, att); err != nil {
		return nil, fmt.Errorf("register attachment: %w", err)
	}

	s.log.Info("attachment stored",
		"id", att.ID, "store_id", storeID, "size", att.Size)
	return att, nil
}

func (s *Service) List(ctx context.Context, storeID string) ([]Attachment, error) {
	return s.repo.List(ctx, storeID)
}
