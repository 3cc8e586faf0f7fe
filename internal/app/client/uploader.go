package client

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/exp/slog"
)

// Backend контракт бэкенд-прокси, который потребляет uploader
type Backend interface {
	SubmitChecklist(ctx context.Context, p *ChecklistPayload) (string, error)
	SubmitReplacement(ctx context.Context, p *ReplacementPayload) (string, error)
	SubmitPhoto(ctx context.Context, p *PhotoPayload) (string, error)
	UploadAttachment(ctx context.Context, path string) (string, error)
	SendAnalytics(ctx context.Context, event string, fields map[string]string) error
}

// Uploader превращает элемент очереди в зафиксированное состояние на сервере.
// Сначала загружаются все вложения (сбой любого из них отменяет отправку
// целиком — частичных коммитов не бывает), затем создается сама запись.
type Uploader struct {
	api Backend
	log *slog.Logger
}

func NewUploader(api Backend, log *slog.Logger) *Uploader {
	return &Uploader{api: api, log: log}
}

// Upload выполняет отправку одного элемента и возвращает id записи на сервере.
// Любой сбой возвращается как классифицированная ошибка (*UploadError).
func (u *Uploader) Upload(ctx context.Context, item *QueueItem) (string, error) {
	recordID, err := u.dispatch(ctx, item)
	if err != nil {
		return "", AsUploadError(err)
	}

	// Аналитика — best effort, ее сбой никогда не роняет отправку
	if aerr := u.api.SendAnalytics(ctx, "submission_synced", map[string]string{
		"item_id":   item.ID,
		"item_type": string(item.Type),
		"record_id": recordID,
	}); aerr != nil {
		u.log.Debug("Аналитика недоступна", "error", aerr)
	}

	return recordID, nil
}

func (u *Uploader) dispatch(ctx context.Context, item *QueueItem) (string, error) {
	switch item.Type {
	case TypeChecklist:
		var p ChecklistPayload
		if err := json.Unmarshal(item.Payload, &p); err != nil {
			return "", &UploadError{
				Class:   ClassValidation,
				Message: fmt.Sprintf("payload чек-листа поврежден: %v", err),
			}
		}
		urls, err := u.uploadAttachments(ctx, p.LocalPhotos)
		if err != nil {
			return "", err
		}
		p.PhotoURLs = append(p.PhotoURLs, urls...)
		p.LocalPhotos = nil
		return u.api.SubmitChecklist(ctx, &p)

	case TypeReplacement:
		var p ReplacementPayload
		if err := json.Unmarshal(item.Payload, &p); err != nil {
			return "", &UploadError{
				Class:   ClassValidation,
				Message: fmt.Sprintf("payload заявки поврежден: %v", err),
			}
		}
		urls, err := u.uploadAttachments(ctx, p.LocalPhotos)
		if err != nil {
			return "", err
		}
		p.PhotoURLs = append(p.PhotoURLs, urls...)
		p.LocalPhotos = nil
		return u.api.SubmitReplacement(ctx, &p)

	case TypePhoto:
		var p PhotoPayload
		if err := json.Unmarshal(item.Payload, &p); err != nil {
			return "", &UploadError{
				Class:   ClassValidation,
				Message: fmt.Sprintf("payload фотоотчета поврежден: %v", err),
			}
		}
		urls, err := u.uploadAttachments(ctx, p.LocalPhotos)
		if err != nil {
			return "", err
		}
		p.PhotoURLs = append(p.PhotoURLs, urls...)
		p.LocalPhotos = nil
		return u.api.SubmitPhoto(ctx, &p)
	}

	return "", &UploadError{
		Class:   ClassValidation,
		Message: fmt.Sprintf("неизвестный тип отправки: %s", item.Type),
	}
}

// uploadAttachments загружает локальные вложения и возвращает удаленные URL
// в том же порядке
func (u *Uploader) uploadAttachments(ctx context.Context, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	urls := make([]string, 0, len(paths))
	for _, path := range paths {
		url, err := u.api.UploadAttachment(ctx, path)
		if err != nil {
			return nil, AsUploadError(err)
		}
		urls = append(urls, url)
	}

	u.log.Debug("Вложения загружены", "count", len(urls))
	return urls, nil
}
