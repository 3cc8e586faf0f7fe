package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/exp/slog"

	"storeops/internal/app/client/config"
)

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) (*httpClient, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   scheme + cfg.ServerAddress,
		userAgent: "StoreOps-Client/1.0",
	}, nil
}

// SetToken устанавливает токен аутентификации устройства
func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	return nil
}

// Login выполняет вход устройства по PIN и возвращает токен
func (h *httpClient) Login(ctx context.Context, storeID, pin string) (string, error) {
	req := struct {
		StoreID string `json:"store_id"`
		PIN     string `json:"pin"`
	}{StoreID: storeID, PIN: pin}

	resp, err := h.doRequest(ctx, http.MethodPost, "/api/devices/login", req)
	if err != nil {
		return "", err
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := h.parseResponse(resp, &loginResp); err != nil {
		return "", err
	}

	h.token = loginResp.Token
	return loginResp.Token, nil
}

// Register регистрирует магазин на сервере
func (h *httpClient) Register(ctx context.Context, storeID, pin string) error {
	req := struct {
		StoreID string `json:"store_id"`
		PIN     string `json:"pin"`
	}{StoreID: storeID, PIN: pin}

	resp, err := h.doRequest(ctx, http.MethodPost, "/api/devices/register", req)
	if err != nil {
		return err
	}

	return h.parseResponse(resp, nil)
}

// SubmitChecklist отправляет заполненный чек-лист, возвращает id записи
func (h *httpClient) SubmitChecklist(ctx context.Context, p *ChecklistPayload) (string, error) {
	return h.submit(ctx, "/api/submissions/checklist", p)
}

// SubmitReplacement отправляет заявку на замену, возвращает id записи
func (h *httpClient) SubmitReplacement(ctx context.Context, p *ReplacementPayload) (string, error) {
	return h.submit(ctx, "/api/submissions/replacement", p)
}

// SubmitPhoto отправляет фотоотчет, возвращает id записи
func (h *httpClient) SubmitPhoto(ctx context.Context, p *PhotoPayload) (string, error) {
	return h.submit(ctx, "/api/submissions/photo", p)
}

func (h *httpClient) submit(ctx context.Context, path string, body interface{}) (string, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return "", err
	}

	var submitResp struct {
		ID string `json:"id"`
	}
	if err := h.parseResponse(resp, &submitResp); err != nil {
		return "", err
	}

	return submitResp.ID, nil
}

// UploadAttachment загружает файл вложения (base64) и возвращает удаленный URL
func (h *httpClient) UploadAttachment(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &UploadError{
			Class:   ClassTransient,
			Message: fmt.Sprintf("ошибка чтения вложения %s: %v", path, err),
		}
	}

	req := struct {
		FileName string `json:"file_name"`
		Data     string `json:"data"`
	}{
		FileName: filepath.Base(path),
		Data:     base64.StdEncoding.EncodeToString(data),
	}

	resp, err := h.doRequest(ctx, http.MethodPost, "/api/attachments", req)
	if err != nil {
		return "", err
	}

	var uploadResp struct {
		URL string `json:"url"`
	}
	if err := h.parseResponse(resp, &uploadResp); err != nil {
		return "", err
	}

	return uploadResp.URL, nil
}

// SendAnalytics отправляет аналитическое событие. Вызывающий игнорирует ошибку:
// аналитика не должна ронять отправку.
func (h *httpClient) SendAnalytics(ctx context.Context, event string, fields map[string]string) error {
	req := struct {
		Event  string            `json:"event"`
		Fields map[string]string `json:"fields,omitempty"`
	}{Event: event, Fields: fields}

	resp, err := h.doRequest(ctx, http.MethodPost, "/api/analytics", req)
	if err != nil {
		return err
	}

	return h.parseResponse(resp, nil)
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("Отправка запроса", "method", method, "url", req.URL.String())

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &UploadError{
			Class:   ClassTransient,
			Message: fmt.Sprintf("ошибка выполнения запроса: %v", err),
		}
	}

	return resp, nil
}

// parseResponse разбирает ответ сервера. Ошибочные статусы превращаются в
// классифицированный *UploadError; при конфликте в него попадает серверная
// версия сущности из тела ответа.
func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UploadError{
			Class:   ClassTransient,
			Message: fmt.Sprintf("ошибка чтения ответа: %v", err),
		}
	}

	h.log.Debug("Получен ответ", "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error         string          `json:"error"`
			Detail        string          `json:"detail"`
			ServerVersion json.RawMessage `json:"server_version"`
		}
		_ = json.Unmarshal(body, &errResp)

		message := errResp.Error
		if message == "" {
			message = errResp.Detail
		}
		if message == "" {
			message = fmt.Sprintf("сервер вернул статус %d", resp.StatusCode)
		}

		return &UploadError{
			Class:      ClassifyResponse(resp.StatusCode, message),
			Message:    message,
			ServerCopy: errResp.ServerVersion,
		}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return &UploadError{
				Class:   ClassTransient,
				Message: fmt.Sprintf("ошибка парсинга ответа: %v", err),
			}
		}
	}

	return nil
}
