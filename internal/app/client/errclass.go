package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ErrorClass классификация ошибки отправки на границе оркестратора
type ErrorClass string

const (
	// ClassAuth — сессия недействительна, повтор бессмыслен, нужен глобальный logout
	ClassAuth ErrorClass = "auth"
	// ClassConflict — сущность на сервере изменилась, нужно ручное разрешение
	ClassConflict ErrorClass = "conflict"
	// ClassValidation — сервер отверг payload, повтор того же payload не поможет
	ClassValidation ErrorClass = "validation"
	// ClassQuota — превышены лимиты аккаунта или хранилища
	ClassQuota ErrorClass = "quota"
	// ClassTransient — сетевые и серверные сбои, повторяем с backoff
	ClassTransient ErrorClass = "transient"
)

// UploadError классифицированная ошибка отправки. Uploader никогда не
// проглатывает ошибки: любой сбой доходит до оркестратора в этом виде.
type UploadError struct {
	Class      ErrorClass
	Message    string
	ServerCopy json.RawMessage // серверная версия сущности, заполняется при конфликте
}

func (e *UploadError) Error() string {
	return e.Message
}

// AsUploadError приводит ошибку к *UploadError; всё неклассифицированное
// считается transient
func AsUploadError(err error) *UploadError {
	var ue *UploadError
	if errors.As(err, &ue) {
		return ue
	}
	return &UploadError{Class: ClassTransient, Message: err.Error()}
}

// ClassifyResponse определяет класс ошибки по HTTP-статусу и тексту ответа.
// Статус имеет приоритет, текст — запасной сигнал для прокси, которые
// заворачивают всё в 200/500.
func ClassifyResponse(status int, body string) ErrorClass {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ClassAuth
	case http.StatusConflict:
		return ClassConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ClassValidation
	case http.StatusRequestEntityTooLarge, http.StatusTooManyRequests:
		return ClassQuota
	}

	lower := strings.ToLower(body)
	switch {
	case strings.Contains(lower, "unauthorized"), strings.Contains(lower, "token"):
		return ClassAuth
	case strings.Contains(lower, "conflict"):
		return ClassConflict
	case strings.Contains(lower, "validation"), strings.Contains(lower, "invalid"):
		return ClassValidation
	case strings.Contains(lower, "quota"), strings.Contains(lower, "limit exceeded"),
		strings.Contains(lower, "rate limit"):
		return ClassQuota
	}

	return ClassTransient
}
