package client

import (
	"errors"
	"net/http"
	"testing"
)

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   ErrorClass
	}{
		{"unauthorized status", http.StatusUnauthorized, "", ClassAuth},
		{"forbidden status", http.StatusForbidden, "", ClassAuth},
		{"conflict status", http.StatusConflict, "", ClassConflict},
		{"bad request", http.StatusBadRequest, "", ClassValidation},
		{"unprocessable", http.StatusUnprocessableEntity, "", ClassValidation},
		{"too large", http.StatusRequestEntityTooLarge, "", ClassQuota},
		{"rate limited", http.StatusTooManyRequests, "", ClassQuota},
		{"server error", http.StatusInternalServerError, "", ClassTransient},
		{"bad gateway", http.StatusBadGateway, "", ClassTransient},
		{"auth text", http.StatusOK, "request unauthorized", ClassAuth},
		{"token text", http.StatusOK, "invalid token", ClassAuth},
		{"conflict text", http.StatusInternalServerError, "version conflict detected", ClassConflict},
		{"validation text", http.StatusOK, "invalid field sku", ClassValidation},
		{"quota text", http.StatusOK, "storage quota reached", ClassQuota},
		{"rate limit text", http.StatusOK, "rate limit", ClassQuota},
		{"unknown text", http.StatusOK, "something odd", ClassTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyResponse(tt.status, tt.body); got != tt.want {
				t.Errorf("ClassifyResponse(%d, %q) = %s, ожидалось %s",
					tt.status, tt.body, got, tt.want)
			}
		})
	}
}

func TestAsUploadError(t *testing.T) {
	ue := &UploadError{Class: ClassQuota, Message: "quota"}
	if got := AsUploadError(ue); got.Class != ClassQuota {
		t.Errorf("Класс должен сохраняться: %s", got.Class)
	}

	plain := errors.New("connection refused")
	if got := AsUploadError(plain); got.Class != ClassTransient {
		t.Errorf("Неклассифицированная ошибка должна быть transient: %s", got.Class)
	}
}
