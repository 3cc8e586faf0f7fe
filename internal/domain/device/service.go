package device

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

const (
	minPINLen     = 4
	maxPINLen     = 12
	minStoreIDLen = 2
)

type Servicer interface {
	Register(ctx context.Context, storeID, pin string) error
	Authenticate(ctx context.Context, storeID, pin string) (string, error)
	Validate(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, storeID string) error
}

type Service struct {
	repo     Repository
	tokenTTL time.Duration
	log      *slog.Logger
}

func NewService(repo Repository, tokenTTL time.Duration, log *slog.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		repo:     repo,
		tokenTTL: tokenTTL,
		log:      log.With("component", "device_service"),
	}
}

// Register создает учетную запись магазина. PIN хранится только в виде
// bcrypt-хэша.
func (s *Service) Register(ctx context.Context, storeID, pin string) error {
	if len(storeID) < minStoreIDLen {
		return fmt.Errorf("%w: store id too short", ErrInvalidInput)
	}
	if len(pin) < minPINLen || len(pin) > maxPINLen {
		return fmt.Errorf("%w: pin must be %d-%d characters", ErrInvalidInput, minPINLen, maxPINLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}

	return s.repo.Create(ctx, storeID, string(hash))
}

// Authenticate проверяет PIN и выдает bearer-токен. В хранилище попадает
// только sha256-хэш токена.
func (s *Service) Authenticate(ctx context.Context, storeID, pin string) (string, error) {
	dev, err := s.repo.FindByStore(ctx, storeID)
	if err != nil {
		s.log.Debug("device lookup failed", "store_id", storeID, "error", err)
		return "", ErrInvalidAuth
	}

	if err := bcrypt.CompareHashAndPassword([]byte(dev.PINHash), []byte(pin)); err != nil {
		return "", ErrInvalidAuth
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	if err := s.repo.CreateSession(ctx, storeID, hashToken(token),
		time.Now().Add(s.tokenTTL)); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	s.log.Info("device authenticated", "store_id", storeID)
	return token, nil
}

// Validate возвращает store_id, которому принадлежит токен
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	return s.repo.ValidateSession(ctx, hashToken(token))
}

// Revoke отзывает все сессии магазина
func (s *Service) Revoke(ctx context.Context, storeID string) error {
	return s.repo.DeleteSessions(ctx, storeID)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
