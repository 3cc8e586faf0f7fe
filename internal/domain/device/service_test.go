package device

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, storeID, pinHash string) error {
	args := m.Called(ctx, storeID, pinHash)
	return args.Error(0)
}

func (m *MockRepository) FindByStore(ctx context.Context, storeID string) (*Device, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Device), args.Error(1)
}

func (m *MockRepository) CreateSession(ctx context.Context, storeID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, storeID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) ValidateSession(ctx context.Context, tokenHash string) (string, error) {
	args := m.Called(ctx, tokenHash)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) DeleteSessions(ctx context.Context, storeID string) error {
	args := m.Called(ctx, storeID)
	return args.Error(0)
}

func hashedPIN(t *testing.T, pin string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func TestService_Register(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, time.Hour, slog.Default())

	repo.On("Create", mock.Anything, "store-1", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("1234")) == nil
	})).Return(nil)

	err := svc.Register(context.Background(), "store-1", "1234")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_Register_Validation(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, time.Hour, slog.Default())

	assert.ErrorIs(t, svc.Register(context.Background(), "s", "1234"), ErrInvalidInput)
	assert.ErrorIs(t, svc.Register(context.Background(), "store-1", "12"), ErrInvalidInput)
	repo.AssertNotCalled(t, "Create")
}

func TestService_Authenticate(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, time.Hour, slog.Default())

	repo.On("FindByStore", mock.Anything, "store-1").
		Return(&Device{StoreID: "store-1", PINHash: hashedPIN(t, "1234")}, nil)
	repo.On("CreateSession", mock.Anything, "store-1", mock.Anything, mock.Anything).
		Return(nil)

	token, err := svc.Authenticate(context.Background(), "store-1", "1234")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	repo.AssertExpectations(t)
}

func TestService_Authenticate_WrongPIN(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, time.Hour, slog.Default())

	repo.On("FindByStore", mock.Anything, "store-1").
		Return(&Device{StoreID: "store-1", PINHash: hashedPIN(t, "1234")}, nil)

	_, err := svc.Authenticate(context.Background(), "store-1", "9999")
	assert.ErrorIs(t, err, ErrInvalidAuth)
	repo.AssertNotCalled(t, "CreateSession")
}

func TestService_Authenticate_UnknownStore(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, time.Hour, slog.Default())

	repo.On("FindByStore", mock.Anything, "ghost").Return(nil, ErrNotFound)

	_, err := svc.Authenticate(context.Background(), "ghost", "1234")
	assert.ErrorIs(t, err, ErrInvalidAuth)
}

func TestService_Validate(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, time.Hour, slog.Default())

	// Сырой токен в хранилище не попадает, только его хэш
	repo.On("ValidateSession", mock.Anything, mock.MatchedBy(func(hash string) bool {
		return hash != "raw-token" && len(hash) == 64
	})).Return("store-1", nil)

	storeID, err := svc.Validate(context.Background(), "raw-token")
	assert.NoError(t, err)
	assert.Equal(t, "store-1", storeID)
}
