package attachment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, att *Attachment) error {
	args := m.Called(ctx, att)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, storeID string) ([]Attachment, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Attachment), args.Error(1)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	args := m.Called(ctx, name, data)
	return args.String(0), args.Error(1)
}

func TestService_Save(t *testing.T) {
	repo := new(MockRepository)
	blobs := new(MockBlobStore)
	svc := NewService(repo, blobs, slog.Default())

	// Имя блоба генерируется сервером, клиентское имя не используется
	blobs.On("Put", mock.Anything, mock.MatchedBy(func(name string) bool {
		return strings.HasSuffix(name, ".jpg") && !strings.Contains(name, "shelf")
	}), []byte("data")).Return("http://cdn.local/x.jpg", nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(att *Attachment) bool {
		return att.FileName == "shelf.jpg" && att.URL == "http://cdn.local/x.jpg" && att.Size == 4
	})).Return(nil)

	att, err := svc.Save(context.Background(), "store-1", "../photos/shelf.jpg", []byte("data"))

	assert.NoError(t, err)
	assert.Equal(t, "http://cdn.local/x.jpg", att.URL)
	repo.AssertExpectations(t)
	blobs.AssertExpectations(t)
}

func TestService_Save_Empty(t *testing.T) {
	svc := NewService(new(MockRepository), new(MockBlobStore), slog.Default())

	_, err := svc.Save(context.Background(), "store-1", "a.jpg", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Save_TooLarge(t *testing.T) {
	svc := NewService(new(MockRepository), new(MockBlobStore), slog.Default())

	_, err := svc.Save(context.Background(), "store-1", "a.bin", make([]byte, maxSize+1))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestService_Save_BlobError(t *testing.T) {
	repo := new(MockRepository)
	blobs := new(MockBlobStore)
	svc := NewService(repo, blobs, slog.Default())

	blobs.On("Put", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("disk full"))

	_, err := svc.Save(context.Background(), "store-1", "a.jpg", []byte("data"))
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create")
}
