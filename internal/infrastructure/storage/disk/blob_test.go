package disk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func TestBlobStore_Put(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBlobStore(dir, "http://localhost:8080/", slog.Default())
	assert.NoError(t, err)

	url, err := store.Put(context.Background(), "abc.jpg", []byte("data"))
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/attachments/abc.jpg", url)

	content, err := os.ReadFile(filepath.Join(dir, "abc.jpg"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("data"), content)
}

func TestBlobStore_Put_StripsPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBlobStore(dir, "http://localhost:8080", slog.Default())
	assert.NoError(t, err)

	url, err := store.Put(context.Background(), "../../etc/evil.jpg", []byte("x"))
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/attachments/evil.jpg", url)

	_, err = os.Stat(filepath.Join(dir, "evil.jpg"))
	assert.NoError(t, err)
}
