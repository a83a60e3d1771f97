package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return s
}

func TestSaveNamesFilesByTimeAndUUID(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	key, err := s.Save(context.Background(), ".JPG", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^1700000000000-[0-9a-f-]{36}\.jpg$`), key)
	data, err := os.ReadFile(filepath.Join(s.Dir(), key))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestSaveAcceptsExtensionWithoutDot(t *testing.T) {
	s := newTestStore(t)

	key, err := s.Save(context.Background(), "png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".png"))
}

func TestOpenAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key, err := s.Save(ctx, ".gif", strings.NewReader("gif"))
	require.NoError(t, err)

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "gif", string(data))

	require.NoError(t, s.Delete(ctx, key))
	assert.ErrorIs(t, s.Delete(ctx, key), ErrNotFound)

	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectsTraversal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"../secret", "../../etc/passwd", "", "."} {
		t.Run(key, func(t *testing.T) {
			_, err := s.Open(ctx, key)
			assert.Error(t, err)
			assert.Error(t, s.Delete(ctx, key))
		})
	}
}
