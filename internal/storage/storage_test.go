package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(LocalConfig{BasePath: t.TempDir(), BaseURL: "http://localhost:8080/files/"}, discardLogger())
	require.NoError(t, err)
	return s
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "images/folio.png", ImageKey("folio.png"))
	assert.Equal(t, "images/projects/folio.png", ImageKey("projects/./folio.png"))
	assert.Equal(t, "thumbnails/folio.jpg", ThumbnailKey("folio.png"))
	assert.Equal(t, "thumbnails/projects/shot.jpg", ThumbnailKey("projects/shot.webp"))
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	require.NoError(t, s.Put(ctx, "images/a.png", strings.NewReader("png bytes"), PutOptions{}))

	exists, err := s.Exists(ctx, "images/a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, info, err := s.Get(ctx, "images/a.png")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(body))
	assert.Equal(t, int64(9), info.Size)
	assert.Equal(t, "image/png", info.ContentType)

	url, err := s.URL(ctx, "images/a.png", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/images/a.png", url)

	require.NoError(t, s.Delete(ctx, "images/a.png"))
	require.NoError(t, s.Delete(ctx, "images/a.png"))

	_, _, err = s.Get(ctx, "images/a.png")
	assert.True(t, IsNotFound(err))
}

func TestLocalStorage_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	require.NoError(t, s.Put(ctx, "k.txt", strings.NewReader("one"), PutOptions{}))

	err := s.Put(ctx, "k.txt", strings.NewReader("two"), PutOptions{})
	assert.ErrorIs(t, err, ErrKeyExists)

	require.NoError(t, s.Put(ctx, "k.txt", strings.NewReader("three"), PutOptions{Overwrite: true}))
	rc, _, err := s.Get(ctx, "k.txt")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "three", string(body))
}

func TestLocalStorage_MaxSize(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	err := s.Put(ctx, "big.bin", strings.NewReader("0123456789"), PutOptions{MaxSize: 4})
	assert.True(t, IsTooLarge(err))

	exists, err := s.Exists(ctx, "big.bin")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	for _, key := range []string{"", ".", "../secret", "a/../../b", "/etc/passwd"} {
		err := s.Put(ctx, key, strings.NewReader("x"), PutOptions{})
		assert.True(t, IsInvalidKey(err), "key %q", key)
	}
}

func TestLocalStorage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newLocal(t)
	err := s.Put(ctx, "k.txt", strings.NewReader("x"), PutOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestR2Storage_URL(t *testing.T) {
	ctx := context.Background()

	public, err := NewR2Storage(R2Config{
		AccountID:       "acct",
		AccessKeyID:     "id",
		SecretAccessKey: "secret",
		BucketName:      "folio",
		PublicURL:       "https://media.example.com/",
	}, discardLogger())
	require.NoError(t, err)

	url, err := public.URL(ctx, "images/a.png", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/images/a.png", url)

	signed, err := public.URL(ctx, "images/a.png", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, signed, "acct.r2.cloudflarestorage.com")
	assert.Contains(t, signed, "X-Amz-Signature")

	_, err = public.URL(ctx, "../a.png", 0)
	assert.True(t, IsInvalidKey(err))
}

func TestNewR2Storage_RequiresBucket(t *testing.T) {
	_, err := NewR2Storage(R2Config{AccountID: "acct"}, discardLogger())
	assert.Error(t, err)
}

func TestWrapS3Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found type", &types.NotFound{}, ErrNotFound},
		{"no such key type", &types.NoSuchKey{}, ErrNotFound},
		{"access denied code", &smithy.GenericAPIError{Code: "AccessDenied"}, ErrAccessDenied},
		{"no such key code", &smithy.GenericAPIError{Code: "NoSuchKey"}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, wrapS3Error(tt.err), tt.want)
		})
	}

	other := errors.New("connection reset")
	wrapped := wrapS3Error(other)
	assert.ErrorIs(t, wrapped, other)
	assert.Contains(t, wrapped.Error(), "R2 operation failed")
	assert.NoError(t, wrapS3Error(nil))
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "text/plain", DetectContentType("text/plain", "a.png", nil))
	assert.Equal(t, "image/png", DetectContentType("", "a.PNG", nil))
	assert.Equal(t, "application/octet-stream", DetectContentType("", "noext", nil))
	assert.True(t, IsAllowedImageType("image/jpeg; charset=binary"))
	assert.False(t, IsAllowedImageType("image/svg+xml"))
}

func TestLocalStorage_GetDirectory(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)
	require.NoError(t, s.Put(ctx, "images/a.png", strings.NewReader("x"), PutOptions{}))

	_, _, err := s.Get(ctx, "images")
	assert.True(t, IsNotFound(err))
}

func TestStorageError(t *testing.T) {
	err := &StorageError{Op: "Get", Key: "images/a.png", Err: ErrAccessDenied}
	assert.Equal(t, `storage Get "images/a.png": access denied`, err.Error())
	assert.True(t, IsAccessDenied(err))
	assert.False(t, IsNotFound(err))

	assert.Equal(t, "storage URL: invalid storage key", (&StorageError{Op: "URL", Err: ErrInvalidKey}).Error())
}
