package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/folio/internal/storage"
)

func newFilesMux(t *testing.T) (*http.ServeMux, storage.Storage) {
	t.Helper()
	store, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: t.TempDir(), BaseURL: "/files"}, discardLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "images/folio.png", strings.NewReader("png bytes"), storage.PutOptions{}))
	require.NoError(t, store.Put(ctx, "notes/readme.txt", strings.NewReader("text"), storage.PutOptions{}))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /files/{key...}", Files(store, discardLogger()))
	return mux, store
}

func TestFiles(t *testing.T) {
	mux, _ := newFilesMux(t)

	rec := get(t, mux, "/files/images/folio.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("Last-Modified"))
	assert.Equal(t, "png bytes", rec.Body.String())
}

func TestFiles_NotServed(t *testing.T) {
	mux, _ := newFilesMux(t)

	for _, path := range []string{
		"/files/images/missing.png",
		"/files/notes/readme.txt",
		"/files/images",
	} {
		rec := get(t, mux, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestFiles_InvalidKey(t *testing.T) {
	_, store := newFilesMux(t)

	req := httptest.NewRequest(http.MethodGet, "/files/x", nil)
	req.SetPathValue("key", "../secret.png")
	rec := httptest.NewRecorder()
	Files(store, discardLogger())(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFiles_ConditionalRequest(t *testing.T) {
	mux, _ := newFilesMux(t)

	first := get(t, mux, "/files/images/folio.png")
	require.Equal(t, http.StatusOK, first.Code)

	req := httptest.NewRequest(http.MethodGet, "/files/images/folio.png", nil)
	req.Header.Set("If-Modified-Since", first.Header().Get("Last-Modified"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

type erroringStore struct {
	storage.Storage
	err error
}

func (s erroringStore) Get(context.Context, string) (io.ReadCloser, storage.ObjectInfo, error) {
	return nil, storage.ObjectInfo{}, &storage.StorageError{Op: "Get", Err: s.err}
}

func TestFiles_StorageErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"access denied", storage.ErrAccessDenied, http.StatusForbidden},
		{"backend failure", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /files/{key...}", Files(erroringStore{err: tt.err}, discardLogger()))

			rec := get(t, mux, "/files/images/folio.png")
			assert.Equal(t, tt.want, rec.Code)
			assert.NotContains(t, rec.Body.String(), "connection reset")
		})
	}
}
