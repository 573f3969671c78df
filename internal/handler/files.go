package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/DukeRupert/folio/internal/storage"
)

// filesCacheControl matches the Cache-Control the media library stores with
// each object.
const filesCacheControl = "public, max-age=86400"

// Files serves published media from store under GET /files/{key...}. Only
// image objects are served.
func Files(store storage.Storage, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")

		body, info, err := store.Get(r.Context(), key)
		switch {
		case storage.IsNotFound(err), storage.IsInvalidKey(err):
			http.NotFound(w, r)
			return
		case storage.IsAccessDenied(err):
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		case err != nil:
			logger.Error("failed to read media", "key", key, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		defer body.Close()

		if !storage.IsImage(info.ContentType) {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", info.ContentType)
		w.Header().Set("Cache-Control", filesCacheControl)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if info.ETag != "" {
			w.Header().Set("ETag", info.ETag)
		}

		if rs, ok := body.(io.ReadSeeker); ok {
			http.ServeContent(w, r, key, info.LastModified, rs)
			return
		}

		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
		if _, err := io.Copy(w, body); err != nil {
			logger.Debug("media copy interrupted", "key", key, "error", err)
		}
	}
}
