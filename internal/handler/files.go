package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/tripcraft/tripcraft/internal/blob"
)

// ServeFile streams the object named by the path below /files/. Only exact
// keys are served; directories, listings and malformed keys are 404.
func (s *Server) ServeFile(store blob.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/files/")
		if blob.CheckKey(key) != nil {
			writeError(w, http.StatusNotFound, "not_found", "file not found")
			return
		}
		body, err := store.Open(r.Context(), key)
		if errors.Is(err, blob.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "file not found")
			return
		}
		if err != nil {
			s.serviceError(w, r, err, "file")
			return
		}
		defer body.Close()

		ctype := mime.TypeByExtension(path.Ext(key))
		if ctype == "" {
			ctype = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ctype)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if rs, ok := body.(io.ReadSeeker); ok {
			http.ServeContent(w, r, key, time.Time{}, rs)
			return
		}
		_, _ = io.Copy(w, body)
	}
}
