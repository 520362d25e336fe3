package server

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"

	"upfile/internal/blobstore"
)

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("id")
	if !blobstore.ValidName(name) {
		s.writeErrorReq(w, r, http.StatusNotFound, notFoundCode(fmt.Errorf("file not found"), ErrCodeFileNotFound))
		return
	}

	obj, err := s.store.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) || errors.Is(err, blobstore.ErrInvalidName) {
			s.writeErrorReq(w, r, http.StatusNotFound, notFoundCode(fmt.Errorf("file not found"), ErrCodeFileNotFound))
			return
		}
		s.writeStoreError(w, r, err)
		return
	}
	defer obj.Content.Close()

	h := w.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Security-Policy", "sandbox")
	if !servedInline(obj.Name) {
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": obj.Name}))
	}
	http.ServeContent(w, r, obj.Name, obj.ModTime, obj.Content)
}

// servedInline reports whether a stored file may render in the browser.
// Markup types (html, svg, xml) are always downloaded.
func servedInline(name string) bool {
	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ctype)
	if err != nil {
		return false
	}
	switch {
	case mediaType == "image/svg+xml":
		return false
	case strings.HasPrefix(mediaType, "image/"),
		strings.HasPrefix(mediaType, "video/"),
		strings.HasPrefix(mediaType, "audio/"):
		return true
	case mediaType == "text/plain", mediaType == "application/pdf":
		return true
	default:
		return false
	}
}
