package server

import (
	"fmt"
	"net/http"
)

const adminRealm = `Basic realm="upfile admin", charset="UTF-8"`

// withAdminAuth requires HTTP basic credentials matching the configured admin.
func (s *Server) withAdminAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || !s.adminCredential.Verify(username, password) {
			w.Header().Set("WWW-Authenticate", adminRealm)
			s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("authentication required")))
			return
		}
		next(w, r.WithContext(contextWithAdmin(r.Context(), username)))
	}
}
