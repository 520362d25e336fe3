package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"upfile/internal/api"
	"upfile/internal/models"
)

type adminPageData struct {
	Admin   string
	Notice  string
	Listing models.FileListing
}

func (s *Server) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	admin, _ := adminFromContext(r.Context())

	if r.Method == http.MethodPost {
		if !sameOrigin(r) {
			s.writeErrorReq(w, r, http.StatusForbidden, forbidden(fmt.Errorf("cross-origin form submission rejected")))
			return
		}
		if err := r.ParseForm(); err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidArgument))
			return
		}
		action := strings.TrimSpace(r.PostFormValue("action"))
		if action != "delete" {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("unsupported action %q", action), ErrCodeInvalidArgument))
			return
		}
		filename := strings.TrimSpace(r.PostFormValue("filename"))
		if err := s.admin.Delete(r.Context(), filename); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.log().Info("file deleted", "name", filename, "admin", admin)

		target := url.Values{}
		target.Set("deleted", filename)
		if q := strings.TrimSpace(r.PostFormValue("q")); q != "" {
			target.Set("q", q)
		}
		http.Redirect(w, r, "/admin?"+target.Encode(), http.StatusSeeOther)
		return
	}

	listing, err := s.admin.List(r.Context(), r.URL.Query().Get("q"), s.publicURLFunc(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	data := adminPageData{Admin: admin, Listing: listing}
	if deleted := strings.TrimSpace(r.URL.Query().Get("deleted")); deleted != "" {
		data.Notice = "Deleted " + deleted
	}
	s.renderHTML(w, r, adminPageTemplate(), data)
}

// sameOrigin reports whether a form post came from this host. Requests
// without an Origin header pass.
func sameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (s *Server) handleAdminListFiles(w http.ResponseWriter, r *http.Request) {
	listing, err := s.admin.List(r.Context(), r.URL.Query().Get("q"), s.publicURLFunc(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FileListResponse(listing))
}

func (s *Server) handleAdminDeleteFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.admin.Delete(r.Context(), name); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	admin, _ := adminFromContext(r.Context())
	s.log().Info("file deleted", "name", name, "admin", admin)
	s.writeJSON(w, http.StatusOK, api.DeleteResponse{Deleted: name})
}
