package server

import (
	"net/http"
	"net/url"
	"strings"
)

// normalizeBaseURL trims a configured base and guarantees a trailing slash.
// Empty means derive from each request.
func normalizeBaseURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if !strings.HasSuffix(trimmed, "/") {
		trimmed += "/"
	}
	return trimmed
}

func (s *Server) requestBaseURL(r *http.Request) string {
	if s.baseURL != "" {
		return s.baseURL
	}
	return requestScheme(r) + "://" + r.Host + "/"
}

func requestScheme(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); forwarded != "" {
		proto, _, _ := strings.Cut(forwarded, ",")
		proto = strings.ToLower(strings.TrimSpace(proto))
		if proto == "http" || proto == "https" {
			return proto
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// publicURLFunc returns the mapping from stored name to public URL for r.
func (s *Server) publicURLFunc(r *http.Request) func(name string) string {
	base := s.requestBaseURL(r)
	return func(name string) string {
		return base + "files/" + url.PathEscape(name)
	}
}
