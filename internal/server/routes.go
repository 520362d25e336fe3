package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Pages and health.
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /docs", s.handleDocs)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Ingest. Bodies are capped before the handlers read them.
	mux.Handle("POST /upload", s.withBodyLimit(http.HandlerFunc(s.handleUpload)))
	mux.Handle("POST /convert", s.withBodyLimit(http.HandlerFunc(s.handleConvert)))

	// Stored objects.
	mux.HandleFunc("GET /files/{id}", s.handleGetFile)

	// Admin.
	mux.HandleFunc("GET /admin", s.withAdminAuth(s.handleAdminPage))
	mux.HandleFunc("POST /admin", s.withAdminAuth(s.handleAdminPage))
	mux.HandleFunc("GET /admin/files", s.withAdminAuth(s.handleAdminListFiles))
	mux.HandleFunc("DELETE /admin/files/{name}", s.withAdminAuth(s.handleAdminDeleteFile))

	return mux
}
