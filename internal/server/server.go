package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"upfile/internal/auth"
	"upfile/internal/blobstore"
	"upfile/internal/fetch"
)

const (
	allowRemoteEnvKey = "UPFILE_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second

	defaultMaxUploadBytes     = 100 << 20 // 100 MiB
	defaultMultipartMaxMemory = 8 << 20   // 8 MiB
)

// Options carries the runtime knobs the server needs from config.
type Options struct {
	BaseURL            string
	MaxUploadBytes     int64
	MultipartMaxMemory int64
	ConvertConcurrency int
	FetchTimeout       time.Duration
	Admin              auth.Credential
	// FetchClient overrides the outbound client used by /convert.
	FetchClient *http.Client
}

// Server wraps HTTP handlers for the upfile API.
type Server struct {
	addr            string
	store           blobstore.BlobStore
	coordinator     *fetch.Coordinator
	admin           *AdminService
	adminCredential auth.Credential
	baseURL         string
	maxUploadBytes  int64
	multipartMemory int64
	logger          *slog.Logger
}

// New creates a new server instance.
func New(addr string, store blobstore.BlobStore, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	multipartMemory := opts.MultipartMaxMemory
	if multipartMemory <= 0 {
		multipartMemory = defaultMultipartMaxMemory
	}

	fetcher := fetch.NewFetcher(store, fetch.Options{
		Timeout:  opts.FetchTimeout,
		MaxBytes: maxUpload,
		Client:   opts.FetchClient,
		Logger:   logger.With("component", "fetch"),
	})

	return &Server{
		addr:            addr,
		store:           store,
		coordinator:     fetch.NewCoordinator(fetcher, opts.ConvertConcurrency, logger.With("component", "convert")),
		admin:           NewAdminService(store),
		adminCredential: opts.Admin,
		baseURL:         normalizeBaseURL(opts.BaseURL),
		maxUploadBytes:  maxUpload,
		multipartMemory: multipartMemory,
		logger:          logger,
	}
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.withRequestLogging(s.routes())
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr, "max_upload_bytes", s.maxUploadBytes, "convert_limit", s.coordinator.Limit())
	if !s.adminCredential.Configured() {
		s.log().Warn("admin credential not configured; /admin will reject every request")
	}
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
