package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"time"

	"upfile/internal/blobstore"
	"upfile/internal/ident"
)

const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 100 << 20 // 100 MiB
)

// Options tunes a Fetcher. Zero values select the defaults.
type Options struct {
	Timeout  time.Duration
	MaxBytes int64
	Client   *http.Client
	Logger   *slog.Logger
}

// Fetcher downloads one URL into the blob store.
type Fetcher struct {
	store    blobstore.BlobStore
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	logger   *slog.Logger
}

// NewFetcher builds a Fetcher writing into store.
func NewFetcher(store blobstore.BlobStore, opts Options) *Fetcher {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxBytes
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Transport: newTransport(timeout)}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{store: store, client: client, timeout: timeout, maxBytes: maxBytes, logger: logger}
}

func newTransport(timeout time.Duration) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if timeout <= 0 {
		return transport
	}
	dialer := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout
	return transport
}

// Fetch performs one GET and stores the body under a new identifier. It
// never returns an error; failures are described by the Outcome.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) Outcome {
	outcome := f.fetch(ctx, rawURL)
	if outcome.OK() {
		f.logger.Debug("fetch stored", "url", rawURL, "name", outcome.Name, "size_bytes", outcome.SizeBytes)
	} else {
		f.logger.Warn("fetch failed", "url", rawURL, "kind", outcome.Failure, "status", outcome.StatusCode, "error", outcome.Message)
	}
	return outcome
}

func (f *Fetcher) fetch(parent context.Context, rawURL string) Outcome {
	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return unexpectedFailure(rawURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return classifyFailure(ctx, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusFailure(rawURL, resp.StatusCode)
	}
	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return unexpectedFailure(rawURL, &tooLargeError{limit: f.maxBytes})
	}

	var body io.Reader = resp.Body
	if f.timeout > 0 {
		idle := newIdleTimeoutReader(body, f.timeout, cancel)
		defer idle.stop()
		body = idle
	}
	body = newLimitReader(body, f.maxBytes)

	name := ident.GenerateWithFallback(sourceFilename(rawURL, resp.Header), ident.FallbackExtension)
	entry, err := f.store.Put(ctx, name, body)
	if err != nil {
		return classifyFailure(ctx, rawURL, err)
	}
	return succeeded(rawURL, entry.Name, entry.SizeBytes)
}

// sourceFilename picks the name whose extension the stored object inherits:
// the URL path first, then a Content-Disposition filename.
func sourceFilename(rawURL string, header http.Header) string {
	if u, err := url.Parse(rawURL); err == nil && ident.Extension(u.Path) != "" {
		return u.Path
	}
	if disposition := header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if filename := params["filename"]; ident.Extension(filename) != "" {
				return filename
			}
		}
	}
	return ""
}

func classifyFailure(ctx context.Context, rawURL string, err error) Outcome {
	if cause := context.Cause(ctx); errors.Is(cause, errIdleTimeout) {
		return networkFailure(rawURL, cause)
	}
	var tooLarge *tooLargeError
	if errors.As(err, &tooLarge) {
		return unexpectedFailure(rawURL, tooLarge)
	}
	if isNetworkError(err) {
		return networkFailure(rawURL, err)
	}
	return unexpectedFailure(rawURL, err)
}

func isNetworkError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		err = urlErr.Err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
