package fetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"upfile/internal/blobstore"
)

func newTestStore(t *testing.T) *blobstore.LocalDir {
	t.Helper()
	store, err := blobstore.NewLocalDir(t.TempDir())
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}
	return store
}

func storedCount(t *testing.T, store *blobstore.LocalDir) int {
	t.Helper()
	entries, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	return len(entries)
}

func TestFetcherStoresBody(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "jpeg-bytes")
	}))
	defer origin.Close()

	store := newTestStore(t)
	f := NewFetcher(store, Options{})
	outcome := f.Fetch(context.Background(), origin.URL+"/images/x.jpg")
	if !outcome.OK() {
		t.Fatalf("expected success, got %#v", outcome)
	}
	if !strings.HasSuffix(outcome.Name, ".jpg") {
		t.Fatalf("expected .jpg identifier, got %q", outcome.Name)
	}
	if outcome.SizeBytes != int64(len("jpeg-bytes")) {
		t.Fatalf("unexpected size %d", outcome.SizeBytes)
	}

	obj, err := store.Open(context.Background(), outcome.Name)
	if err != nil {
		t.Fatalf("open stored object: %v", err)
	}
	defer obj.Content.Close()
	data, _ := io.ReadAll(obj.Content)
	if string(data) != "jpeg-bytes" {
		t.Fatalf("unexpected content %q", string(data))
	}
}

func TestFetcherExtensionFallbacks(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/download" {
			w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		}
		_, _ = io.WriteString(w, "data")
	}))
	defer origin.Close()

	f := NewFetcher(newTestStore(t), Options{})

	outcome := f.Fetch(context.Background(), origin.URL+"/download")
	if !outcome.OK() || !strings.HasSuffix(outcome.Name, ".pdf") {
		t.Fatalf("expected content-disposition extension, got %#v", outcome)
	}

	outcome = f.Fetch(context.Background(), origin.URL+"/raw")
	if !outcome.OK() || !strings.HasSuffix(outcome.Name, ".bin") {
		t.Fatalf("expected .bin fallback, got %#v", outcome)
	}
}

func TestFetcherNon200(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer origin.Close()

	store := newTestStore(t)
	target := origin.URL + "/y.png"
	outcome := NewFetcher(store, Options{}).Fetch(context.Background(), target)
	if outcome.OK() {
		t.Fatal("expected failure")
	}
	if outcome.Failure != FailureStatus || outcome.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected outcome: %#v", outcome)
	}
	if !strings.HasPrefix(outcome.Message, "Lỗi") || !strings.Contains(outcome.Message, "404") || !strings.Contains(outcome.Message, target) {
		t.Fatalf("unexpected message %q", outcome.Message)
	}
	if n := storedCount(t, store); n != 0 {
		t.Fatalf("expected nothing stored, got %d", n)
	}
}

func TestFetcherConnectionError(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := origin.URL + "/gone.txt"
	origin.Close()

	outcome := NewFetcher(newTestStore(t), Options{Timeout: time.Second}).Fetch(context.Background(), target)
	if outcome.Failure != FailureNetwork {
		t.Fatalf("expected network failure, got %#v", outcome)
	}
	if !strings.Contains(outcome.Message, target) {
		t.Fatalf("expected url in message, got %q", outcome.Message)
	}
}

func TestFetcherUnexpectedError(t *testing.T) {
	outcome := NewFetcher(newTestStore(t), Options{}).Fetch(context.Background(), "ftp://example.invalid/a.txt")
	if outcome.Failure != FailureUnexpected {
		t.Fatalf("expected unexpected failure, got %#v", outcome)
	}
	if !strings.Contains(outcome.Message, "ftp://example.invalid/a.txt") {
		t.Fatalf("expected url in message, got %q", outcome.Message)
	}
}

func TestFetcherIdleTimeoutLeavesNoObject(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "partial")
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer origin.Close()

	store := newTestStore(t)
	outcome := NewFetcher(store, Options{Timeout: 100 * time.Millisecond}).Fetch(context.Background(), origin.URL+"/slow.bin")
	if outcome.Failure != FailureNetwork {
		t.Fatalf("expected network failure, got %#v", outcome)
	}
	if n := storedCount(t, store); n != 0 {
		t.Fatalf("expected partial object removed, got %d entries", n)
	}
}

func TestFetcherTooLarge(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 8; i++ {
			_, _ = io.WriteString(w, "0123456789")
			w.(http.Flusher).Flush()
		}
	}))
	defer origin.Close()

	store := newTestStore(t)
	outcome := NewFetcher(store, Options{MaxBytes: 16}).Fetch(context.Background(), origin.URL+"/big.bin")
	if outcome.Failure != FailureUnexpected {
		t.Fatalf("expected unexpected failure, got %#v", outcome)
	}
	if !strings.Contains(outcome.Message, "larger than") {
		t.Fatalf("expected size message, got %q", outcome.Message)
	}
	if n := storedCount(t, store); n != 0 {
		t.Fatalf("expected nothing stored, got %d", n)
	}
}
