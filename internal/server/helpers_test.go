package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"upfile/internal/auth"
	"upfile/internal/blobstore"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "correct-horse"
)

func newTestServer(t *testing.T, opts Options) (*Server, *blobstore.LocalDir, *httptest.Server) {
	t.Helper()
	store, err := blobstore.NewLocalDir(t.TempDir())
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}
	if !opts.Admin.Configured() {
		hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		opts.Admin = auth.NewCredential(testAdminUser, string(hash))
	}
	srv := New("127.0.0.1:0", store, opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, store, ts
}

type uploadPart struct {
	field    string
	filename string
	content  []byte
}

func multipartBody(t *testing.T, parts []uploadPart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, part := range parts {
		var (
			w   io.Writer
			err error
		)
		if part.filename == "" {
			w, err = mw.CreateFormField(part.field)
		} else {
			w, err = mw.CreateFormFile(part.field, part.filename)
		}
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := w.Write(part.content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func postUpload(t *testing.T, ts *httptest.Server, parts []uploadPart) *http.Response {
	t.Helper()
	body, contentType := multipartBody(t, parts)
	resp, err := http.Post(ts.URL+"/upload", contentType, body)
	if err != nil {
		t.Fatalf("post upload: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func storedNames(t *testing.T, store blobstore.BlobStore) []string {
	t.Helper()
	entries, err := store.List(t.Context())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return names
}
