package server

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestListenAddrRemoteGuard(t *testing.T) {
	t.Run("allows loopback", func(t *testing.T) {
		t.Setenv(allowRemoteEnvKey, "")
		addr, err := ListenAddr("http://127.0.0.1:8000")
		if err != nil {
			t.Fatalf("expected loopback to be allowed, got error: %v", err)
		}
		if addr != "127.0.0.1:8000" {
			t.Fatalf("unexpected addr: %s", addr)
		}
	})

	t.Run("blocks non-loopback by default", func(t *testing.T) {
		t.Setenv(allowRemoteEnvKey, "")
		if _, err := ListenAddr("http://0.0.0.0:8000"); err == nil {
			t.Fatal("expected error for non-loopback listen host")
		}
	})

	t.Run("allows non-loopback when explicitly enabled", func(t *testing.T) {
		t.Setenv(allowRemoteEnvKey, "true")
		addr, err := ListenAddr("http://0.0.0.0:8000")
		if err != nil {
			t.Fatalf("expected allow-remote to permit host, got error: %v", err)
		}
		if addr != "0.0.0.0:8000" {
			t.Fatalf("unexpected addr: %s", addr)
		}
	})

	t.Run("requires a value", func(t *testing.T) {
		if _, err := ListenAddr(""); err == nil {
			t.Fatal("expected error for empty api url")
		}
	})
}

func TestHealth(t *testing.T) {
	_, _, ts := newTestServer(t, Options{})
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Fatalf("unexpected body: %#v", body)
	}
}

func TestPages(t *testing.T) {
	_, _, ts := newTestServer(t, Options{})

	cases := []struct {
		path string
		want string
	}{
		{path: "/", want: `action="/upload"`},
		{path: "/docs", want: "POST /convert</h2>"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tc.path)
			if err != nil {
				t.Fatalf("get %s: %v", tc.path, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Fatalf("unexpected content type %q", ct)
			}
			data, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(data), tc.want) {
				t.Fatalf("expected %q in body, got:\n%s", tc.want, string(data))
			}
		})
	}
}

func TestUnknownPathIsNotFound(t *testing.T) {
	_, _, ts := newTestServer(t, Options{})
	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestPublicURL(t *testing.T) {
	t.Run("configured base gains trailing slash", func(t *testing.T) {
		srv := &Server{baseURL: normalizeBaseURL(" https://cdn.example.com/up ")}
		req, _ := http.NewRequest(http.MethodGet, "http://127.0.0.1/", nil)
		got := srv.publicURLFunc(req)("a b.jpg")
		if got != "https://cdn.example.com/up/files/a%20b.jpg" {
			t.Fatalf("unexpected url %q", got)
		}
	})

	t.Run("derived from request", func(t *testing.T) {
		srv := &Server{}
		req, _ := http.NewRequest(http.MethodGet, "http://files.example.com/upload", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		got := srv.publicURLFunc(req)("x.png")
		if got != "https://files.example.com/files/x.png" {
			t.Fatalf("unexpected url %q", got)
		}
	})

	t.Run("ignores bogus forwarded proto", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "http://files.example.com/", nil)
		req.Header.Set("X-Forwarded-Proto", "gopher")
		if got := requestScheme(req); got != "http" {
			t.Fatalf("expected http, got %q", got)
		}
	})
}
