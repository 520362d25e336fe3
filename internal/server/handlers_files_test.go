package server

import (
	"net/http"
	"strings"
	"testing"
)

func TestGetFileServingHeaders(t *testing.T) {
	_, store, ts := newTestServer(t, Options{})
	seedFiles(t, store, map[string]string{
		"page.html": "<script>alert(document.cookie)</script>",
		"logo.svg":  `<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`,
		"pic.png":   "\x89PNG\r\n\x1a\n",
		"doc.pdf":   "%PDF-1.4",
		"blob":      "raw",
	}, nil)

	cases := []struct {
		name       string
		attachment bool
	}{
		{name: "page.html", attachment: true},
		{name: "logo.svg", attachment: true},
		{name: "blob", attachment: true},
		{name: "pic.png"},
		{name: "doc.pdf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/files/" + tc.name)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			if csp := resp.Header.Get("Content-Security-Policy"); !strings.Contains(csp, "sandbox") {
				t.Fatalf("expected sandbox CSP, got %q", csp)
			}
			if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
				t.Fatal("expected nosniff header")
			}
			disposition := resp.Header.Get("Content-Disposition")
			if tc.attachment {
				if !strings.HasPrefix(disposition, "attachment") || !strings.Contains(disposition, tc.name) {
					t.Fatalf("expected attachment disposition naming %q, got %q", tc.name, disposition)
				}
				return
			}
			if disposition != "" {
				t.Fatalf("expected inline rendering, got disposition %q", disposition)
			}
		})
	}
}

func TestServedInline(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"a.jpg", true},
		{"a.PNG", true},
		{"a.webp", true},
		{"a.pdf", true},
		{"a.html", false},
		{"a.htm", false},
		{"a.svg", false},
		{"a.xml", false},
		{"a.js", false},
		{"a.json", false},
		{"a", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := servedInline(tc.name); got != tc.want {
				t.Fatalf("servedInline(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}
