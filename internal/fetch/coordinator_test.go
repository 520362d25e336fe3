package fetch

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeWorker struct {
	mu       sync.Mutex
	calls    []string
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
	fail     map[string]bool
}

func (w *fakeWorker) Fetch(ctx context.Context, rawURL string) Outcome {
	current := w.inFlight.Add(1)
	defer w.inFlight.Add(-1)
	for {
		peak := w.peak.Load()
		if current <= peak || w.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	w.mu.Lock()
	w.calls = append(w.calls, rawURL)
	w.mu.Unlock()

	time.Sleep(w.delay)
	if w.fail[rawURL] {
		return networkFailure(rawURL, errors.New("refused"))
	}
	return succeeded(rawURL, "id-"+rawURL, 1)
}

func TestCoordinatorBoundsConcurrency(t *testing.T) {
	worker := &fakeWorker{delay: 20 * time.Millisecond}
	coord := NewCoordinator(worker, 0, nil)
	if coord.Limit() != DefaultConcurrency {
		t.Fatalf("expected default limit %d, got %d", DefaultConcurrency, coord.Limit())
	}

	urls := make([]string, 17)
	for i := range urls {
		urls[i] = "u" + string(rune('a'+i))
	}
	outcomes := coord.Convert(context.Background(), urls)

	if got := worker.peak.Load(); got > DefaultConcurrency {
		t.Fatalf("expected at most %d in flight, saw %d", DefaultConcurrency, got)
	}
	if len(worker.calls) != len(urls) {
		t.Fatalf("expected %d calls, got %d", len(urls), len(worker.calls))
	}
	for i, outcome := range outcomes {
		if outcome.SourceURL != urls[i] {
			t.Fatalf("outcome %d out of order: %q", i, outcome.SourceURL)
		}
	}
}

func TestCoordinatorFailuresDoNotCancelSiblings(t *testing.T) {
	worker := &fakeWorker{fail: map[string]bool{"b": true, "c": true}}
	outcomes := NewCoordinator(worker, 2, nil).Convert(context.Background(), []string{"a", "b", "c", "d"})

	summary := Summarize(outcomes, func(name string) string { return "http://host/files/" + name })
	if !reflect.DeepEqual(summary.URLs, []string{"http://host/files/id-a", "http://host/files/id-d"}) {
		t.Fatalf("unexpected urls: %#v", summary.URLs)
	}
	if len(summary.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %#v", summary.Warnings)
	}
	if len(summary.URLs)+len(summary.Warnings) != 4 {
		t.Fatal("every input must produce exactly one result")
	}
	if !summary.Succeeded() {
		t.Fatal("expected partial success")
	}
}

func TestSummarizeAllFailed(t *testing.T) {
	outcomes := []Outcome{statusFailure("a", 404), networkFailure("b", errors.New("timeout"))}
	summary := Summarize(outcomes, func(name string) string { return name })
	if summary.Succeeded() {
		t.Fatal("expected failure")
	}
	if len(summary.Warnings) != 2 || len(summary.URLs) != 0 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
}

func TestParseURLList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "json array", raw: `["a","b"]`, want: []string{"a", "b"}},
		{name: "json with padding", raw: "  [\"a\", \" \", \"b\"]\n", want: []string{"a", "b"}},
		{name: "spaces", raw: "a b", want: []string{"a", "b"}},
		{name: "newlines", raw: "a\nb", want: []string{"a", "b"}},
		{name: "mixed blanks", raw: "\n a  \r\n\n b \t", want: []string{"a", "b"}},
		{name: "empty", raw: "   ", want: []string{}},
		{name: "malformed json", raw: `["a",`, wantErr: true},
		{name: "json of non strings", raw: `[1,2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURLList(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedList) {
					t.Fatalf("expected ErrMalformedList, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Fatalf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestParseURLListEquivalence(t *testing.T) {
	forms := []string{`["a","b"]`, "a b", "a\nb"}
	var first []string
	for _, form := range forms {
		got, err := ParseURLList(form)
		if err != nil {
			t.Fatalf("parse %q: %v", form, err)
		}
		if first == nil {
			first = got
			continue
		}
		if strings.Join(got, ",") != strings.Join(first, ",") {
			t.Fatalf("form %q parsed to %#v, want %#v", form, got, first)
		}
	}
}
