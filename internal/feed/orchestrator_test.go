package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func rssFixture(n int, snippet string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Test Wire</title>`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<item><title>Story %d</title><link>https://example.com/%d</link><guid>guid-%d</guid><pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate><description>%s</description></item>`, i, i, i, snippet)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func newTestOrchestrator(wrapped, jsonAPI, raw string) *Orchestrator {
	return NewOrchestrator(Config{
		WrappedProxyURL: wrapped + "?url=",
		JSONAPIURL:      jsonAPI + "?rss_url=",
		RawProxyURL:     raw + "?quest=",
		Timeout:         2 * time.Second,
		Logger:          quietLogger(),
	})
}

func failingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchFeed_WrappedStrategy(t *testing.T) {
	wrapped := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"contents": rssFixture(3, "Some <b>bold</b> text")})
	}))
	defer wrapped.Close()
	down := failingServer(t)

	o := newTestOrchestrator(wrapped.URL, down.URL, down.URL)
	items := o.FetchFeed(context.Background(), "https://example.com/rss")

	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	if items[0].Title != "Story 0" {
		t.Errorf("Expected title 'Story 0', got %q", items[0].Title)
	}
	if items[0].GUID != "guid-0" {
		t.Errorf("Expected guid 'guid-0', got %q", items[0].GUID)
	}
	if items[0].Source != "Test Wire" {
		t.Errorf("Expected source 'Test Wire', got %q", items[0].Source)
	}
	if items[0].Snippet != "Some bold text" {
		t.Errorf("Expected stripped snippet, got %q", items[0].Snippet)
	}
}

func TestFetchFeed_FallsThroughToJSONStrategy(t *testing.T) {
	down := failingServer(t)
	jsonAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"items": []map[string]string{
				{"title": "JSON Story", "link": "https://example.com/j", "guid": "j-1", "pubDate": "2024-03-01 10:00:00", "description": "<p>json snippet</p>"},
			},
		})
	}))
	defer jsonAPI.Close()

	o := newTestOrchestrator(down.URL, jsonAPI.URL, down.URL)
	items := o.FetchFeed(context.Background(), "https://example.com/rss")

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Title != "JSON Story" {
		t.Errorf("Expected title 'JSON Story', got %q", items[0].Title)
	}
	if items[0].Source != "News" {
		t.Errorf("Expected generic source 'News', got %q", items[0].Source)
	}
	if items[0].Snippet != "json snippet" {
		t.Errorf("Expected stripped snippet, got %q", items[0].Snippet)
	}
	if items[0].PubDate.IsZero() {
		t.Error("Expected parsed pubDate")
	}
}

func TestFetchFeed_EmptyExtractionIsFailure(t *testing.T) {
	// Transport succeeds but the markup holds zero items; the orchestrator
	// must fall through to the raw strategy.
	wrapped := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"contents": rssFixture(0, "")})
	}))
	defer wrapped.Close()
	down := failingServer(t)
	raw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFixture(2, "plain"))
	}))
	defer raw.Close()

	o := newTestOrchestrator(wrapped.URL, down.URL, raw.URL)
	items := o.FetchFeed(context.Background(), "https://example.com/rss")

	if len(items) != 2 {
		t.Fatalf("Expected 2 items from raw strategy, got %d", len(items))
	}
}

func TestFetchFeed_AllStrategiesFailServesFallback(t *testing.T) {
	down := failingServer(t)

	o := newTestOrchestrator(down.URL, down.URL, down.URL)
	items := o.FetchFeed(context.Background(), "https://example.com/rss")

	if len(items) == 0 {
		t.Fatal("Fallback must never be empty")
	}
	if items[0].GUID != "demo-1" {
		t.Errorf("Expected bundled fallback items, got guid %q", items[0].GUID)
	}
}

func TestFetchFeed_TimeoutFallsThrough(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	raw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFixture(1, "quick"))
	}))
	defer raw.Close()

	o := NewOrchestrator(Config{
		WrappedProxyURL: slow.URL + "?url=",
		JSONAPIURL:      slow.URL + "?rss_url=",
		RawProxyURL:     raw.URL + "?quest=",
		Timeout:         100 * time.Millisecond,
		Logger:          quietLogger(),
	})

	start := time.Now()
	items := o.FetchFeed(context.Background(), "https://example.com/rss")
	elapsed := time.Since(start)

	if len(items) != 1 || items[0].Title != "Story 0" {
		t.Fatalf("Expected raw strategy result, got %v", items)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Timeouts did not bound the attempts, took %v", elapsed)
	}
}

func TestFetchFeed_CapsItemCount(t *testing.T) {
	raw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFixture(40, "x"))
	}))
	defer raw.Close()
	down := failingServer(t)

	o := newTestOrchestrator(down.URL, down.URL, raw.URL)
	items := o.FetchFeed(context.Background(), "https://example.com/rss")

	if len(items) != MaxItems {
		t.Errorf("Expected cap of %d items, got %d", MaxItems, len(items))
	}
}

func TestFetchFeed_JSONStatusNotOK(t *testing.T) {
	down := failingServer(t)
	jsonAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "error"})
	}))
	defer jsonAPI.Close()

	o := newTestOrchestrator(down.URL, jsonAPI.URL, down.URL)
	items := o.FetchFeed(context.Background(), "https://example.com/rss")

	if items[0].GUID != "demo-1" {
		t.Errorf("Expected fallback after non-ok status, got %q", items[0].GUID)
	}
}

func TestTruncateSnippet(t *testing.T) {
	long := strings.Repeat("a", SnippetLimit+50)
	got := truncateSnippet(long)
	if len([]rune(got)) != SnippetLimit+3 {
		t.Errorf("Expected %d runes, got %d", SnippetLimit+3, len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("Expected truncation marker")
	}

	short := "short snippet"
	if truncateSnippet(short) != short {
		t.Error("Short snippets must pass through unchanged")
	}
}

func TestStripHTML(t *testing.T) {
	in := `<div><p>Hello   <a href="x">world</a></p></div>`
	if got := stripHTML(in); got != "Hello world" {
		t.Errorf("stripHTML() = %q, want 'Hello world'", got)
	}
}

func TestSyntheticGUID_Stable(t *testing.T) {
	a := syntheticGUID("https://example.com/a", 0)
	b := syntheticGUID("https://example.com/a", 0)
	c := syntheticGUID("https://example.com/a", 1)
	if a != b {
		t.Error("Synthetic GUID must be deterministic")
	}
	if a == c {
		t.Error("Synthetic GUID must vary by index")
	}
}

func TestCategoryByID(t *testing.T) {
	c, ok := CategoryByID("WORLD")
	if !ok || c.Label != "World" {
		t.Errorf("CategoryByID(WORLD) = %v, %v", c, ok)
	}
	if _, ok := CategoryByID("NOPE"); ok {
		t.Error("Expected lookup miss for unknown category")
	}
}
