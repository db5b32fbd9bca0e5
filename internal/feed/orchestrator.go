package feed

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
)

const (
	// MaxItems caps how many items are extracted from a feed.
	MaxItems = 15

	// SnippetLimit is the maximum snippet length before truncation.
	SnippetLimit = 200

	// DefaultTimeout bounds each individual strategy attempt.
	DefaultTimeout = 5 * time.Second

	defaultWrappedProxyURL = "https://api.allorigins.win/get?url="
	defaultJSONAPIURL      = "https://api.rss2json.com/v1/api.json?rss_url="
	defaultRawProxyURL     = "https://api.codetabs.com/v1/proxy?quest="
)

// Doer is the narrow network capability the orchestrator depends on.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures the fetch orchestrator. Zero values fall back to the
// public proxy endpoints and the default timeout.
type Config struct {
	WrappedProxyURL string // pass-through proxy returning {contents: "..."}
	JSONAPIURL      string // feed-to-JSON conversion endpoint
	RawProxyURL     string // pass-through proxy returning raw markup
	Timeout         time.Duration
	Client          Doer
	Logger          *logrus.Logger
}

// Orchestrator retrieves a content feed through an ordered chain of retrieval
// strategies. FetchFeed always produces items; exhausting every strategy yields
// the bundled fallback set instead of an error.
type Orchestrator struct {
	wrappedProxyURL string
	jsonAPIURL      string
	rawProxyURL     string
	timeout         time.Duration
	client          Doer
	parser          *gofeed.Parser
	log             *logrus.Logger
}

// NewOrchestrator creates a fetch orchestrator.
func NewOrchestrator(cfg Config) *Orchestrator {
	o := &Orchestrator{
		wrappedProxyURL: cfg.WrappedProxyURL,
		jsonAPIURL:      cfg.JSONAPIURL,
		rawProxyURL:     cfg.RawProxyURL,
		timeout:         cfg.Timeout,
		client:          cfg.Client,
		parser:          gofeed.NewParser(),
		log:             cfg.Logger,
	}
	if o.wrappedProxyURL == "" {
		o.wrappedProxyURL = defaultWrappedProxyURL
	}
	if o.jsonAPIURL == "" {
		o.jsonAPIURL = defaultJSONAPIURL
	}
	if o.rawProxyURL == "" {
		o.rawProxyURL = defaultRawProxyURL
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}
	if o.client == nil {
		o.client = http.DefaultClient
	}
	if o.log == nil {
		o.log = logrus.StandardLogger()
	}
	return o
}

type strategy struct {
	name  string
	fetch func(ctx context.Context, feedURL string) ([]Item, error)
}

// FetchFeed tries each retrieval strategy in order and returns the first
// non-empty result. Each attempt gets its own timeout; a timeout, transport
// error or empty extraction falls through to the next strategy without retry.
// If every strategy fails the bundled fallback items are returned.
func (o *Orchestrator) FetchFeed(ctx context.Context, feedURL string) []Item {
	strategies := []strategy{
		{name: "wrapped-proxy", fetch: o.fetchWrapped},
		{name: "feed-to-json", fetch: o.fetchJSON},
		{name: "raw-proxy", fetch: o.fetchRaw},
	}

	for _, s := range strategies {
		attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
		items, err := s.fetch(attemptCtx, feedURL)
		cancel()
		if err != nil {
			o.log.WithFields(logrus.Fields{"strategy": s.name, "error": err}).Warn("Feed strategy failed")
			continue
		}
		if len(items) == 0 {
			o.log.WithField("strategy", s.name).Warn("Feed strategy returned no items")
			continue
		}
		return items
	}

	o.log.Warn("All feed strategies failed, serving fallback items")
	return FallbackItems()
}

// fetchWrapped calls the pass-through proxy that wraps the feed body in a JSON
// envelope and parses the wrapped markup.
func (o *Orchestrator) fetchWrapped(ctx context.Context, feedURL string) ([]Item, error) {
	body, err := o.get(ctx, o.wrappedProxyURL+url.QueryEscape(feedURL))
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Contents string `json:"contents"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("invalid proxy envelope: %w", err)
	}
	if envelope.Contents == "" {
		return nil, fmt.Errorf("proxy envelope has no contents")
	}

	return o.parseMarkup([]byte(envelope.Contents))
}

// fetchJSON calls the feed-to-JSON conversion endpoint, which returns a
// pre-parsed item list.
func (o *Orchestrator) fetchJSON(ctx context.Context, feedURL string) ([]Item, error) {
	body, err := o.get(ctx, o.jsonAPIURL+url.QueryEscape(feedURL))
	if err != nil {
		return nil, err
	}

	var reply struct {
		Status string `json:"status"`
		Items  []struct {
			Title       string `json:"title"`
			Link        string `json:"link"`
			PubDate     string `json:"pubDate"`
			GUID        string `json:"guid"`
			Description string `json:"description"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("invalid feed-to-json reply: %w", err)
	}
	if reply.Status != "ok" {
		return nil, fmt.Errorf("feed-to-json status %q", reply.Status)
	}

	items := make([]Item, 0, len(reply.Items))
	for i, raw := range reply.Items {
		if i >= MaxItems {
			break
		}
		item := Item{
			Title:   coalesce(raw.Title, "No Title"),
			Link:    coalesce(raw.Link, "#"),
			PubDate: parseTime(raw.PubDate),
			Source:  "News",
			GUID:    raw.GUID,
			Snippet: truncateSnippet(stripHTML(raw.Description)),
		}
		if item.GUID == "" {
			item.GUID = syntheticGUID(item.Link, i)
		}
		items = append(items, item)
	}
	return items, nil
}

// fetchRaw calls the second pass-through proxy, which returns the feed markup
// directly.
func (o *Orchestrator) fetchRaw(ctx context.Context, feedURL string) ([]Item, error) {
	body, err := o.get(ctx, o.rawProxyURL+url.QueryEscape(feedURL))
	if err != nil {
		return nil, err
	}
	return o.parseMarkup(body)
}

// parseMarkup extracts up to MaxItems items from raw feed markup.
func (o *Orchestrator) parseMarkup(data []byte) ([]Item, error) {
	parsed, err := o.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed markup: %w", err)
	}

	source := coalesce(parsed.Title, "News")

	items := make([]Item, 0, len(parsed.Items))
	for i, raw := range parsed.Items {
		if i >= MaxItems {
			break
		}
		item := Item{
			Title:   coalesce(raw.Title, "No Title"),
			Link:    coalesce(raw.Link, "#"),
			Source:  source,
			GUID:    raw.GUID,
			Snippet: truncateSnippet(stripHTML(raw.Description)),
		}
		if raw.PublishedParsed != nil {
			item.PubDate = *raw.PublishedParsed
		} else if raw.UpdatedParsed != nil {
			item.PubDate = *raw.UpdatedParsed
		} else {
			item.PubDate = time.Now()
		}
		if item.GUID == "" {
			item.GUID = syntheticGUID(item.Link, i)
		}
		items = append(items, item)
	}
	return items, nil
}

// get performs a GET request and returns the body for 2xx responses.
func (o *Orchestrator) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// stripHTML removes markup tags and collapses whitespace.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// truncateSnippet bounds a snippet to SnippetLimit characters, appending a
// truncation marker when it was cut.
func truncateSnippet(s string) string {
	runes := []rune(s)
	if len(runes) <= SnippetLimit {
		return s
	}
	return string(runes[:SnippetLimit]) + "..."
}

// syntheticGUID derives a stable identifier for items the feed did not tag.
func syntheticGUID(link string, index int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", link, index)))
	return fmt.Sprintf("%x", h[:16])
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseTime parses the timestamp formats the feed-to-json endpoint emits.
func parseTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}
