// Package controller ties the feed, translation, and analysis layers
// together behind one front-page state machine.
package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/analysis"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/audio"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/feed"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/generate"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/translation"
)

// DefaultLanguage is the language feeds arrive in.
const DefaultLanguage = "English"

// Language pairs a request code with its display label.
type Language struct {
	Code  string
	Label string
}

// SupportedLanguages lists the display languages offered to readers.
var SupportedLanguages = []Language{
	{Code: "English", Label: "English"},
	{Code: "Hindi", Label: "Hindi"},
	{Code: "Spanish", Label: "Spanish"},
	{Code: "French", Label: "French"},
	{Code: "German", Label: "German"},
	{Code: "Italian", Label: "Italian"},
	{Code: "Chinese", Label: "Chinese"},
	{Code: "Japanese", Label: "Japanese"},
	{Code: "Arabic", Label: "Arabic"},
}

// LanguageSupported reports whether code is an offered display language.
func LanguageSupported(code string) bool {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Config wires a controller to its collaborators. Images, Speech, and
// Player are optional; sessions degrade gracefully without them.
type Config struct {
	Feeds      *feed.Orchestrator
	Translator *translation.Translator
	Analyzer   *analysis.Analyzer
	Images     generate.ImageGenerator
	Speech     generate.SpeechSynthesizer
	Player     audio.Player
	Persona    analysis.Persona
	Logger     *logrus.Logger
}

// Controller owns the front page: the active category, the fetched items,
// their translated rendition, and one analysis session per item.
type Controller struct {
	feeds      *feed.Orchestrator
	translator *translation.Translator
	analyzer   *analysis.Analyzer
	images     generate.ImageGenerator
	speech     generate.SpeechSynthesizer
	player     audio.Player
	persona    analysis.Persona
	log        *logrus.Logger

	mu          sync.Mutex
	category    feed.Category
	language    string
	original    []feed.Item
	displayed   []feed.Item
	loading     bool
	translating bool
	generation  int
	cache       *translation.Cache
	sessions    map[string]*analysis.Session
	order       []string
}

// New creates a controller with no category loaded and English display.
func New(cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Persona == (analysis.Persona{}) {
		cfg.Persona = analysis.DefaultPersona
	}
	return &Controller{
		feeds:      cfg.Feeds,
		translator: cfg.Translator,
		analyzer:   cfg.Analyzer,
		images:     cfg.Images,
		speech:     cfg.Speech,
		player:     cfg.Player,
		persona:    cfg.Persona,
		log:        cfg.Logger,
		language:   DefaultLanguage,
		cache:      translation.NewCache(),
		sessions:   make(map[string]*analysis.Session),
	}
}

// SetCategory loads a category's feed and rebuilds the item sessions.
// Changing category invalidates every cached translation because the
// underlying content changes. A slower fetch that loses the race to a
// newer SetCategory call is discarded.
func (c *Controller) SetCategory(ctx context.Context, id string) error {
	category, ok := feed.CategoryByID(id)
	if !ok {
		return fmt.Errorf("unknown category %q", id)
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.category = category
	c.loading = true
	c.displayed = nil
	c.cache.InvalidateAll()
	c.mu.Unlock()

	items := c.feeds.FetchFeed(ctx, category.FeedURL)

	c.mu.Lock()
	if gen != c.generation {
		// A newer category load superseded this fetch.
		c.mu.Unlock()
		return nil
	}
	c.original = items
	c.rebuildSessionsLocked(items)
	language := c.language
	c.mu.Unlock()

	c.applyLanguage(ctx, language)

	c.mu.Lock()
	if gen == c.generation {
		c.loading = false
	}
	c.mu.Unlock()
	return nil
}

// SetLanguage switches the display language, translating the current
// items when needed and re-analyzing any expanded sessions.
func (c *Controller) SetLanguage(ctx context.Context, code string) error {
	if !LanguageSupported(code) {
		return fmt.Errorf("unsupported language %q", code)
	}

	c.mu.Lock()
	c.language = code
	empty := len(c.original) == 0
	c.mu.Unlock()
	if empty {
		return nil
	}

	c.applyLanguage(ctx, code)

	// Expanded sessions re-analyze in the new language; collapsed ones
	// pick it up lazily.
	for _, s := range c.sessionsSnapshot() {
		if err := s.LanguageChanged(ctx, code); err != nil {
			c.log.WithFields(logrus.Fields{
				"guid":  s.Item().GUID,
				"error": err,
			}).Warn("Re-analysis after language change failed")
		}
	}
	return nil
}

// applyLanguage projects the original items into the active language and
// pushes the rendition into the displayed list and the sessions.
func (c *Controller) applyLanguage(ctx context.Context, code string) {
	c.mu.Lock()
	original := c.original
	gen := c.generation
	c.mu.Unlock()

	var rendition []feed.Item
	if code == DefaultLanguage {
		rendition = original
	} else {
		c.mu.Lock()
		c.translating = true
		c.mu.Unlock()
		rendition = c.cache.GetOrCompute(ctx, code, func(ctx context.Context) []feed.Item {
			return c.translator.Translate(ctx, original, code)
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.translating = false
	// A category change during translation makes this rendition stale: it
	// belongs to the previous edition's items.
	if code != c.language || gen != c.generation {
		return
	}
	c.displayed = rendition
	for _, item := range rendition {
		if s, ok := c.sessions[item.GUID]; ok {
			s.UpdateItem(item)
		}
	}
}

func (c *Controller) rebuildSessionsLocked(items []feed.Item) {
	c.sessions = make(map[string]*analysis.Session, len(items))
	c.order = c.order[:0]
	for _, item := range items {
		c.sessions[item.GUID] = analysis.NewSession(analysis.SessionConfig{
			Item:     item,
			Persona:  c.persona,
			Analyzer: c.analyzer,
			Images:   c.images,
			Speech:   c.speech,
			Player:   c.player,
			Logger:   c.log,
		})
		c.order = append(c.order, item.GUID)
	}
}

func (c *Controller) sessionsSnapshot() []*analysis.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*analysis.Session, 0, len(c.order))
	for _, guid := range c.order {
		out = append(out, c.sessions[guid])
	}
	return out
}

// Items returns the items as currently displayed, translated when a
// non-English language is active.
func (c *Controller) Items() []feed.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]feed.Item, len(c.displayed))
	copy(out, c.displayed)
	return out
}

// Session returns the analysis session for an item GUID.
func (c *Controller) Session(guid string) (*analysis.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[guid]
	return s, ok
}

// SessionAt returns the session for the item at a display position.
func (c *Controller) SessionAt(index int) (*analysis.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.order) {
		return nil, false
	}
	s, ok := c.sessions[c.order[index]]
	return s, ok
}

// ContentLoading reports whether the front page has nothing presentable
// yet. A translation pass with items already on screen does not count;
// the stale items stay visible until the rendition lands.
func (c *Controller) ContentLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading || (c.translating && len(c.displayed) == 0)
}

// Translating reports whether a translation pass is in flight.
func (c *Controller) Translating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.translating
}

// Language returns the active display language.
func (c *Controller) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

// Category returns the active category.
func (c *Controller) Category() feed.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}
