package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/audio"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/feed"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/generate"
)

// Phase is the lifecycle position of a news item session.
type Phase int

const (
	PhaseCollapsed Phase = iota
	PhaseAnalyzing
	PhaseExpanded
)

func (p Phase) String() string {
	switch p {
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseExpanded:
		return "expanded"
	default:
		return "collapsed"
	}
}

// IllustrationState tracks the editorial sketch for one item.
type IllustrationState struct {
	Image   *generate.Image
	Loading bool
}

// SpeechState tracks narration for one item. Buffer caches the decoded
// audio so repeated listens do not re-synthesize.
type SpeechState struct {
	Buffer  *audio.Buffer
	Playing bool
	Loading bool
}

// State is the complete observable state of a session. All transitions go
// through Session methods; callers only ever see copies.
type State struct {
	Phase            Phase
	Breakdown        *Breakdown
	Citations        []generate.Citation
	AnalyzedLanguage string
	Illustration     IllustrationState
	Speech           SpeechState
}

// SessionConfig wires a session to its item and capabilities. Images and
// Player may be nil, which disables illustration and playback respectively.
type SessionConfig struct {
	Item     feed.Item
	Persona  Persona
	Analyzer *Analyzer
	Images   generate.ImageGenerator
	Speech   generate.SpeechSynthesizer
	Player   audio.Player
	Logger   *logrus.Logger
}

// Session drives the breakdown lifecycle of a single news item: analysis,
// illustration, and narration. Safe for concurrent use.
type Session struct {
	item    feed.Item
	persona Persona

	analyzer *Analyzer
	images   generate.ImageGenerator
	speech   generate.SpeechSynthesizer
	player   audio.Player
	log      *logrus.Logger

	mu      sync.Mutex
	state   State
	imageWG sync.WaitGroup
}

// NewSession creates a collapsed session for one news item.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Session{
		item:     cfg.Item,
		persona:  cfg.Persona,
		analyzer: cfg.Analyzer,
		images:   cfg.Images,
		speech:   cfg.Speech,
		player:   cfg.Player,
		log:      cfg.Logger,
	}
}

// Item returns the news item this session belongs to.
func (s *Session) Item() feed.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.item
}

// UpdateItem swaps in a new rendition of the item, typically after the
// headline was translated. Cached analysis state is kept; staleness is
// handled by LanguageChanged.
func (s *Session) UpdateItem(item feed.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.item = item
}

// State returns a snapshot of the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RequestAnalysis handles the main card action. With a cached breakdown in
// the requested language it only toggles between expanded and collapsed.
// Otherwise it runs a fresh analysis, which also discards any cached
// narration and, when forceImage is set or the language changed, regenerates
// the illustration.
func (s *Session) RequestAnalysis(ctx context.Context, language string, forceImage bool) error {
	s.mu.Lock()
	mismatch := s.state.AnalyzedLanguage != "" && s.state.AnalyzedLanguage != language
	regenerate := forceImage || mismatch
	if s.state.Breakdown != nil && !regenerate {
		if s.state.Phase == PhaseExpanded {
			s.state.Phase = PhaseCollapsed
		} else {
			s.state.Phase = PhaseExpanded
		}
		s.mu.Unlock()
		return nil
	}
	// New content or a new language is coming, so the cached narration no
	// longer matches the breakdown.
	s.state.Speech.Buffer = nil
	s.state.Phase = PhaseAnalyzing
	title, snippet := s.item.Title, s.item.Snippet
	s.mu.Unlock()

	result, err := s.analyzer.Analyze(ctx, title, snippet, s.persona, language)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.Phase = PhaseCollapsed
		return err
	}
	s.state.Breakdown = &result.Breakdown
	s.state.Citations = result.Citations
	s.state.AnalyzedLanguage = language
	s.state.Phase = PhaseExpanded

	if s.images != nil && (s.state.Illustration.Image == nil || regenerate) {
		s.state.Illustration = IllustrationState{Loading: true}
		s.imageWG.Add(1)
		go s.illustrate(ctx, title)
	}
	return nil
}

func (s *Session) illustrate(ctx context.Context, title string) {
	defer s.imageWG.Done()
	img, err := Illustrate(ctx, s.images, title)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"title": title,
			"error": err,
		}).Warn("Illustration failed")
		s.state.Illustration = IllustrationState{}
		return
	}
	s.state.Illustration = IllustrationState{Image: img}
}

// WaitIllustration blocks until any in-flight illustration work settles.
func (s *Session) WaitIllustration() {
	s.imageWG.Wait()
}

// LanguageChanged re-analyzes an expanded session when the display language
// moves away from the language of the current breakdown. Collapsed sessions
// pick the new language up lazily on the next RequestAnalysis.
func (s *Session) LanguageChanged(ctx context.Context, language string) error {
	s.mu.Lock()
	stale := s.state.Phase == PhaseExpanded && s.state.Breakdown != nil && s.state.AnalyzedLanguage != language
	s.mu.Unlock()
	if !stale {
		return nil
	}
	return s.RequestAnalysis(ctx, language, true)
}

// ToggleSpeech starts or stops narration of the current breakdown. The
// decoded audio is cached on first synthesis. A synthesis or playback
// failure leaves the breakdown and illustration untouched.
func (s *Session) ToggleSpeech(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Speech.Playing {
		if s.player != nil {
			s.player.Stop()
		}
		s.state.Speech.Playing = false
		s.mu.Unlock()
		return nil
	}
	if s.state.Breakdown == nil {
		s.mu.Unlock()
		return fmt.Errorf("nothing to narrate yet")
	}
	buf := s.state.Speech.Buffer
	script := NarrationScript(s.state.Breakdown)
	s.state.Speech.Loading = true
	s.mu.Unlock()

	if buf == nil {
		if s.speech == nil {
			s.mu.Lock()
			s.state.Speech.Loading = false
			s.mu.Unlock()
			return fmt.Errorf("speech synthesis is not configured")
		}
		data, err := s.speech.GenerateSpeech(ctx, script)
		if err != nil {
			s.mu.Lock()
			s.state.Speech.Loading = false
			s.mu.Unlock()
			return fmt.Errorf("speech synthesis failed: %w", err)
		}
		buf = audio.DecodePCM16(data)
		s.mu.Lock()
		s.state.Speech.Buffer = buf
		s.mu.Unlock()
	}

	if s.player == nil {
		s.mu.Lock()
		s.state.Speech.Loading = false
		s.mu.Unlock()
		return nil
	}

	err := s.player.Play(ctx, buf, func() {
		s.mu.Lock()
		s.state.Speech.Playing = false
		s.state.Speech.Loading = false
		s.mu.Unlock()
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Speech.Loading = false
	if err != nil {
		return fmt.Errorf("audio playback failed: %w", err)
	}
	s.state.Speech.Playing = true
	return nil
}

// Fold collapses the session without touching the cached breakdown.
func (s *Session) Fold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Phase = PhaseCollapsed
}
