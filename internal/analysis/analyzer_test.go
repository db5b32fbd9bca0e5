package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/generate"
)

const validBreakdownJSON = `{
  "what": ["Chipmaker announced a new accelerator", "Shipments start next quarter"],
  "who": ["Nvidia", "Cloud providers"],
  "why": "Faster AI training for everyone",
  "audience": "Everyone",
  "past_references": ["Previous generation launched two years ago"],
  "present_consequences": ["Cloud prices may drop"],
  "future_impact": ["More capable models next year"],
  "wait_or_prepare": {"advice": "WAIT", "reasoning": "Nothing to do today"},
  "geolocation": {"lat": 37.3, "lng": -121.9, "label": "Santa Clara, USA"},
  "bias_analysis": {"detected_bias": "Vendor optimism", "missing_perspectives": ["Competitors"], "is_controversial": false, "label": "Verified"},
  "emotional_load": {"score": 2}
}`

type scriptedGenerator struct {
	replies   []string
	errs      []error
	citations []generate.Citation
	requests  []generate.TextRequest
}

func (g *scriptedGenerator) GenerateText(_ context.Context, req generate.TextRequest) (*generate.TextResult, error) {
	i := len(g.requests)
	g.requests = append(g.requests, req)
	if i < len(g.errs) && g.errs[i] != nil {
		return nil, g.errs[i]
	}
	var text string
	if i < len(g.replies) {
		text = g.replies[i]
	}
	return &generate.TextResult{Text: text, Citations: g.citations}, nil
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestAnalyzeParsesFencedReply(t *testing.T) {
	gen := &scriptedGenerator{
		replies:   []string{"```json\n" + validBreakdownJSON + "\n```"},
		citations: []generate.Citation{{URI: "https://example.com/a", Title: "Example"}},
	}
	a := NewAnalyzer(gen, quietLog())

	result, err := a.Analyze(context.Background(), "Chip launch", "A new accelerator", DefaultPersona, "English")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := result.Breakdown.Why; got != "Faster AI training for everyone" {
		t.Errorf("why = %q", got)
	}
	if len(result.Breakdown.What) != 2 {
		t.Errorf("what has %d entries, want 2", len(result.Breakdown.What))
	}
	if result.Breakdown.WaitOrPrepare.Advice != "WAIT" {
		t.Errorf("advice = %q", result.Breakdown.WaitOrPrepare.Advice)
	}
	if len(result.Citations) != 1 || result.Citations[0].URI != "https://example.com/a" {
		t.Errorf("citations = %+v", result.Citations)
	}
	if len(gen.requests) != 1 {
		t.Fatalf("made %d requests, want 1", len(gen.requests))
	}
}

func TestAnalyzeRequestShape(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{validBreakdownJSON}}
	a := NewAnalyzer(gen, quietLog())

	persona := Persona{Role: "Farmer", Location: "Kenya"}
	if _, err := a.Analyze(context.Background(), "Drought relief", "Rains expected", persona, "Spanish"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	req := gen.requests[0]
	if !req.UseSearch {
		t.Error("analysis request must enable search grounding")
	}
	if req.JSONOnly {
		t.Error("analysis request must not force a JSON MIME type, it conflicts with search")
	}
	for _, want := range []string{"Farmer", "Kenya", "SPANISH", "ELI5"} {
		if !strings.Contains(req.SystemInstruction, want) {
			t.Errorf("system instruction missing %q", want)
		}
	}
	for _, want := range []string{`Headline: "Drought relief"`, `Snippet: "Rains expected"`, "wait_or_prepare", "emotional_load"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAnalyzeRepairsInvalidJSON(t *testing.T) {
	broken := `{"what": ["missing closer"`
	gen := &scriptedGenerator{replies: []string{broken, validBreakdownJSON}}
	a := NewAnalyzer(gen, quietLog())

	result, err := a.Analyze(context.Background(), "Headline", "Snippet", DefaultPersona, "English")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Breakdown.Audience != "Everyone" {
		t.Errorf("audience = %q after repair", result.Breakdown.Audience)
	}
	if len(gen.requests) != 2 {
		t.Fatalf("made %d requests, want 2", len(gen.requests))
	}

	repair := gen.requests[1]
	if !repair.JSONOnly {
		t.Error("repair request should demand JSON output")
	}
	if repair.UseSearch {
		t.Error("repair request should not use search")
	}
	if !strings.Contains(repair.Prompt, "The following JSON is invalid") {
		t.Errorf("repair prompt = %q", repair.Prompt)
	}
	if !strings.Contains(repair.Prompt, broken) {
		t.Error("repair prompt should carry the original invalid reply")
	}
}

func TestAnalyzeFailsWhenRepairFails(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"not json", "still not json"}}
	a := NewAnalyzer(gen, quietLog())

	if _, err := a.Analyze(context.Background(), "Headline", "Snippet", DefaultPersona, "English"); err == nil {
		t.Fatal("expected error after failed repair")
	}
	if len(gen.requests) != 2 {
		t.Fatalf("made %d requests, want exactly 2 (one repair attempt)", len(gen.requests))
	}
}

func TestAnalyzeWrapsGenerationError(t *testing.T) {
	cause := errors.New("quota exhausted")
	gen := &scriptedGenerator{errs: []error{cause}}
	a := NewAnalyzer(gen, quietLog())

	_, err := a.Analyze(context.Background(), "Headline", "Snippet", DefaultPersona, "English")
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want wrapped %v", err, cause)
	}
}

func TestNarrationScript(t *testing.T) {
	b := &Breakdown{
		Why:                 "Rates went up",
		What:                []string{"The bank raised rates", "Markets fell"},
		PresentConsequences: []string{"Loans cost more"},
		FutureImpact:        []string{"Inflation may slow"},
	}
	got := NarrationScript(b)
	want := "Here is the truth. Rates went up. What Happened: The bank raised rates. Markets fell. " +
		"Why it matters: Loans cost more. Future outlook: Inflation may slow"
	if got != want {
		t.Errorf("script = %q\nwant %q", got, want)
	}
}

func TestIllustrateFallsBackOnce(t *testing.T) {
	gen := &fakeImageGen{failSpecific: true}
	img, err := Illustrate(context.Background(), gen, "Volcano erupts")
	if err != nil {
		t.Fatalf("Illustrate: %v", err)
	}
	if img == nil || len(img.Data) == 0 {
		t.Fatal("expected fallback image data")
	}
	if gen.calls != 2 {
		t.Errorf("made %d attempts, want 2", gen.calls)
	}
	if !strings.Contains(gen.prompts[0], `"Volcano erupts"`) {
		t.Errorf("first prompt should quote the headline, got %q", gen.prompts[0])
	}
	if strings.Contains(gen.prompts[1], "Volcano") {
		t.Errorf("fallback prompt must be generic, got %q", gen.prompts[1])
	}
}

func TestIllustrateErrorAfterBothAttempts(t *testing.T) {
	gen := &fakeImageGen{failSpecific: true, failFallback: true}
	if _, err := Illustrate(context.Background(), gen, "Headline"); err == nil {
		t.Fatal("expected error when both attempts fail")
	}
	if gen.calls != 2 {
		t.Errorf("made %d attempts, want 2", gen.calls)
	}
}

type fakeImageGen struct {
	failSpecific bool
	failFallback bool
	calls        int
	prompts      []string
}

func (g *fakeImageGen) GenerateImage(_ context.Context, prompt string) (*generate.Image, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	specific := strings.Contains(prompt, "news topic")
	if specific && g.failSpecific {
		return nil, generate.ErrNoImage
	}
	if !specific && g.failFallback {
		return nil, fmt.Errorf("blocked")
	}
	return &generate.Image{Data: []byte{0x89, 0x50}, MIMEType: "image/png"}, nil
}
