package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/extract"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/generate"
)

// Result is a breakdown plus the grounding citations the generation returned.
type Result struct {
	Breakdown Breakdown
	Citations []generate.Citation
}

// Analyzer produces structured breakdowns through a search-grounded text
// generation call, with a single self-repair pass for invalid JSON replies.
type Analyzer struct {
	gen generate.TextGenerator
	log *logrus.Logger
}

// NewAnalyzer creates an analyzer on top of a text generator.
func NewAnalyzer(gen generate.TextGenerator, log *logrus.Logger) *Analyzer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Analyzer{gen: gen, log: log}
}

// Analyze requests a breakdown of a headline and snippet, tailored to the
// persona, with all values generated in the given language.
func (a *Analyzer) Analyze(ctx context.Context, headline, snippet string, persona Persona, language string) (*Result, error) {
	resp, err := a.gen.GenerateText(ctx, generate.TextRequest{
		Prompt:            analysisPrompt(headline, snippet, language),
		SystemInstruction: systemInstruction(persona, language),
		UseSearch:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis generation failed: %w", err)
	}

	var breakdown Breakdown
	cleaned := extract.CleanJSON(resp.Text)
	if err := json.Unmarshal([]byte(cleaned), &breakdown); err != nil {
		a.log.WithField("error", err).Warn("Analysis reply unparsable, attempting self-repair")
		breakdown, err = a.repair(ctx, resp.Text)
		if err != nil {
			return nil, err
		}
	}

	return &Result{Breakdown: breakdown, Citations: resp.Citations}, nil
}

// repair asks the generation capability to fix its own invalid output. One
// attempt only; a second failure is terminal for this analysis request.
func (a *Analyzer) repair(ctx context.Context, invalid string) (Breakdown, error) {
	resp, err := a.gen.GenerateText(ctx, generate.TextRequest{
		Prompt:   fmt.Sprintf("The following JSON is invalid. Fix it and return ONLY the valid JSON.\n\n%s", invalid),
		JSONOnly: true,
	})
	if err != nil {
		return Breakdown{}, fmt.Errorf("analysis repair failed: %w", err)
	}

	var breakdown Breakdown
	cleaned := extract.CleanJSON(resp.Text)
	if err := json.Unmarshal([]byte(cleaned), &breakdown); err != nil {
		return Breakdown{}, fmt.Errorf("analysis reply invalid after repair: %w", err)
	}
	return breakdown, nil
}

func systemInstruction(persona Persona, language string) string {
	return fmt.Sprintf(`You are "The Unsalted Truth", a quick, visual, and simple news simplifier.
Your goal is to make complex news instantly understandable for %s located in %s.

CRITICAL RULES:
1. The output Language for all VALUES must be: %s.
2. The output Keys for JSON must be: ENGLISH.
3. Use very simple, plain language (ELI5 level) in %s.
4. Use bullet points for almost everything.
5. Be objective.
6. You MUST use the Google Search tool to verify details.`,
		persona.Role, persona.Location, strings.ToUpper(language), language)
}

func analysisPrompt(headline, snippet, language string) string {
	return fmt.Sprintf(`Analyze the following news.
Headline: "%s"
Snippet: "%s"

Task:
1. Verify the facts using Google Search.
2. Synthesize the story.
3. TRANSLATE the final output values to %[3]s.

Return valid JSON with this EXACT structure (ensure values are in %[3]s):
{
  "what": ["Bullet 1 in %[3]s", "Bullet 2 in %[3]s", "Bullet 3 in %[3]s"],
  "who": ["List of key people/orgs in %[3]s"],
  "why": "Max 10 words summary in %[3]s",
  "audience": "Target audience (e.g. 'Student', 'Everyone') - TRANSLATED to %[3]s",
  "past_references": ["Context/History in %[3]s"],
  "present_consequences": ["Impact now in %[3]s"],
  "future_impact": ["Future outlook in %[3]s"],
  "wait_or_prepare": {
    "advice": "One word advice in %[3]s (e.g. WAIT, ACT, IGNORE)",
    "reasoning": "Short reasoning in %[3]s"
  },
  "geolocation": {
    "lat": 0.0,
    "lng": 0.0,
    "label": "City, Country"
  },
  "bias_analysis": {
    "detected_bias": "Bias note in %[3]s",
    "missing_perspectives": ["Perspective in %[3]s"],
    "is_controversial": false,
    "label": "One word label: 'Controversial' or 'Verified' - TRANSLATED to %[3]s"
  },
  "emotional_load": {
    "score": 0,
    "warning": "Trigger warning in %[3]s if needed"
  }
}`, headline, snippet, language)
}
