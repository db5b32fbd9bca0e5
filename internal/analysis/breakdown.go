// Package analysis coordinates the per-item AI breakdown: structured analysis
// retrieval, illustrative image generation and speech synthesis, each
// independently cacheable and invalidated by language changes.
package analysis

import "strings"

// Persona describes who the analysis is simplified for.
type Persona struct {
	Role     string
	Location string
}

// DefaultPersona is used when the caller configured none.
var DefaultPersona = Persona{Role: "Citizen", Location: "USA"}

// Advice is the advisory pair of the breakdown.
type Advice struct {
	Advice    string `json:"advice"`
	Reasoning string `json:"reasoning"`
}

// Geolocation pins the story to a place when the model could locate it.
type Geolocation struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

// Bias is the narrative bias assessment.
type Bias struct {
	DetectedBias        string   `json:"detected_bias"`
	MissingPerspectives []string `json:"missing_perspectives"`
	IsControversial     bool     `json:"is_controversial"`
	Label               string   `json:"label,omitempty"`
}

// EmotionalLoad scores how emotionally charged the story is.
type EmotionalLoad struct {
	Score   int    `json:"score"`
	Warning string `json:"warning,omitempty"`
}

// Breakdown is the structured analysis of a single content item. The JSON keys
// are fixed in English; the values are generated in the requested language.
type Breakdown struct {
	What                []string      `json:"what"`
	Who                 []string      `json:"who"`
	Why                 string        `json:"why"`
	Audience            string        `json:"audience"`
	PastReferences      []string      `json:"past_references"`
	PresentConsequences []string      `json:"present_consequences"`
	FutureImpact        []string      `json:"future_impact"`
	WaitOrPrepare       Advice        `json:"wait_or_prepare"`
	Geolocation         *Geolocation  `json:"geolocation,omitempty"`
	BiasAnalysis        Bias          `json:"bias_analysis"`
	EmotionalLoad       EmotionalLoad `json:"emotional_load"`
}

// NarrationScript builds the text-to-speech script for a breakdown: the
// thesis, what happened, the present impact and the future outlook as one
// narration string.
func NarrationScript(b *Breakdown) string {
	var sb strings.Builder
	sb.WriteString("Here is the truth. ")
	sb.WriteString(b.Why)
	sb.WriteString(". What Happened: ")
	sb.WriteString(strings.Join(b.What, ". "))
	sb.WriteString(". Why it matters: ")
	sb.WriteString(strings.Join(b.PresentConsequences, ". "))
	sb.WriteString(". Future outlook: ")
	sb.WriteString(strings.Join(b.FutureImpact, ". "))
	return sb.String()
}
