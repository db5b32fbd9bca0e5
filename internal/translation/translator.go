// Package translation translates batches of feed items through a chunked,
// retried, index-reconciled text-generation call.
package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/extract"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/feed"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/generate"
)

const (
	// SourceLanguage is the language feeds arrive in; translating into it is
	// an identity operation.
	SourceLanguage = "English"

	// ChunkSize is how many items go into one generation call.
	ChunkSize = 10

	// maxRetries bounds how often a failed chunk is re-requested.
	maxRetries = 1

	// snippetLimit bounds the snippet length sent to the model.
	snippetLimit = 200
)

// payload is the minimal projection of an item sent to the model. The
// position index is the join key: generated text is prone to corrupting opaque
// identifier strings, so the GUID never crosses the wire.
type payload struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Translator translates item batches. Failure is localized per chunk; the
// output always has the same length and order as the input.
type Translator struct {
	gen generate.TextGenerator
	log *logrus.Logger
}

// NewTranslator creates a batch translator on top of a text generator.
func NewTranslator(gen generate.TextGenerator, log *logrus.Logger) *Translator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Translator{gen: gen, log: log}
}

// Translate returns items with title and snippet translated into
// targetLanguage where translation succeeded, and the original text otherwise.
// Translating into the source language returns the input unchanged.
func (t *Translator) Translate(ctx context.Context, items []feed.Item, targetLanguage string) []feed.Item {
	if targetLanguage == SourceLanguage || len(items) == 0 {
		return items
	}

	payloads := make([]payload, len(items))
	for i, item := range items {
		payloads[i] = payload{
			Index:   i,
			Title:   item.Title,
			Snippet: truncate(item.Snippet, snippetLimit),
		}
	}

	var chunks [][]payload
	for start := 0; start < len(payloads); start += ChunkSize {
		end := start + ChunkSize
		if end > len(payloads) {
			end = len(payloads)
		}
		chunks = append(chunks, payloads[start:end])
	}

	// Chunks are dispatched concurrently; the merge waits for all of them so
	// a slow chunk never blocks a finished one from contributing.
	translated := make(map[int]payload)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, chunk := range chunks {
		wg.Add(1)
		go func(chunk []payload) {
			defer wg.Done()
			result := t.translateChunk(ctx, chunk, targetLanguage)
			mu.Lock()
			defer mu.Unlock()
			for _, p := range result {
				if p.Index >= 0 && p.Index < len(items) {
					translated[p.Index] = p
				}
			}
		}(chunk)
	}
	wg.Wait()

	out := make([]feed.Item, len(items))
	copy(out, items)
	for i := range out {
		p, ok := translated[i]
		if !ok {
			continue
		}
		if p.Title != "" {
			out[i].Title = p.Title
		}
		if p.Snippet != "" {
			out[i].Snippet = p.Snippet
		}
	}
	return out
}

// translateChunk requests one chunk's translation, retrying once on a
// malformed reply. On exhaustion it returns nil and the chunk's items keep
// their original text.
func (t *Translator) translateChunk(ctx context.Context, chunk []payload, targetLanguage string) []payload {
	input, err := json.Marshal(chunk)
	if err != nil {
		return nil
	}

	prompt := fmt.Sprintf(`You are a professional news translator.
Task: Translate the "title" and "snippet" of the provided news items into %[1]s.

Rules:
1. Output ONLY a VALID JSON Array. No markdown, no intro text.
2. Preserve the "index" property for each item EXACTLY as provided.
3. Translate "title" and "snippet" to %[1]s.
4. Do not omit any items.

Input:
%s`, targetLanguage, input)

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err := t.requestChunk(ctx, prompt)
		if err == nil {
			return result
		}
		t.log.WithFields(logrus.Fields{
			"language": targetLanguage,
			"attempt":  attempt + 1,
			"error":    err,
		}).Warn("Chunk translation failed")
	}
	return nil
}

func (t *Translator) requestChunk(ctx context.Context, prompt string) ([]payload, error) {
	resp, err := t.gen.GenerateText(ctx, generate.TextRequest{Prompt: prompt, JSONOnly: true})
	if err != nil {
		return nil, err
	}

	cleaned := extract.CleanJSON(resp.Text)
	var result []payload
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("malformed translation reply: %w", err)
	}
	return result, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
