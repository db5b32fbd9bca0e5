package generate

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiConfig holds model selection for the Gemini-backed capabilities.
type GeminiConfig struct {
	APIKey      string
	TextModel   string
	ImageModel  string
	SpeechModel string
	Voice       string
}

// DefaultGeminiConfig returns the default model configuration.
func DefaultGeminiConfig() *GeminiConfig {
	return &GeminiConfig{
		TextModel:   "gemini-2.5-flash",
		ImageModel:  "gemini-2.5-flash-image",
		SpeechModel: "gemini-2.5-flash-preview-tts",
		Voice:       "Fenrir",
	}
}

// GeminiClient implements TextGenerator, ImageGenerator and SpeechSynthesizer
// on top of the Gemini API.
type GeminiClient struct {
	client *genai.Client
	config *GeminiConfig
}

// NewGeminiClient creates a Gemini-backed generation client.
func NewGeminiClient(ctx context.Context, config *GeminiConfig) (*GeminiClient, error) {
	if config == nil {
		config = DefaultGeminiConfig()
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	defaults := DefaultGeminiConfig()
	if config.TextModel == "" {
		config.TextModel = defaults.TextModel
	}
	if config.ImageModel == "" {
		config.ImageModel = defaults.ImageModel
	}
	if config.SpeechModel == "" {
		config.SpeechModel = defaults.SpeechModel
	}
	if config.Voice == "" {
		config.Voice = defaults.Voice
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: config}, nil
}

// GenerateText runs a text-generation call, optionally with the search tool
// enabled, and collects grounding citations from the reply.
func (c *GeminiClient) GenerateText(ctx context.Context, req TextRequest) (*TextResult, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.UseSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	if req.JSONOnly && !req.UseSearch {
		// The API rejects a response MIME type when tools are enabled.
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.config.TextModel, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("Gemini text generation failed: %w", err)
	}

	result := &TextResult{Text: resp.Text()}

	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			result.Citations = append(result.Citations, Citation{
				URI:   chunk.Web.URI,
				Title: chunk.Web.Title,
			})
		}
	}

	return result, nil
}

// GenerateImage asks the image model for an inline image. A reply without
// image parts yields ErrNoImage so the caller can try its fallback prompt.
func (c *GeminiClient) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	cfg := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: "16:9"},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.config.ImageModel, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("Gemini image generation failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return &Image{Data: part.InlineData.Data, MIMEType: mime}, nil
			}
		}
	}

	return nil, ErrNoImage
}

// GenerateSpeech synthesizes the text and returns the raw PCM bytes.
func (c *GeminiClient) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.config.Voice},
			},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.config.SpeechModel, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("Gemini speech synthesis failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, ErrNoAudio
}
