// Package generate abstracts the external generation capabilities the core
// consumes: text generation (optionally search-grounded), image generation and
// speech synthesis. Every capability is fallible; callers own the fallback.
package generate

import (
	"context"
	"errors"
)

// ErrNoImage indicates the image capability answered without image data.
var ErrNoImage = errors.New("generate: no image data returned")

// ErrNoAudio indicates the speech capability answered without audio data.
var ErrNoAudio = errors.New("generate: no audio data returned")

// TextRequest describes a single text-generation call.
type TextRequest struct {
	Prompt            string
	SystemInstruction string
	JSONOnly          bool // request a JSON-typed reply
	UseSearch         bool // enable the retrieval-augmentation tool
}

// Citation is a grounding source reference returned alongside a reply.
type Citation struct {
	URI   string
	Title string
}

// TextResult is a text-generation reply with optional grounding metadata.
type TextResult struct {
	Text      string
	Citations []Citation
}

// Image is generated inline image data.
type Image struct {
	Data     []byte
	MIMEType string
}

// TextGenerator produces free-form or JSON text.
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextRequest) (*TextResult, error)
}

// ImageGenerator produces an illustrative image for a prompt. Implementations
// return ErrNoImage when the reply carried no image data.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
}

// SpeechSynthesizer produces raw PCM speech bytes for a narration script.
type SpeechSynthesizer interface {
	GenerateSpeech(ctx context.Context, text string) ([]byte, error)
}
