package analysis

import (
	"context"
	"fmt"

	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/generate"
)

// Simplified wording avoids safety blocks on charged news keywords.
const specificSketchPrompt = `Editorial pencil sketch illustration for news topic: "%s". Vintage newspaper style, black and white, minimal, artistic, no text.`

// Generic breaking-news concept used when the headline itself is refused.
const fallbackSketchPrompt = "A vintage newspaper lying on a wooden table next to a cup of coffee. Artistic pencil sketch, detailed, black and white. No text."

// Illustrate renders an editorial sketch for a headline. If the
// headline-specific prompt yields nothing, one generic fallback attempt is
// made before giving up.
func Illustrate(ctx context.Context, gen generate.ImageGenerator, headline string) (*generate.Image, error) {
	img, err := gen.GenerateImage(ctx, fmt.Sprintf(specificSketchPrompt, headline))
	if err == nil {
		return img, nil
	}

	img, err = gen.GenerateImage(ctx, fallbackSketchPrompt)
	if err != nil {
		return nil, fmt.Errorf("illustration failed after fallback: %w", err)
	}
	return img, nil
}
