package processor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/datagirl29/Google-DeepMind-Hackathon/internal"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/analysis"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/audio"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/cli"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/controller"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/feed"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/generate"
	"github.com/datagirl29/Google-DeepMind-Hackathon/internal/translation"
)

// Processor handles the main reading flow
type Processor struct {
	flags *cli.Flags
	log   *logrus.Logger
}

// NewProcessor creates a new processor
func NewProcessor(flags *cli.Flags) *Processor {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if flags.Verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return &Processor{flags: flags, log: log}
}

// Run executes the reading flow for one category.
func (p *Processor) Run(ctx context.Context, category string) error {
	if category == "" {
		category = p.flags.Category
	}
	if p.flags.Listen && p.flags.SkipAudio {
		return fmt.Errorf("--listen and --skip-audio are mutually exclusive")
	}

	ctrl, err := p.buildController(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Fetching %s news...\n", category)
	if err := ctrl.SetCategory(ctx, category); err != nil {
		return err
	}
	if p.flags.Language != controller.DefaultLanguage {
		fmt.Printf("Translating headlines to %s...\n", p.flags.Language)
		if err := ctrl.SetLanguage(ctx, p.flags.Language); err != nil {
			return err
		}
	}

	printFrontPage(ctrl.Category(), ctrl.Items())

	if p.flags.Analyze >= 0 {
		if err := p.analyzeStory(ctx, ctrl); err != nil {
			return err
		}
	}

	return nil
}

// buildController assembles the generation stack from the flags.
func (p *Processor) buildController(ctx context.Context) (*controller.Controller, error) {
	geminiKey := cli.GetGeminiKey()

	var gemini *generate.GeminiClient
	needsGemini := p.flags.Provider == "gemini" || !p.flags.SkipImages || !p.flags.SkipAudio
	if needsGemini && geminiKey != "" {
		var err error
		gemini, err = generate.NewGeminiClient(ctx, &generate.GeminiConfig{
			APIKey:      geminiKey,
			TextModel:   p.flags.GeminiTextModel,
			ImageModel:  p.flags.GeminiImageModel,
			SpeechModel: p.flags.GeminiSpeechModel,
			Voice:       p.flags.GeminiVoice,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
	}

	var textGen generate.TextGenerator
	switch p.flags.Provider {
	case "gemini":
		if gemini == nil {
			return nil, fmt.Errorf("GEMINI_API_KEY is required (set it or use --provider openai)")
		}
		textGen = gemini
	case "openai":
		openAI, err := generate.NewOpenAIText(cli.GetOpenAIKey(), p.flags.OpenAIModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		textGen = openAI
	default:
		return nil, fmt.Errorf("unknown provider %q (want gemini or openai)", p.flags.Provider)
	}
	resilient := generate.NewResilientTextGenerator(textGen, p.flags.RequestsPerMinute)

	var images generate.ImageGenerator
	if !p.flags.SkipImages && gemini != nil {
		images = gemini
	}
	var speech generate.SpeechSynthesizer
	if !p.flags.SkipAudio && gemini != nil {
		speech = gemini
	}
	var player audio.Player
	if p.flags.Listen {
		if speech == nil {
			return nil, fmt.Errorf("--listen needs a Gemini API key for speech synthesis")
		}
		player = audio.NewExecPlayer()
	}

	return controller.New(controller.Config{
		Feeds:      feed.NewOrchestrator(feed.Config{Logger: p.log}),
		Translator: translation.NewTranslator(resilient, p.log),
		Analyzer:   analysis.NewAnalyzer(resilient, p.log),
		Images:     images,
		Speech:     speech,
		Player:     player,
		Persona:    analysis.Persona{Role: p.flags.Role, Location: p.flags.Location},
		Logger:     p.log,
	}), nil
}

// analyzeStory breaks down the story at the requested front-page position.
func (p *Processor) analyzeStory(ctx context.Context, ctrl *controller.Controller) error {
	session, ok := ctrl.SessionAt(p.flags.Analyze)
	if !ok {
		return fmt.Errorf("no story at position %d", p.flags.Analyze)
	}

	fmt.Printf("\nAnalyzing: %s\n", session.Item().Title)
	if err := session.RequestAnalysis(ctx, ctrl.Language(), false); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	session.WaitIllustration()

	state := session.State()
	printBreakdown(state)

	if state.Illustration.Image != nil {
		path, err := saveIllustration(state.Illustration.Image, session.Item().Title)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to save illustration: %v\n", err)
		} else {
			fmt.Printf("\nEditorial sketch saved to: %s\n", path)
		}
	}

	if p.flags.Listen {
		return p.narrate(ctx, session)
	}
	return nil
}

// narrate plays the narration and blocks until playback finishes.
func (p *Processor) narrate(ctx context.Context, session *analysis.Session) error {
	fmt.Printf("\nNarrating (press Ctrl-C to stop)...\n")
	if err := session.ToggleSpeech(ctx); err != nil {
		return err
	}
	for session.State().Speech.Playing {
		select {
		case <-ctx.Done():
			session.ToggleSpeech(context.Background())
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return nil
}

func printFrontPage(category feed.Category, items []feed.Item) {
	fmt.Printf("\n=== The Unsalted Truth: %s ===\n", category.Label)
	for i, item := range items {
		fmt.Printf("\n[%d] %s\n", i, item.Title)
		fmt.Printf("    %s | %s\n", item.Source, item.PubDate.Format("Mon, 02 Jan 2006"))
		if item.Snippet != "" {
			fmt.Printf("    %s\n", item.Snippet)
		}
	}
	if len(items) == 0 {
		fmt.Printf("\nNo news found. This might be due to proxy limits, try again later.\n")
	}
	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
}

func printBreakdown(state analysis.State) {
	b := state.Breakdown
	if b == nil {
		return
	}

	fmt.Printf("\n\"%s\"\n", b.Why)
	fmt.Printf("\nAudience: %s", b.Audience)
	if b.Geolocation != nil && b.Geolocation.Label != "" {
		fmt.Printf(" | Location: %s", b.Geolocation.Label)
	}
	label := b.BiasAnalysis.Label
	if label == "" {
		if b.BiasAnalysis.IsControversial {
			label = "Controversial"
		} else {
			label = "Verified"
		}
	}
	fmt.Printf(" | %s\n", label)

	printSection("WHAT HAPPENED?", b.What)
	printSection("WHO IS AFFECTED!", b.Who)
	printSection("PRESENT", b.PresentConsequences)
	printSection("FUTURE", b.FutureImpact)
	printSection("PAST CONTEXT", b.PastReferences)

	fmt.Printf("\nAdvisor: %s\n", b.WaitOrPrepare.Advice)
	if b.WaitOrPrepare.Reasoning != "" {
		fmt.Printf("  \"%s\"\n", b.WaitOrPrepare.Reasoning)
	}

	if b.BiasAnalysis.DetectedBias != "" {
		fmt.Printf("\nBias: %s\n", b.BiasAnalysis.DetectedBias)
		for _, perspective := range b.BiasAnalysis.MissingPerspectives {
			fmt.Printf("  Missing perspective: %s\n", perspective)
		}
	}
	if b.EmotionalLoad.Warning != "" {
		fmt.Printf("\nContent note (%d/100): %s\n", b.EmotionalLoad.Score, b.EmotionalLoad.Warning)
	}

	if len(state.Citations) > 0 {
		fmt.Printf("\nVerified sources:\n")
		for _, c := range state.Citations {
			title := c.Title
			if title == "" {
				title = "Source"
			}
			fmt.Printf("  - %s (%s)\n", title, c.URI)
		}
	}
}

func printSection(heading string, points []string) {
	if len(points) == 0 {
		return
	}
	fmt.Printf("\n%s\n", heading)
	for _, point := range points {
		fmt.Printf("  * %s\n", point)
	}
}

// saveIllustration writes the sketch into the working directory so the
// reader can open it.
func saveIllustration(img *generate.Image, headline string) (string, error) {
	ext := ".png"
	if img.MIMEType == "image/jpeg" {
		ext = ".jpg"
	}
	name := internal.SanitizeFilename(headline)
	if name == "" {
		name = "unsalted"
	}
	path := "sketch-" + name + ext
	if err := os.WriteFile(path, img.Data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
