package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	Category string
	Language string
	Role     string
	Location string
	Analyze  int
	Listen   bool
	Verbose  bool

	// Provider selection
	Provider string

	// Gemini flags
	GeminiTextModel   string
	GeminiImageModel  string
	GeminiSpeechModel string
	GeminiVoice       string

	// OpenAI flags
	OpenAIModel string

	// Resilience flags
	RequestsPerMinute int

	// Feature toggles
	SkipImages bool
	SkipAudio  bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Category:          "WORLD",
		Language:          "English",
		Role:              "Citizen",
		Location:          "USA",
		Analyze:           -1,
		Provider:          "gemini",
		GeminiTextModel:   "gemini-2.5-flash",
		GeminiImageModel:  "gemini-2.5-flash-image",
		GeminiSpeechModel: "gemini-2.5-flash-preview-tts",
		GeminiVoice:       "Fenrir",
		OpenAIModel:       "gpt-4o-mini",
		RequestsPerMinute: 10,
	}
}
