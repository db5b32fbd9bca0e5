package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datagirl29/Google-DeepMind-Hackathon/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "unsalted [category]",
		Short: "The Unsalted Truth news reader",
		Long: `unsalted fetches a news category, optionally translates the headlines,
and breaks stories down into plain-language summaries with Gemini.

Feeds are retrieved through a chain of public proxies; when every proxy
fails a bundled demo edition is served so there is always something to read.

Examples:
  unsalted                          # Front page for the WORLD category
  unsalted TECHNOLOGY                     # Front page for the TECHNOLOGY category
  unsalted TECHNOLOGY --language Spanish  # Translated headlines
  unsalted --analyze 0 --listen     # Break down the top story and narrate it`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.unsalted.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.Language, "language", "l", flags.Language, "Display language for headlines and breakdowns")
	cmd.Flags().StringVar(&flags.Role, "role", flags.Role, "Reader persona role (e.g. Citizen, Student, Investor)")
	cmd.Flags().StringVar(&flags.Location, "location", flags.Location, "Reader persona location (e.g. 'New York, USA')")
	cmd.Flags().IntVar(&flags.Analyze, "analyze", flags.Analyze, "Break down the story at this front-page position (-1 for none)")
	cmd.Flags().BoolVar(&flags.Listen, "listen", false, "Narrate the breakdown through the system audio player")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose logging")
	cmd.Flags().BoolVar(&flags.SkipImages, "skip-images", false, "Skip illustration generation")
	cmd.Flags().BoolVar(&flags.SkipAudio, "skip-audio", false, "Skip speech synthesis")

	// Provider flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Text generation provider (gemini or openai)")
	cmd.Flags().StringVar(&flags.GeminiTextModel, "gemini-text-model", flags.GeminiTextModel, "Gemini model for analysis and translation")
	cmd.Flags().StringVar(&flags.GeminiImageModel, "gemini-image-model", flags.GeminiImageModel, "Gemini model for illustrations")
	cmd.Flags().StringVar(&flags.GeminiSpeechModel, "gemini-speech-model", flags.GeminiSpeechModel, "Gemini model for narration")
	cmd.Flags().StringVar(&flags.GeminiVoice, "gemini-voice", flags.GeminiVoice, "Prebuilt narration voice")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model when --provider openai")
	cmd.Flags().IntVar(&flags.RequestsPerMinute, "rpm", flags.RequestsPerMinute, "Generation request rate limit (0 for unlimited)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("display.language", cmd.Flags().Lookup("language"))
	viper.BindPFlag("persona.role", cmd.Flags().Lookup("role"))
	viper.BindPFlag("persona.location", cmd.Flags().Lookup("location"))
	viper.BindPFlag("provider.name", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("gemini.text_model", cmd.Flags().Lookup("gemini-text-model"))
	viper.BindPFlag("gemini.image_model", cmd.Flags().Lookup("gemini-image-model"))
	viper.BindPFlag("gemini.speech_model", cmd.Flags().Lookup("gemini-speech-model"))
	viper.BindPFlag("gemini.voice", cmd.Flags().Lookup("gemini-voice"))
	viper.BindPFlag("openai.model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("generation.requests_per_minute", cmd.Flags().Lookup("rpm"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".unsalted" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".unsalted")
	}

	// Environment variables
	viper.SetEnvPrefix("UNSALTED")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	// First check environment variable
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("gemini.api_key")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.api_key")
}
