package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Category", flags.Category, "WORLD"},
		{"Language", flags.Language, "English"},
		{"Role", flags.Role, "Citizen"},
		{"Location", flags.Location, "USA"},
		{"Analyze", flags.Analyze, -1},
		{"Provider", flags.Provider, "gemini"},
		{"GeminiTextModel", flags.GeminiTextModel, "gemini-2.5-flash"},
		{"GeminiImageModel", flags.GeminiImageModel, "gemini-2.5-flash-image"},
		{"GeminiSpeechModel", flags.GeminiSpeechModel, "gemini-2.5-flash-preview-tts"},
		{"GeminiVoice", flags.GeminiVoice, "Fenrir"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini"},
		{"RequestsPerMinute", flags.RequestsPerMinute, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Listen", flags.Listen},
		{"Verbose", flags.Verbose},
		{"SkipImages", flags.SkipImages},
		{"SkipAudio", flags.SkipAudio},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != false {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	if flags.CfgFile != "" {
		t.Errorf("CfgFile = %v, want empty string", flags.CfgFile)
	}
}

func TestFlagsStructure(t *testing.T) {
	// Test that Flags struct has all expected fields
	flags := &Flags{}
	flagsType := reflect.TypeOf(*flags)

	expectedFields := []string{
		"CfgFile", "Category", "Language", "Role", "Location",
		"Analyze", "Listen", "Verbose", "Provider",
		"GeminiTextModel", "GeminiImageModel", "GeminiSpeechModel", "GeminiVoice",
		"OpenAIModel", "RequestsPerMinute", "SkipImages", "SkipAudio",
	}

	for _, fieldName := range expectedFields {
		t.Run("has_field_"+fieldName, func(t *testing.T) {
			if _, ok := flagsType.FieldByName(fieldName); !ok {
				t.Errorf("Flags struct missing field: %s", fieldName)
			}
		})
	}
}
