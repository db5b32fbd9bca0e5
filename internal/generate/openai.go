package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIText implements TextGenerator on top of the OpenAI chat API. It is an
// alternate text provider; search grounding is not available, so replies never
// carry citations.
type OpenAIText struct {
	client *openai.Client
	model  string
}

// NewOpenAIText creates an OpenAI-backed text generator.
func NewOpenAIText(apiKey, model string) (*OpenAIText, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIText{client: openai.NewClient(apiKey), model: model}, nil
}

// GenerateText runs a chat completion. The system instruction, when present,
// is sent as a system message. JSONOnly is not forwarded: the chat API's JSON
// mode only emits objects while callers also expect arrays, so extraction is
// left to the response extractor.
func (o *OpenAIText) GenerateText(ctx context.Context, req TextRequest) (*TextResult, error) {
	var messages []openai.ChatCompletionMessage
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty OpenAI response")
	}

	return &TextResult{Text: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}
