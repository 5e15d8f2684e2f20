package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAILLM is an adapter for OpenAI's GPT models.
//
// Wraps the go-openai SDK behind the single-prompt Complete contract.
//
// Example:
//
//	engine := NewOpenAILLM("sk-...", "gpt-4o")
//	text, err := engine.Complete(ctx, "Say hello.")
type OpenAILLM struct {
	client *openai.Client
	model  string
}

// NewOpenAILLM creates a new OpenAI adapter.
//
// Parameters:
//   - apiKey: OpenAI API key
//   - model: Model identifier (e.g., "gpt-4o", "gpt-4-turbo")
func NewOpenAILLM(apiKey, model string) *OpenAILLM {
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAILLM{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Model returns the model identifier.
func (o *OpenAILLM) Model() string { return o.model }

// Complete sends the prompt as a single user message and returns the
// response text. API errors are returned unmodified beyond wrapping.
func (o *OpenAILLM) Complete(ctx context.Context, prompt string, opts ...CallOption) (string, error) {
	options := BuildCallOptions(opts...)

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	if options.Temperature != nil {
		req.Temperature = float32(*options.Temperature)
	}
	if options.MaxTokens != nil {
		req.MaxTokens = *options.MaxTokens
	}
	if options.TopP != nil {
		req.TopP = float32(*options.TopP)
	}
	if stop, ok := options.Extra["stop"].([]string); ok {
		req.Stop = stop
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
