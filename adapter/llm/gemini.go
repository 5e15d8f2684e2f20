package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiLLM is an adapter for Google's Gemini models.
//
// Example:
//
//	engine, err := NewGeminiLLM("", "gemini-2.0-flash")
//	text, err := engine.Complete(ctx, "Say hello.")
type GeminiLLM struct {
	client *genai.Client
	model  string
}

// NewGeminiLLM creates a new Gemini adapter.
//
// Parameters:
//   - apiKey: Google API key. If empty, GEMINI_API_KEY then GOOGLE_API_KEY
//     environment variables are consulted
//   - model: Model identifier (e.g., "gemini-2.0-flash", "gemini-1.5-pro")
func NewGeminiLLM(apiKey, model string) (*GeminiLLM, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("gemini api key required: provide apiKey parameter or set GEMINI_API_KEY or GOOGLE_API_KEY")
		}
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiLLM{
		client: client,
		model:  model,
	}, nil
}

// Model returns the model identifier.
func (g *GeminiLLM) Model() string { return g.model }

// Complete sends the prompt and returns the concatenated text parts of the
// first candidate.
func (g *GeminiLLM) Complete(ctx context.Context, prompt string, opts ...CallOption) (string, error) {
	options := BuildCallOptions(opts...)

	model := g.client.GenerativeModel(g.model)
	if options.Temperature != nil {
		model.SetTemperature(float32(*options.Temperature))
	}
	if options.MaxTokens != nil {
		model.SetMaxOutputTokens(int32(*options.MaxTokens))
	}
	if options.TopP != nil {
		model.SetTopP(float32(*options.TopP))
	}
	if topK, ok := options.Extra["top_k"].(int); ok {
		model.SetTopK(int32(topK))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var content string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			content += string(text)
		}
	}
	return content, nil
}

// Close releases the underlying client connection.
func (g *GeminiLLM) Close() error {
	return g.client.Close()
}
