package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OllamaLLM is an adapter for Ollama's local chat API.
//
// Useful for running the pipeline entirely offline against local models
// (Llama, Mistral, etc.).
//
// Example:
//
//	engine := NewOllamaLLM("llama3", "http://localhost:11434")
//	text, err := engine.Complete(ctx, "Say hello.")
type OllamaLLM struct {
	model   string
	baseURL string
	client  *http.Client
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// NewOllamaLLM creates a new Ollama adapter.
//
// Parameters:
//   - model: Model identifier (e.g., "llama3", "mistral")
//   - baseURL: Ollama API base URL (default: "http://localhost:11434")
func NewOllamaLLM(model, baseURL string) *OllamaLLM {
	if model == "" {
		model = "llama3"
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaLLM{
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Model returns the model identifier.
func (o *OllamaLLM) Model() string { return o.model }

// Complete sends the prompt as a single user message to /api/chat.
func (o *OllamaLLM) Complete(ctx context.Context, prompt string, opts ...CallOption) (string, error) {
	options := BuildCallOptions(opts...)

	reqBody := ollamaChatRequest{
		Model:    o.model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}
	if options.Temperature != nil || options.MaxTokens != nil || options.TopP != nil {
		reqBody.Options = &ollamaOptions{}
		if options.Temperature != nil {
			reqBody.Options.Temperature = *options.Temperature
		}
		if options.MaxTokens != nil {
			reqBody.Options.NumPredict = *options.MaxTokens
		}
		if options.TopP != nil {
			reqBody.Options.TopP = *options.TopP
		}
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewBuffer(reqJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(body))
	}

	var ollamaResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return ollamaResp.Message.Content, nil
}
