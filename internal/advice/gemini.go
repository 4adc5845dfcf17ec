package advice

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type GeminiAdvisor struct {
	client *genai.Client
	model  string
}

// NewGeminiAdvisor creates a Gemini API client. An empty apiKey falls back to the
// GOOGLE_API_KEY / GEMINI_API_KEY environment variables read by the SDK.
func NewGeminiAdvisor(ctx context.Context, apiKey, baseURL, model string) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiAdvisor{client: client, model: model}, nil
}

func (a *GeminiAdvisor) Advise(ctx context.Context, prompt string) (*Advice, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, ErrEmptyResponse
	}
	return ParseAdvice(rawText)
}
