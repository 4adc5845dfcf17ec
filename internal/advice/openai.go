package advice

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const DefaultOpenAIModel = openai.GPT4oMini

// OpenAIAdvisor talks to any OpenAI compatible chat completion endpoint.
type OpenAIAdvisor struct {
	client *openai.Client
	model  string
}

func NewOpenAIAdvisor(apiKey, baseURL, model string) *OpenAIAdvisor {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIAdvisor{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (a *OpenAIAdvisor) Advise(ctx context.Context, prompt string) (*Advice, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "advice",
				Schema: adviceSchema,
				Strict: true,
			},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return ParseAdvice(resp.Choices[0].Message.Content)
}
