package advice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotConfigured = errors.New("advice provider is not configured")
	ErrEmptyResponse = errors.New("empty response from advice provider")
)

// Advice is the structured answer of the language model.
type Advice struct {
	Score       int      `json:"score"`
	Explanation string   `json:"explanation"`
	Suggestions []string `json:"suggestions"`
}

// Advisor sends a prepared prompt to a language model and parses its answer.
type Advisor interface {
	Advise(ctx context.Context, prompt string) (*Advice, error)
}

const systemPrompt = "You are a personal finance assistant. Read the user's financial summary and answer with a JSON " +
	"object containing: score (integer 0-100, higher means healthier finances), explanation (two or three " +
	"sentences) and suggestions (three to five short, concrete tips). Return ONLY raw JSON, no Markdown."

var adviceSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"score": {"type": "integer", "minimum": 0, "maximum": 100},
		"explanation": {"type": "string"},
		"suggestions": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["score", "explanation", "suggestions"],
	"additionalProperties": false
}`)

// ParseAdvice decodes a model answer, tolerating Markdown fences around the JSON.
func ParseAdvice(raw string) (*Advice, error) {
	clean := cleanModelJSON(raw)
	if clean == "" {
		return nil, ErrEmptyResponse
	}

	var advice Advice
	if err := json.Unmarshal([]byte(clean), &advice); err != nil {
		return nil, fmt.Errorf("failed to parse advice response: %w", err)
	}
	if advice.Score < 0 {
		advice.Score = 0
	}
	if advice.Score > 100 {
		advice.Score = 100
	}
	if advice.Suggestions == nil {
		advice.Suggestions = []string{}
	}
	return &advice, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return strings.TrimSpace(s)
}
