package advice

import (
	"context"
	"fmt"
	"strings"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/application"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	"github.com/sebuszqo/FinanceDashboard/internal/logger"
)

type SummaryProvider interface {
	GetTransactionSummary(ctx context.Context, ownerID, startDate, endDate string) (*application.SpendingSummary, error)
}

type GoalLister interface {
	ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error)
}

// Service builds prompts from the record store and forwards them to the advisor.
// A nil advisor makes every call return ErrNotConfigured.
type Service struct {
	summaries SummaryProvider
	goals     GoalLister
	advisor   Advisor
}

func NewService(summaries SummaryProvider, goals GoalLister, advisor Advisor) *Service {
	return &Service{summaries: summaries, goals: goals, advisor: advisor}
}

func (s *Service) Enabled() bool {
	return s.advisor != nil
}

func (s *Service) SpendingAdvice(ctx context.Context, ownerID, startDate, endDate string) (*Advice, error) {
	if s.advisor == nil {
		return nil, ErrNotConfigured
	}
	summary, err := s.summaries.GetTransactionSummary(ctx, ownerID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.ask(ctx, ownerID, SpendingPrompt(summary))
}

func (s *Service) GoalAdvice(ctx context.Context, ownerID string) (*Advice, error) {
	if s.advisor == nil {
		return nil, ErrNotConfigured
	}
	goals, err := s.goals.ListGoals(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.ask(ctx, ownerID, GoalsPrompt(goals))
}

func (s *Service) ask(ctx context.Context, ownerID, prompt string) (*Advice, error) {
	advice, err := s.advisor.Advise(ctx, prompt)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("owner_id", ownerID).Msg("Advice request failed")
		return nil, err
	}
	return advice, nil
}

// NewAdvisor picks the provider implementation. An empty provider disables advice.
func NewAdvisor(ctx context.Context, provider, apiKey, baseURL, model string) (Advisor, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIAdvisor(apiKey, baseURL, model), nil
	case "gemini":
		advisor, err := NewGeminiAdvisor(ctx, apiKey, baseURL, model)
		if err != nil {
			return nil, err
		}
		return advisor, nil
	default:
		return nil, fmt.Errorf("unknown advice provider %q", provider)
	}
}
