package application

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
)

type GoalService struct {
	repo domain.GoalRepository
}

func NewGoalService(repo domain.GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

func (s *GoalService) CreateGoal(ctx context.Context, goal *domain.Goal) (string, error) {
	goal.Name = strings.TrimSpace(goal.Name)
	goal.TargetAmount = goal.TargetAmount.Round(2)
	goal.SavedAmount = goal.SavedAmount.Round(2)
	if err := goal.Validate(); err != nil {
		return "", err
	}

	goal.ID = uuid.NewString()
	if err := s.repo.Create(ctx, goal); err != nil {
		return "", err
	}
	return goal.ID, nil
}

func (s *GoalService) ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error) {
	if strings.TrimSpace(ownerID) == "" {
		return []domain.Goal{}, nil
	}
	return s.repo.FindByOwner(ctx, ownerID)
}

func (s *GoalService) UpdateGoal(ctx context.Context, goalID, ownerID string, patch domain.GoalPatch) error {
	if patch.IsEmpty() {
		return financeErrors.NewValidationError("At least one field must be provided for update")
	}

	goal, err := s.findOwned(ctx, goalID, ownerID)
	if err != nil {
		return err
	}

	patch.Apply(goal)
	if err := goal.Validate(); err != nil {
		return err
	}

	affected, err := s.repo.Update(ctx, goal)
	if err != nil {
		return err
	}
	if affected == 0 {
		return financeErrors.NewNotFoundError("goal", goalID)
	}
	return nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, goalID, ownerID string) error {
	if _, err := s.findOwned(ctx, goalID, ownerID); err != nil {
		return err
	}
	affected, err := s.repo.Delete(ctx, goalID, ownerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return financeErrors.NewNotFoundError("goal", goalID)
	}
	return nil
}

func (s *GoalService) findOwned(ctx context.Context, goalID, ownerID string) (*domain.Goal, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, financeErrors.ErrMissingOwner
	}
	goal, err := s.repo.FindByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.NewNotFoundError("goal", goalID)
		}
		return nil, err
	}
	if goal.OwnerID != ownerID {
		return nil, financeErrors.NewPermissionError("goal", goalID)
	}
	return goal, nil
}
