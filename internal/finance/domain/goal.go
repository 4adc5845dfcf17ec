package domain

import (
	"context"
	"strings"
	"time"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type Goal struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"owner_id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	SavedAmount  decimal.Decimal `json:"saved_amount"`
	Icon         string          `json:"icon"`
	CreatedAt    time.Time       `json:"created_at"`
}

type GoalRepository interface {
	Create(ctx context.Context, goal *Goal) error
	FindByID(ctx context.Context, goalID string) (*Goal, error)
	FindByOwner(ctx context.Context, ownerID string) ([]Goal, error)
	Update(ctx context.Context, goal *Goal) (int64, error)
	Delete(ctx context.Context, goalID, ownerID string) (int64, error)
}

func (g *Goal) Validate() error {
	if strings.TrimSpace(g.OwnerID) == "" {
		return errors.ErrMissingOwner
	}
	if strings.TrimSpace(g.Name) == "" {
		return errors.NewValidationError("Goal name is required")
	}
	if !g.TargetAmount.IsPositive() {
		return errors.NewValidationError("Target amount must be greater than zero")
	}
	if g.SavedAmount.IsNegative() {
		return errors.NewValidationError("Saved amount must not be negative")
	}
	if strings.TrimSpace(g.Icon) == "" {
		return errors.NewValidationError("Goal icon is required")
	}
	return nil
}

// Progress is the saved share of the target in percent. It may exceed 100.
func (g *Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return g.SavedAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(1)
}

type GoalPatch struct {
	Name         *string          `json:"name"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
	SavedAmount  *decimal.Decimal `json:"saved_amount"`
	Icon         *string          `json:"icon"`
}

func (p GoalPatch) IsEmpty() bool {
	return p.Name == nil && p.TargetAmount == nil && p.SavedAmount == nil && p.Icon == nil
}

func (p GoalPatch) Apply(goal *Goal) {
	if p.Name != nil {
		goal.Name = strings.TrimSpace(*p.Name)
	}
	if p.TargetAmount != nil {
		goal.TargetAmount = p.TargetAmount.Round(2)
	}
	if p.SavedAmount != nil {
		goal.SavedAmount = p.SavedAmount.Round(2)
	}
	if p.Icon != nil {
		goal.Icon = *p.Icon
	}
}
