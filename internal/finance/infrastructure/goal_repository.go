package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	database "github.com/sebuszqo/FinanceDashboard/db"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
)

const goalColumns = "id, owner_id, name, target_amount, saved_amount, icon, created_at"

type GoalRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewGoalRepository(db *sql.DB, dialect database.Dialect) *GoalRepository {
	return &GoalRepository{db: db, dialect: dialect}
}

func (r *GoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	goal.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`INSERT INTO goals (id, owner_id, name, target_amount, saved_amount, icon, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`),
		goal.ID, goal.OwnerID, goal.Name, goal.TargetAmount, goal.SavedAmount, goal.Icon, goal.CreatedAt,
	)
	return classify("create goal", err)
}

func (r *GoalRepository) FindByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT `+goalColumns+` FROM goals WHERE id = ?`), goalID)

	goal, err := scanGoal(row)
	if err != nil {
		return nil, classify("find goal", err)
	}
	return goal, nil
}

func (r *GoalRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Goal, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(
		`SELECT `+goalColumns+` FROM goals WHERE owner_id = ? ORDER BY name ASC, id ASC`), ownerID)
	if err != nil {
		return nil, classify("list goals", err)
	}
	defer rows.Close()

	goals := []domain.Goal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, classify("list goals", err)
		}
		goals = append(goals, *goal)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list goals", err)
	}
	return goals, nil
}

func (r *GoalRepository) Update(ctx context.Context, goal *domain.Goal) (int64, error) {
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`UPDATE goals SET name = ?, target_amount = ?, saved_amount = ?, icon = ?
        WHERE id = ? AND owner_id = ?`),
		goal.Name, goal.TargetAmount, goal.SavedAmount, goal.Icon, goal.ID, goal.OwnerID,
	)
	if err != nil {
		return 0, classify("update goal", err)
	}
	return rowsAffected("update goal", result)
}

func (r *GoalRepository) Delete(ctx context.Context, goalID, ownerID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`DELETE FROM goals WHERE id = ? AND owner_id = ?`), goalID, ownerID)
	if err != nil {
		return 0, classify("delete goal", err)
	}
	return rowsAffected("delete goal", result)
}

func scanGoal(row rowScanner) (*domain.Goal, error) {
	var goal domain.Goal
	if err := row.Scan(&goal.ID, &goal.OwnerID, &goal.Name, &goal.TargetAmount, &goal.SavedAmount,
		&goal.Icon, &goal.CreatedAt); err != nil {
		return nil, err
	}
	return &goal, nil
}
