// Package goals persists savings and contribution goals.
package goals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/dbx"
	"github.com/flexrent/flexrent/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const goalColumns = `id, user_id, title, icon, type, current_amount, target_amount, contribution_amount, completed`

func scanGoal(row interface{ Scan(...any) error }) (*models.Goal, error) {
	g := &models.Goal{}
	var typ string
	if err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Icon, &typ, &g.CurrentAmount,
		&g.TargetAmount, &g.ContributionAmount, &g.Completed); err != nil {
		return nil, err
	}
	g.Type = models.GoalType(typ)
	return g, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY completed, title`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select goals: %w", err)
	}
	defer rows.Close()

	var result []*models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, g *models.Goal) error {
	query := `
		INSERT INTO goals (user_id, title, icon, type, current_amount, target_amount, contribution_amount, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, g.UserID, g.Title, g.Icon, string(g.Type),
		g.CurrentAmount, g.TargetAmount, g.ContributionAmount, g.Completed).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetForUser(ctx context.Context, userID, id string) (*models.Goal, error) {
	g, err := scanGoal(r.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return g, nil
}

func (r *PostgresRepository) AddContribution(ctx context.Context, userID, id string, amount decimal.Decimal) (*models.Goal, error) {
	query := `
		UPDATE goals
		SET current_amount = current_amount + $1,
		    completed = (target_amount > 0 AND current_amount + $1 >= target_amount)
		WHERE id = $2 AND user_id = $3 AND NOT completed
		RETURNING ` + goalColumns
	g, err := scanGoal(r.db.QueryRowContext(ctx, query, amount, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return g, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
