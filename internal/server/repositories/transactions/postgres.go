// Package transactions persists the money movements shown on the
// dashboard and the transaction history page.
package transactions

import (
	"context"
	"fmt"

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

const selectTransactions = `
	SELECT id, user_id, account_id, date, name, description, amount, type, category
	FROM transactions
	WHERE user_id = $1
	ORDER BY date DESC, id`

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	var result []*models.Transaction
	for rows.Next() {
		var item models.Transaction
		var typ, category string
		if err := rows.Scan(&item.ID, &item.UserID, &item.AccountID, &item.Date, &item.Name,
			&item.Description, &item.Amount, &typ, &category); err != nil {
			return nil, err
		}
		item.Type = models.TransactionType(typ)
		item.Category = models.TransactionCategory(category)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return r.query(ctx, selectTransactions, userID)
}

func (r *PostgresRepository) Recent(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	return r.query(ctx, selectTransactions+` LIMIT $2`, userID, limit)
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, account_id, date, name, description, amount, type, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, t.UserID, t.AccountID, t.Date, t.Name, t.Description,
		t.Amount, string(t.Type), string(t.Category)).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// UpdateCategory recategorises a transaction owned by userID.
func (r *PostgresRepository) UpdateCategory(ctx context.Context, userID, id string, category models.TransactionCategory) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category = $1 WHERE id = $2 AND user_id = $3`,
		string(category), id, userID)
	if err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
