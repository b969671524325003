// Package accounts stores the bank, wallet and credit-line accounts linked
// to a user.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/dbx"
	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, user_id, bank, short_name, account_number, balance, is_credit_line, is_salary_account, color_scheme`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	a := &models.Account{}
	if err := row.Scan(&a.ID, &a.UserID, &a.Bank, &a.ShortName, &a.AccountNumber,
		&a.Balance, &a.IsCreditLine, &a.IsSalaryAccount, &a.ColorScheme); err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts the account. An existing account number is updated in
// place so that seeding can be repeated.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) error {
	query := `
		INSERT INTO accounts (user_id, bank, short_name, account_number, balance, is_credit_line, is_salary_account, color_scheme)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (account_number)
		DO UPDATE SET
			bank = EXCLUDED.bank,
			short_name = EXCLUDED.short_name,
			balance = EXCLUDED.balance,
			is_credit_line = EXCLUDED.is_credit_line,
			is_salary_account = EXCLUDED.is_salary_account,
			color_scheme = EXCLUDED.color_scheme
			WHERE accounts.user_id = EXCLUDED.user_id
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, a.UserID, a.Bank, a.ShortName, a.AccountNumber,
		a.Balance, a.IsCreditLine, a.IsSalaryAccount, a.ColorScheme).Scan(&a.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// account number taken by another user
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY is_credit_line DESC, bank`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select accounts: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetForUser(ctx context.Context, userID, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET balance = balance + $1 WHERE id = $2`, delta, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
