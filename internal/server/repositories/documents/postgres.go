package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/dbx"
	"github.com/flexrent/flexrent/internal/server/models"
)

// PostgresRepository implements document metadata storage over a dbx.DBTX.
// The statement bytes themselves live in object storage under StorageKey.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const documentColumns = `id, user_id, file_name, storage_key, total_income, salary_estimate, is_creditworthy, summary_validation, created_at`

func scanDocument(row interface{ Scan(...any) error }) (*models.Document, error) {
	d := &models.Document{}
	if err := row.Scan(&d.ID, &d.UserID, &d.FileName, &d.StorageKey, &d.TotalIncome,
		&d.SalaryEstimate, &d.IsCreditworthy, &d.SummaryValidation, &d.CreatedAt); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.Document) error {
	query := `
		INSERT INTO documents (user_id, file_name, storage_key, total_income, salary_estimate, is_creditworthy, summary_validation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, d.UserID, d.FileName, d.StorageKey, d.TotalIncome,
		d.SalaryEstimate, d.IsCreditworthy, d.SummaryValidation).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetForUser(ctx context.Context, userID, id string) (*models.Document, error) {
	d, err := scanDocument(r.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select document: %w", err)
	}
	return d, nil
}
