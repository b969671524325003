// Package verifications records identity and income verification attempts.
package verifications

import (
	"context"
	"database/sql"
	"errors"
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

func (r *PostgresRepository) Create(ctx context.Context, v *models.Verification) error {
	query := `
		INSERT INTO verifications (user_id, kind, status, reference, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	// a nil slice stores NULL rather than an empty JSON document
	var details any
	if len(v.Details) > 0 {
		details = v.Details
	}
	err := r.db.QueryRowContext(ctx, query, v.UserID, string(v.Kind), string(v.Status), v.Reference, details).
		Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Latest(ctx context.Context, userID string, kind models.VerificationKind) (*models.Verification, error) {
	query := `
		SELECT id, user_id, kind, status, reference, details, created_at
		FROM verifications
		WHERE user_id = $1 AND kind = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	v := &models.Verification{}
	var k, status string
	err := r.db.QueryRowContext(ctx, query, userID, string(kind)).
		Scan(&v.ID, &v.UserID, &k, &status, &v.Reference, &v.Details, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	v.Kind = models.VerificationKind(k)
	v.Status = models.VerificationStatus(status)
	return v, nil
}
