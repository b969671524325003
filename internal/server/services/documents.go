package services

import (
	"context"
	"database/sql"

	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/flexrent/flexrent/internal/server/repositories/repomanager"
)

// DocumentService lists a user's analysed statements and hands out
// short-lived download links for them.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       StatementStore
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, store StatementStore) *DocumentService {
	return &DocumentService{db: db, repomanager: m, store: store}
}

func (s *DocumentService) List(ctx context.Context, userID string) ([]*models.Document, error) {
	return s.repomanager.Documents(s.db).ListByUser(ctx, userID)
}

// URL returns a presigned download link for one of the user's documents.
func (s *DocumentService) URL(ctx context.Context, userID, documentID string) (string, error) {
	doc, err := s.repomanager.Documents(s.db).GetForUser(ctx, userID, documentID)
	if err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, doc.StorageKey)
}
