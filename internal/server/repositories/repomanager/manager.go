package repomanager

import (
	"context"
	"database/sql"

	"github.com/flexrent/flexrent/internal/dbx"
	"github.com/flexrent/flexrent/internal/server/repositories/accounts"
	"github.com/flexrent/flexrent/internal/server/repositories/documents"
	"github.com/flexrent/flexrent/internal/server/repositories/goals"
	"github.com/flexrent/flexrent/internal/server/repositories/refreshtokens"
	"github.com/flexrent/flexrent/internal/server/repositories/tenancy"
	"github.com/flexrent/flexrent/internal/server/repositories/transactions"
	"github.com/flexrent/flexrent/internal/server/repositories/users"
	"github.com/flexrent/flexrent/internal/server/repositories/verifications"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	RollbackMigration(context.Context, *sql.DB) error
	MigrationStatus(context.Context, *sql.DB) error

	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Accounts(db dbx.DBTX) accounts.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Goals(db dbx.DBTX) goals.Repository
	Tenancy(db dbx.DBTX) tenancy.Repository
	Verifications(db dbx.DBTX) verifications.Repository
	Documents(db dbx.DBTX) documents.Repository
}
