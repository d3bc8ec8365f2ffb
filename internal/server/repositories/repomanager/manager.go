// Package repomanager opens the configured storage backend and vends the
// repositories built on it.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Accounts() accounts.Repository
	Close() error
}

// New returns a PostgreSQL-backed manager for a non-empty DSN (migrations
// applied) and an in-memory one otherwise.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewInMemoryRepositoryManager(), nil
	}
	return NewPostgresRepositoryManager(ctx, dsn)
}
