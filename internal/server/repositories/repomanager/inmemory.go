package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
)

type InMemoryRepositoryManager struct {
	accounts *accounts.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{accounts: accounts.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Accounts() accounts.Repository { return m.accounts }

func (m *InMemoryRepositoryManager) Close() error { return nil }
