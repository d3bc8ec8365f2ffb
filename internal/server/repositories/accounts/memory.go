package accounts

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

// InMemoryRepository keeps accounts in process memory. It honours the same
// uniqueness and atomicity guarantees as the PostgreSQL store and backs
// development runs without a DSN.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.Account
	byEmail map[string]string
	byCode  map[string]string
	now     func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]*models.Account),
		byEmail: make(map[string]string),
		byCode:  make(map[string]string),
		now:     time.Now,
	}
}

func (r *InMemoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *InMemoryRepository) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *InMemoryRepository) FindByEmailAndCode(_ context.Context, email, code string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.matchLocked(email, code)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(a), nil
}

func (r *InMemoryRepository) Save(_ context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := clone(account)
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}

	if id, ok := r.byEmail[saved.Email]; ok && id != saved.ID {
		return nil, common.ErrorAlreadyExists
	}
	if saved.VerificationCode != nil {
		if id, ok := r.byCode[*saved.VerificationCode]; ok && id != saved.ID {
			return nil, common.ErrVerificationCodeConflict
		}
	}

	now := r.now()
	if prev, ok := r.byID[saved.ID]; ok {
		delete(r.byEmail, prev.Email)
		if prev.VerificationCode != nil {
			delete(r.byCode, *prev.VerificationCode)
		}
		saved.CreatedAt = prev.CreatedAt
	} else {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now

	r.byID[saved.ID] = saved
	r.byEmail[saved.Email] = saved.ID
	if saved.VerificationCode != nil {
		r.byCode[*saved.VerificationCode] = saved.ID
	}

	return clone(saved), nil
}

func (r *InMemoryRepository) ConfirmEmail(_ context.Context, email, code string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.matchLocked(email, code)
	if !ok {
		return nil, common.ErrorNotFound
	}

	delete(r.byCode, code)
	a.Enabled = true
	a.VerificationCode = nil
	a.UpdatedAt = r.now()

	return clone(a), nil
}

// Count returns the number of stored accounts.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *InMemoryRepository) matchLocked(email, code string) (*models.Account, bool) {
	id, ok := r.byCode[code]
	if !ok {
		return nil, false
	}
	a := r.byID[id]
	if a.Email != email {
		return nil, false
	}
	return a, true
}

func clone(a *models.Account) *models.Account {
	c := *a
	c.Roles = slices.Clone(a.Roles)
	if a.VerificationCode != nil {
		code := *a.VerificationCode
		c.VerificationCode = &code
	}
	return &c
}
