// Package accounts persists Account records. Implementations enforce email
// and verification-code uniqueness and make the verification match-and-clear
// atomic.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Repository interface {
	// ExistsByEmail reports whether an account is registered under email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindByEmail returns common.ErrorNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)

	// FindByEmailAndCode matches both values exactly. A verified account has
	// no code and therefore never matches.
	FindByEmailAndCode(ctx context.Context, email, code string) (*models.Account, error)

	// Save inserts the account (assigning an ID when empty) or replaces the
	// stored record with the same ID. A clash on email yields
	// common.ErrorAlreadyExists, on verification code
	// common.ErrVerificationCodeConflict; nothing is written in either case.
	Save(ctx context.Context, account *models.Account) (*models.Account, error)

	// ConfirmEmail enables the account matching email and code and clears
	// the code in one atomic step. Concurrent callers with the same code see
	// at most one success; the rest get common.ErrorNotFound.
	ConfirmEmail(ctx context.Context, email, code string) (*models.Account, error)
}
