package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from the accounts migration.
const (
	emailConstraint = "accounts_email_key"
	codeConstraint  = "accounts_verification_code_key"
)

const accountColumns = `id, first_name, last_name, email, password_hash, roles, enabled, verification_code, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		 WHERE email = $1`

	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) FindByEmailAndCode(ctx context.Context, email, code string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		 WHERE email = $1 AND verification_code = $2`

	return scanAccount(r.db.QueryRowContext(ctx, query, email, code))
}

func (r *PostgresRepository) Save(ctx context.Context, account *models.Account) (*models.Account, error) {
	saved := *account
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO accounts (id, first_name, last_name, email, password_hash, roles, enabled, verification_code)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   first_name = EXCLUDED.first_name,
		   last_name = EXCLUDED.last_name,
		   email = EXCLUDED.email,
		   password_hash = EXCLUDED.password_hash,
		   roles = EXCLUDED.roles,
		   enabled = EXCLUDED.enabled,
		   verification_code = EXCLUDED.verification_code,
		   updated_at = now()
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		saved.ID, saved.FirstName, saved.LastName, saved.Email, saved.PasswordHash,
		joinRoles(saved.Roles), saved.Enabled, nullString(saved.VerificationCode),
	).Scan(&saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, mapWriteError(err)
	}

	return &saved, nil
}

func (r *PostgresRepository) ConfirmEmail(ctx context.Context, email, code string) (*models.Account, error) {
	var account *models.Account

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		selectQuery := `SELECT ` + accountColumns + ` FROM accounts
		 WHERE email = $1 AND verification_code = $2
		 FOR UPDATE`

		found, err := scanAccount(tx.QueryRowContext(ctx, selectQuery, email, code))
		if err != nil {
			return err
		}

		updateQuery :=
			`UPDATE accounts SET enabled = TRUE, verification_code = NULL, updated_at = now()
			 WHERE id = $1
			 RETURNING updated_at`

		var updatedAt time.Time
		if err := tx.QueryRowContext(ctx, updateQuery, found.ID).Scan(&updatedAt); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		found.Enabled = true
		found.VerificationCode = nil
		found.UpdatedAt = updatedAt
		account = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		a     models.Account
		roles string
		code  sql.NullString
	)

	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash,
		&roles, &a.Enabled, &code, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.Roles = splitRoles(roles)
	if code.Valid {
		a.VerificationCode = &code.String
	}

	return &a, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if pgErr.ConstraintName == codeConstraint {
			return common.ErrVerificationCodeConflict
		}
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}
