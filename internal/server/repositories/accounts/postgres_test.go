package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "first_name", "last_name", "email", "password_hash", "roles",
	"enabled", "verification_code", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestExistsByEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1\)$`
	mock.ExpectQuery(q).WithArgs("alice@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExistsByEmail_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT\s+EXISTS`).WithArgs("alice@x.com").
		WillReturnError(errors.New("db down"))

	_, err := repo.ExistsByEmail(context.Background(), "alice@x.com")
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	q := `(?s)^SELECT\s+id,.*FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1$`
	mock.ExpectQuery(q).WithArgs("alice@x.com").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("u-1", "alice", "doe", "alice@x.com", "hash", "ROLE_USER,ROLE_ADMIN", true, nil, created, created))

	got, err := repo.FindByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, &models.Account{
		ID:           "u-1",
		FirstName:    "alice",
		LastName:     "doe",
		Email:        "alice@x.com",
		PasswordHash: "hash",
		Roles:        []models.Role{models.RoleUser, "ROLE_ADMIN"},
		Enabled:      true,
		CreatedAt:    created,
		UpdatedAt:    created,
	}, got)
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+accounts`).WithArgs("ghost@x.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFindByEmailAndCode(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	q := `(?s)WHERE\s+email\s*=\s*\$1\s+AND\s+verification_code\s*=\s*\$2$`
	mock.ExpectQuery(q).WithArgs("alice@x.com", "code-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("u-1", "alice", "doe", "alice@x.com", "hash", "ROLE_USER", false, "code-1", now, now))

	got, err := repo.FindByEmailAndCode(context.Background(), "alice@x.com", "code-1")
	require.NoError(t, err)
	require.NotNil(t, got.VerificationCode)
	assert.Equal(t, "code-1", *got.VerificationCode)
	assert.False(t, got.Enabled)
}

func TestSave_Insert(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	q := `(?s)^INSERT\s+INTO\s+accounts\s*\(id,\s*first_name,.*VALUES\s*\(\$1,.*\$8\)\s*ON\s+CONFLICT\s*\(id\)\s+DO\s+UPDATE.*RETURNING\s+created_at,\s*updated_at$`
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "alice", "doe", "alice@x.com", "hash", "ROLE_USER", false, "code-1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	in := pendingAccount("alice@x.com", "code-1")
	got, err := repo.Save(context.Background(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Empty(t, in.ID, "input must not be mutated")
	assert.Equal(t, now, got.CreatedAt)
}

func TestSave_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{name: "email", constraint: emailConstraint, want: common.ErrorAlreadyExists},
		{name: "code", constraint: codeConstraint, want: common.ErrVerificationCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)

			mock.ExpectQuery(`INSERT\s+INTO\s+accounts`).
				WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: tt.constraint})

			_, err := repo.Save(context.Background(), pendingAccount("alice@x.com", "code-1"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSave_ClearsCodeAsNull(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT\s+INTO\s+accounts`).
		WithArgs("u-1", "alice", "doe", "alice@x.com", "hash", "ROLE_USER", true, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	a := pendingAccount("alice@x.com", "")
	a.ID = "u-1"
	a.Enabled = true
	a.VerificationCode = nil

	got, err := repo.Save(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
}

func TestConfirmEmail_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	later := now.Add(time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)WHERE\s+email\s*=\s*\$1\s+AND\s+verification_code\s*=\s*\$2\s+FOR\s+UPDATE$`).
		WithArgs("alice@x.com", "code-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("u-1", "alice", "doe", "alice@x.com", "hash", "ROLE_USER", false, "code-1", now, now))
	mock.ExpectQuery(`(?s)^UPDATE\s+accounts\s+SET\s+enabled\s*=\s*TRUE,\s*verification_code\s*=\s*NULL.*WHERE\s+id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(later))
	mock.ExpectCommit()

	got, err := repo.ConfirmEmail(context.Background(), "alice@x.com", "code-1")
	require.NoError(t, err)
	assert.True(t, got.Enabled)
	assert.Nil(t, got.VerificationCode)
	assert.Equal(t, later, got.UpdatedAt)
}

func TestConfirmEmail_NoMatchRollsBack(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR\s+UPDATE`).WithArgs("alice@x.com", "stale").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.ConfirmEmail(context.Background(), "alice@x.com", "stale")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestConfirmEmail_UpdateFailsRollsBack(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR\s+UPDATE`).WithArgs("alice@x.com", "code-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("u-1", "alice", "doe", "alice@x.com", "hash", "ROLE_USER", false, "code-1", now, now))
	mock.ExpectQuery(`UPDATE\s+accounts`).WithArgs("u-1").WillReturnError(errors.New("conn reset"))
	mock.ExpectRollback()

	_, err := repo.ConfirmEmail(context.Background(), "alice@x.com", "code-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conn reset")
}

func TestRoles_JoinSplit(t *testing.T) {
	assert.Equal(t, "", joinRoles(nil))
	assert.Nil(t, splitRoles(""))
	assert.Equal(t, []models.Role{models.RoleUser}, splitRoles(joinRoles([]models.Role{models.RoleUser})))
}
