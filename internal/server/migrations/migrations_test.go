package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	files, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		b, err := fs.ReadFile(Migrations, name)
		require.NoError(t, err)
		body := string(b)
		assert.True(t, strings.Contains(body, "-- +goose Up"), name)
		assert.True(t, strings.Contains(body, "-- +goose Down"), name)
	}
}

func TestMigrations_AccountConstraints(t *testing.T) {
	b, err := fs.ReadFile(Migrations, "00001_create_accounts.sql")
	require.NoError(t, err)

	for _, constraint := range []string{"accounts_email_key", "accounts_verification_code_key"} {
		assert.Contains(t, string(b), constraint)
	}
}
