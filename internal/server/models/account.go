// Package models holds the server-side domain records.
package models

import (
	"slices"
	"time"
)

// Role names an authority granted to an account.
type Role string

// RoleUser is assigned to every account at registration.
const RoleUser Role = "ROLE_USER"

// Account is the persisted identity record. Email is the login name.
// VerificationCode is non-nil only while the account is pending.
type Account struct {
	ID               string
	FirstName        string
	LastName         string
	Email            string
	PasswordHash     string
	Roles            []Role
	Enabled          bool
	VerificationCode *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Pending reports whether the account still waits for email verification.
func (a *Account) Pending() bool {
	return !a.Enabled && a.VerificationCode != nil
}

// AuthenticationView builds the credential view used by login.
func (a *Account) AuthenticationView() AuthenticationView {
	return AuthenticationView{
		Username:     a.Email,
		PasswordHash: a.PasswordHash,
		Roles:        slices.Clone(a.Roles),
		Enabled:      a.Enabled,
	}
}

// AuthenticationView is the subset of an Account needed to check credentials.
type AuthenticationView struct {
	Username     string
	PasswordHash string
	Roles        []Role
	Enabled      bool
}

// Principal is the authenticated identity handed back to callers.
type Principal struct {
	Username string
	Roles    []Role
}

// RoleNames converts roles to plain strings for token claims and transport.
func RoleNames(roles []Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}

// RolesFromNames is the inverse of RoleNames.
func RolesFromNames(names []string) []Role {
	roles := make([]Role, len(names))
	for i, n := range names {
		roles[i] = Role(n)
	}
	return roles
}
