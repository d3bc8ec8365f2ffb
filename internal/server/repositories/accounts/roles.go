package accounts

import (
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

const roleSeparator = ","

func joinRoles(roles []models.Role) string {
	return strings.Join(models.RoleNames(roles), roleSeparator)
}

func splitRoles(s string) []models.Role {
	if s == "" {
		return nil
	}
	return models.RolesFromNames(strings.Split(s, roleSeparator))
}
