// Package users is the credential store: persisted user identities with
// case-insensitive email uniqueness.
package users

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/codeide/internal/server/models"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/sqlerr"
)

// emailKey is the unique index on users.email.
var emailKey = sqlerr.UniqueKey{Postgres: "users_email_key", SQLite: "users.email"}

// Repository persists users. Implementations normalize emails with
// NormalizeEmail on both write and lookup, return common.ErrorNotFound for
// missing users and common.ErrDuplicateEmail when the store's unique index
// rejects an insert.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
