// Package services implements the use cases of the server: account
// registration and login, and owner-scoped project management.
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/codeide/internal/common"
	"github.com/dmitrijs2005/codeide/internal/logging"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// ValidationError is a rejected input. It matches common.ErrorValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == common.ErrorValidation }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// internalError logs err and hides it behind common.ErrorInternal.
func internalError(ctx context.Context, logger logging.Logger, msg string, err error) error {
	logger.Error(ctx, msg, "error", err)
	return common.ErrorInternal
}

type clock func() time.Time

var timeNow clock = time.Now
