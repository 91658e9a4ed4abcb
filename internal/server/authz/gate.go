// Package authz decides whether an authenticated user may perform an
// operation on a project.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/codeide/internal/common"
	"github.com/dmitrijs2005/codeide/internal/server/models"
)

// Operation names a project operation subject to authorization.
type Operation string

const (
	OpCreate Operation = "create"
	OpList   Operation = "list"
	OpFetch  Operation = "fetch"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// requiresOwnership reports whether op acts on an existing project owned by
// the actor.
func (op Operation) requiresOwnership() bool {
	switch op {
	case OpFetch, OpUpdate, OpDelete:
		return true
	}
	return false
}

// UserFinder is the part of the credential store the gate reads.
type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Gate enforces strict single-owner access to projects. It holds no state of
// its own.
type Gate struct {
	users UserFinder
}

func NewGate(users UserFinder) *Gate {
	return &Gate{users: users}
}

// Authorize returns nil when actorID may perform op on project. Project is
// ignored for OpCreate and OpList; for the other operations a nil project
// means it was not found.
//
// Errors, in order of precedence: common.ErrActorNotFound when the actor does
// not exist, common.ErrorNotFound for a missing project, common.ErrNotOwner
// when the project belongs to someone else.
func (g *Gate) Authorize(ctx context.Context, actorID string, op Operation, project *models.Project) error {
	if err := g.RequireActor(ctx, actorID); err != nil {
		return err
	}
	return CheckOwner(actorID, op, project)
}

// RequireActor returns common.ErrActorNotFound unless actorID is a stored user.
func (g *Gate) RequireActor(ctx context.Context, actorID string) error {
	if _, err := g.users.GetUserByID(ctx, actorID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrActorNotFound
		}
		return fmt.Errorf("lookup actor: %w", err)
	}
	return nil
}

// CheckOwner is the ownership half of Authorize for an actor already known to
// exist.
func CheckOwner(actorID string, op Operation, project *models.Project) error {
	if !op.requiresOwnership() {
		return nil
	}
	if project == nil {
		return common.ErrorNotFound
	}
	if project.CreatedBy != actorID {
		return common.ErrNotOwner
	}
	return nil
}
