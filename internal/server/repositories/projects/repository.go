// Package projects stores editor projects and scopes every mutation to the
// owning user.
package projects

import (
	"context"
	"time"

	"github.com/dmitrijs2005/codeide/internal/server/models"
)

type Repository interface {
	// Create inserts a project. It returns common.ErrOwnerNotFound when
	// CreatedBy does not reference an existing user.
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	// ListByOwner returns the owner's projects in creation order. It returns
	// common.ErrOwnerNotFound when the owner does not exist.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	// Update applies patch to the project only if ownerID owns it and returns
	// the stored result. A missing project and a foreign owner both yield
	// common.ErrorNotFound.
	Update(ctx context.Context, id, ownerID string, patch models.ProjectPatch, updatedAt time.Time) (*models.Project, error)
	// Delete removes the project only if ownerID owns it and returns the removed
	// row, or common.ErrorNotFound.
	Delete(ctx context.Context, id, ownerID string) (*models.Project, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}
