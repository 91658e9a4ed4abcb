package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/codeide/internal/common"
	"github.com/dmitrijs2005/codeide/internal/dbx"
	"github.com/dmitrijs2005/codeide/internal/logging"
	"github.com/dmitrijs2005/codeide/internal/server/authz"
	"github.com/dmitrijs2005/codeide/internal/server/models"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ProjectService runs project operations on behalf of an authenticated actor.
// Every operation is checked by authz.Gate; mutations are additionally
// conditioned on ownership in the store.
//
// Errors returned by all methods: common.ErrActorNotFound, common.ErrorInternal.
// Fetch, update and delete also return common.ErrorNotFound and
// common.ErrNotOwner.
type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         clock
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ProjectService {
	return &ProjectService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "projects"),
		now:         timeNow,
	}
}

func (s *ProjectService) gate(db dbx.DBTX) *authz.Gate {
	return authz.NewGate(s.repomanager.Users(db))
}

// passthrough reports whether err is a domain outcome callers should see.
func passthrough(err error) bool {
	return errors.Is(err, common.ErrActorNotFound) ||
		errors.Is(err, common.ErrorNotFound) ||
		errors.Is(err, common.ErrNotOwner)
}

func (s *ProjectService) fail(ctx context.Context, msg string, err error) error {
	if passthrough(err) {
		return err
	}
	return internalError(ctx, s.logger, msg, err)
}

// Create stores an empty project titled title and owned by actorID. The owner
// check and the insert share one transaction.
func (s *ProjectService) Create(ctx context.Context, actorID, title string) (*models.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("Title is required")
	}

	now := s.now().UTC()
	project := &models.Project{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedBy: actorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.gate(tx).Authorize(ctx, actorID, authz.OpCreate, nil); err != nil {
			return err
		}
		_, err := s.repomanager.Projects(tx).Create(ctx, project)
		if errors.Is(err, common.ErrOwnerNotFound) {
			return common.ErrActorNotFound
		}
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "create project", err)
	}

	s.logger.Info(ctx, "Project created", "project_id", project.ID, "user_id", actorID)
	return project, nil
}

// List returns the actor's projects in creation order.
func (s *ProjectService) List(ctx context.Context, actorID string) ([]*models.Project, error) {
	if err := s.gate(s.db).Authorize(ctx, actorID, authz.OpList, nil); err != nil {
		return nil, s.fail(ctx, "authorize list", err)
	}

	list, err := s.repomanager.Projects(s.db).ListByOwner(ctx, actorID)
	if err != nil {
		if errors.Is(err, common.ErrOwnerNotFound) {
			return nil, common.ErrActorNotFound
		}
		return nil, s.fail(ctx, "list projects", err)
	}
	return list, nil
}

// Get returns a project owned by the actor.
func (s *ProjectService) Get(ctx context.Context, actorID, projectID string) (*models.Project, error) {
	return s.authorized(ctx, actorID, projectID, authz.OpFetch)
}

// Update replaces the supplied source fields of a project owned by the actor
// and returns the stored result. An empty patch writes nothing and leaves
// UpdatedAt as it was.
func (s *ProjectService) Update(ctx context.Context, actorID, projectID string, patch models.ProjectPatch) (*models.Project, error) {
	current, err := s.authorized(ctx, actorID, projectID, authz.OpUpdate)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	project, err := s.repomanager.Projects(s.db).Update(ctx, projectID, actorID, patch, s.now().UTC())
	if err != nil {
		return nil, s.fail(ctx, "update project", err)
	}

	s.logger.Info(ctx, "Project updated", "project_id", projectID, "user_id", actorID)
	return project, nil
}

// Delete removes a project owned by the actor and returns it. Of two
// concurrent deletes only one succeeds; the other gets common.ErrorNotFound.
func (s *ProjectService) Delete(ctx context.Context, actorID, projectID string) (*models.Project, error) {
	if _, err := s.authorized(ctx, actorID, projectID, authz.OpDelete); err != nil {
		return nil, err
	}

	project, err := s.repomanager.Projects(s.db).Delete(ctx, projectID, actorID)
	if err != nil {
		return nil, s.fail(ctx, "delete project", err)
	}

	s.logger.Info(ctx, "Project deleted", "project_id", projectID, "user_id", actorID)
	return project, nil
}

// authorized checks the actor, then loads the project and checks ownership
// for op. An unknown actor is reported before any project lookup failure.
func (s *ProjectService) authorized(ctx context.Context, actorID, projectID string, op authz.Operation) (*models.Project, error) {
	if err := s.gate(s.db).RequireActor(ctx, actorID); err != nil {
		return nil, s.fail(ctx, "authorize "+string(op), err)
	}

	project, err := s.repomanager.Projects(s.db).GetByID(ctx, projectID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, internalError(ctx, s.logger, "get project", err)
		}
		project = nil
	}

	if err := authz.CheckOwner(actorID, op, project); err != nil {
		if errors.Is(err, common.ErrNotOwner) {
			s.logger.Warn(ctx, "Access denied", "project_id", projectID, "user_id", actorID, "op", string(op))
		}
		return nil, err
	}
	return project, nil
}
