package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/codeide/internal/common"
	"github.com/dmitrijs2005/codeide/internal/dbx"
	"github.com/dmitrijs2005/codeide/internal/server/models"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/sqlerr"
)

const pgColumns = `id, title, created_by, html_code, css_code, js_code, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	query :=
		`INSERT INTO projects (id, title, created_by, html_code, css_code, js_code, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.CreatedBy, p.HTMLCode, p.CSSCode, p.JSCode, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if sqlerr.IsForeignKeyViolation(err) {
			return nil, common.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Project, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, ownerID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if !exists {
		return nil, common.ErrOwnerNotFound
	}

	query := `SELECT ` + pgColumns + ` FROM projects
		 WHERE created_by = $1
		 ORDER BY created_at, id
		 `
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanPostgres(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + pgColumns + ` FROM projects WHERE id = $1`
	return oneOrNotFound(scanPostgres(r.db.QueryRowContext(ctx, query, id)))
}

func (r *PostgresRepository) Update(ctx context.Context, id, ownerID string, patch models.ProjectPatch, updatedAt time.Time) (*models.Project, error) {
	query :=
		`UPDATE projects SET
			html_code = COALESCE($3, html_code),
			css_code = COALESCE($4, css_code),
			js_code = COALESCE($5, js_code),
			updated_at = $6
		 WHERE id = $1 AND created_by = $2
		 RETURNING ` + pgColumns
	row := r.db.QueryRowContext(ctx, query, id, ownerID, patch.HTMLCode, patch.CSSCode, patch.JSCode, updatedAt)
	return oneOrNotFound(scanPostgres(row))
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) (*models.Project, error) {
	query := `DELETE FROM projects WHERE id = $1 AND created_by = $2 RETURNING ` + pgColumns
	return oneOrNotFound(scanPostgres(r.db.QueryRowContext(ctx, query, id, ownerID)))
}

func scanPostgres(row rowScanner) (*models.Project, error) {
	var p models.Project
	if err := row.Scan(&p.ID, &p.Title, &p.CreatedBy, &p.HTMLCode, &p.CSSCode, &p.JSCode,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func oneOrNotFound(p *models.Project, err error) (*models.Project, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
