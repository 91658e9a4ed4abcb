package projects

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/codeide/internal/common"
	"github.com/dmitrijs2005/codeide/internal/dbx"
	"github.com/dmitrijs2005/codeide/internal/server/models"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/sqlerr"
)

const sqliteColumns = `id, title, created_by, html_code, css_code, js_code, created_at, updated_at`

// SQLiteRepository implements Repository for SQLite. Timestamps are stored as
// unix milliseconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	query := `INSERT INTO projects (id, title, created_by, html_code, css_code, js_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.CreatedBy, p.HTMLCode, p.CSSCode, p.JSCode,
		p.CreatedAt.UnixMilli(), p.UpdatedAt.UnixMilli())
	if err != nil {
		if sqlerr.IsForeignKeyViolation(err) {
			return nil, common.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Project, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, ownerID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check owner: %w", err)
	}
	if !exists {
		return nil, common.ErrOwnerNotFound
	}

	query := `SELECT ` + sqliteColumns + ` FROM projects WHERE created_by = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanSQLite(rows)
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

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + sqliteColumns + ` FROM projects WHERE id = ?`
	return oneOrNotFound(scanSQLite(r.db.QueryRowContext(ctx, query, id)))
}

func (r *SQLiteRepository) Update(ctx context.Context, id, ownerID string, patch models.ProjectPatch, updatedAt time.Time) (*models.Project, error) {
	query := `UPDATE projects SET
			html_code = COALESCE(?, html_code),
			css_code = COALESCE(?, css_code),
			js_code = COALESCE(?, js_code),
			updated_at = ?
		WHERE id = ? AND created_by = ?
		RETURNING ` + sqliteColumns
	row := r.db.QueryRowContext(ctx, query,
		patch.HTMLCode, patch.CSSCode, patch.JSCode, updatedAt.UnixMilli(), id, ownerID)
	return oneOrNotFound(scanSQLite(row))
}

func (r *SQLiteRepository) Delete(ctx context.Context, id, ownerID string) (*models.Project, error) {
	query := `DELETE FROM projects WHERE id = ? AND created_by = ? RETURNING ` + sqliteColumns
	return oneOrNotFound(scanSQLite(r.db.QueryRowContext(ctx, query, id, ownerID)))
}

func scanSQLite(row rowScanner) (*models.Project, error) {
	var (
		p                    models.Project
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.Title, &p.CreatedBy, &p.HTMLCode, &p.CSSCode, &p.JSCode,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &p, nil
}
