package users

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

// SQLiteRepository implements Repository for SQLite. Timestamps are stored as
// unix milliseconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (id, username, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	user.Email = NormalizeEmail(user.Email)

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Name, user.Email, user.PasswordHash, user.CreatedAt.UnixMilli())
	if err != nil {
		if sqlerr.IsUniqueViolation(err, emailKey) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, username, name, email, password_hash, created_at FROM users WHERE email = ?`
	return r.getOne(ctx, query, NormalizeEmail(email))
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, username, name, email, password_hash, created_at FROM users WHERE id = ?`
	return r.getOne(ctx, query, id)
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		user      models.User
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Name, &user.Email, &user.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	user.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &user, nil
}
