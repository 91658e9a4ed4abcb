package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/codeide/internal/common"
	"github.com/dmitrijs2005/codeide/internal/logging"
	"github.com/dmitrijs2005/codeide/internal/server/auth"
	"github.com/dmitrijs2005/codeide/internal/server/models"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/users"
	"github.com/google/uuid"
)

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Username string
	Name     string
	Email    string
	Password string
}

// Session is the outcome of a successful login.
type Session struct {
	Token string
	User  *models.User
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	logger      logging.Logger
	now         clock

	decoyOnce sync.Once
	decoy     string
}

// decoyPassword is hashed once to give unknown-email logins a bcrypt
// comparison of the same cost as a wrong password.
const decoyPassword = "codeide-decoy-password"

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger.With("module", "users"),
		now:         timeNow,
	}
}

// Register creates an account. The email is stored lowercased and must not
// be taken yet.
//
// Errors: common.ErrorValidation, common.ErrDuplicateEmail, common.ErrorInternal.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Name == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, invalid("All fields are required")
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, invalid("Password is too long")
	}

	email := users.NormalizeEmail(in.Email)
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		return nil, internalError(ctx, s.logger, "lookup email", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, internalError(ctx, s.logger, "hash password", err)
	}

	user, err := repo.Create(ctx, &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Name:         in.Name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, internalError(ctx, s.logger, "create user", err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Authenticate checks credentials and issues a session token. Unknown email
// and wrong password are indistinguishable to the caller.
//
// Errors: common.ErrorValidation, common.ErrorUnauthorized, common.ErrorInternal.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, invalid("Email and password required")
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.decoyHash())
			return nil, common.ErrorUnauthorized
		}
		return nil, internalError(ctx, s.logger, "lookup user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, internalError(ctx, s.logger, "issue token", err)
	}

	s.logger.Info(ctx, "Logged in", "user_id", user.ID)
	return &Session{Token: token, User: user}, nil
}

func (s *UserService) decoyHash() string {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash(decoyPassword)
		if err != nil {
			s.logger.Error(context.Background(), "Decoy hash failed", "error", err)
			return
		}
		s.decoy = hash
	})
	return s.decoy
}

// GetDetail returns the account of an authenticated user.
//
// Errors: common.ErrActorNotFound, common.ErrorInternal.
func (s *UserService) GetDetail(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrActorNotFound
		}
		return nil, internalError(ctx, s.logger, "get user", err)
	}
	return user, nil
}
