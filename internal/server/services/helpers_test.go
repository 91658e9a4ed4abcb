package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/codeide/internal/logging"
	"github.com/dmitrijs2005/codeide/internal/server/auth"
	"github.com/dmitrijs2005/codeide/internal/server/models"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/codeide/internal/server/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

var testNow = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db       *sql.DB
	users    *UserService
	projects *ProjectService
	tokens   *auth.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	m := repomanager.NewSQLiteRepositoryManager()
	tokens := auth.NewTokenService(testSecret, 7*24*time.Hour)
	logger := logging.NewDiscard()

	us := NewUserService(db, m, auth.NewBcryptHasher(bcrypt.MinCost), tokens, logger)
	ps := NewProjectService(db, m, logger)

	var mu sync.Mutex
	tick := testNow
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}
	us.now = now
	ps.now = now

	return &fixture{db: db, users: us, projects: ps, tokens: tokens}
}

func (f *fixture) register(t *testing.T, username, email string) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{
		Username: username,
		Name:     username,
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
	return u
}
