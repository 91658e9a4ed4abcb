package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/codeide/internal/common"
	"github.com/dmitrijs2005/codeide/internal/logging"
	"github.com/dmitrijs2005/codeide/internal/server/auth"
	"github.com/dmitrijs2005/codeide/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/codeide/internal/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)

	u, err := f.users.Register(context.Background(), RegisterInput{
		Username: "ana", Name: "Ana", Email: "Ana@Mail.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ana@mail.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"no username", RegisterInput{Name: "A", Email: "a@x.com", Password: "p"}, "All fields are required"},
		{"no name", RegisterInput{Username: "a", Email: "a@x.com", Password: "p"}, "All fields are required"},
		{"blank email", RegisterInput{Username: "a", Name: "A", Email: "  ", Password: "p"}, "All fields are required"},
		{"no password", RegisterInput{Username: "a", Name: "A", Email: "a@x.com"}, "All fields are required"},
		{"password too long", RegisterInput{Username: "a", Name: "A", Email: "a@x.com", Password: strings.Repeat("x", 73)}, "Password is too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Register(context.Background(), tt.in)
			require.ErrorIs(t, err, common.ErrorValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.msg, verr.Message)
		})
	}
}

func TestRegister_DuplicateEmailAnyCase(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ana", "a@x.com")

	_, err := f.users.Register(context.Background(), RegisterInput{
		Username: "other", Name: "Other", Email: "A@X.com", Password: "secret2",
	})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ana", "ana@mail.com")

	s, err := f.users.Authenticate(context.Background(), "ANA@mail.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, s.User.ID)
	assert.Equal(t, "ana", s.User.Username)

	claims, err := f.tokens.Validate(s.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "ana@mail.com", claims.Email)
}

func TestAuthenticate_FailuresLookAlike(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ana", "ana@mail.com")

	_, errUnknown := f.users.Authenticate(context.Background(), "ghost@mail.com", "secret1")
	_, errWrong := f.users.Authenticate(context.Background(), "ana@mail.com", "wrong")

	assert.ErrorIs(t, errUnknown, common.ErrorUnauthorized)
	assert.ErrorIs(t, errWrong, common.ErrorUnauthorized)
	assert.Equal(t, errUnknown, errWrong)
}

type countingHasher struct {
	PasswordHasher
	hashes   int
	verified []string
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.hashes++
	return h.PasswordHasher.Hash(password)
}

func (h *countingHasher) Verify(password, hash string) bool {
	h.verified = append(h.verified, hash)
	return h.PasswordHasher.Verify(password, hash)
}

func TestAuthenticate_UnknownEmailStillComparesHash(t *testing.T) {
	f := newFixture(t)
	hasher := &countingHasher{PasswordHasher: auth.NewBcryptHasher(bcrypt.MinCost)}
	f.users.hasher = hasher
	ana := f.register(t, "ana", "ana@mail.com")
	require.Equal(t, 1, hasher.hashes)

	_, err := f.users.Authenticate(context.Background(), "ghost@mail.com", "secret1")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	require.Len(t, hasher.verified, 1)
	assert.NotEmpty(t, hasher.verified[0])
	assert.NotEqual(t, ana.PasswordHash, hasher.verified[0])

	_, err = f.users.Authenticate(context.Background(), "ana@mail.com", "wrong")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	require.Len(t, hasher.verified, 2)
	assert.Equal(t, ana.PasswordHash, hasher.verified[1])

	_, err = f.users.Authenticate(context.Background(), "other@mail.com", "secret1")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	require.Len(t, hasher.verified, 3)
	assert.Equal(t, hasher.verified[0], hasher.verified[2])
	assert.Equal(t, 2, hasher.hashes)
}

func TestAuthenticate_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Authenticate(context.Background(), "", "pw")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = f.users.Authenticate(context.Background(), "a@x.com", "")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestGetDetail(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ana", "ana@mail.com")

	got, err := f.users.GetDetail(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = f.users.GetDetail(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrActorNotFound)
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("no entropy") }
func (failingHasher) Verify(string, string) bool  { return false }

type failingIssuer struct{}

func (failingIssuer) Issue(string, string) (string, error) { return "", errors.New("no key") }

func TestUserService_HidesInternalFailures(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	m := repomanager.NewSQLiteRepositoryManager()

	s := NewUserService(db, m, failingHasher{}, failingIssuer{}, logging.NewDiscard())
	_, err := s.Register(context.Background(), RegisterInput{Username: "a", Name: "A", Email: "a@x.com", Password: "p"})
	assert.Equal(t, common.ErrorInternal, err)

	f := newFixture(t)
	f.register(t, "ana", "ana@mail.com")
	f.users.tokens = failingIssuer{}
	_, err = f.users.Authenticate(context.Background(), "ana@mail.com", "secret1")
	assert.Equal(t, common.ErrorInternal, err)
}
