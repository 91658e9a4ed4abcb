// Package auth holds the credential primitives: the bcrypt password hasher
// and the HS256 session token service.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/codeide/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity assertions carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenService issues and validates signed, time-bounded session tokens.
// There is no revocation list: a token stays valid until it expires.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenService copies secret; later changes to the caller's value do not
// affect issued or validated tokens.
func NewTokenService(secret string, validity time.Duration) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		validity: validity,
		now:      time.Now,
	}
}

// WithClock replaces the time source, used for issuance and expiry checks.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs a token for userID/email expiring after the configured validity.
func (s *TokenService) Issue(userID, email string) (string, error) {
	issuedAt := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.validity)),
		},
		UserID: userID,
		Email:  email,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, algorithm and expiry and returns the claims.
// Expired tokens yield common.ErrTokenExpired, anything else
// common.ErrInvalidToken.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
