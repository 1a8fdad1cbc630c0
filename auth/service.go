package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pkgz/auth/v2/token"
	"github.com/golang-jwt/jwt/v5"

	"github.com/krishkalaria12/spot-serve/models"
)

const (
	// CookieName is the session cookie carrying the signed token.
	CookieName = "token"
	Issuer     = "spot-serve"
	// DefaultTokenDuration is how long a session token stays valid.
	DefaultTokenDuration = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid session token")

// TokenService issues and verifies HS256 session tokens carrying a user id.
type TokenService struct {
	tokens   *token.Service
	duration time.Duration
}

func NewTokenService(secret string, duration time.Duration) *TokenService {
	if duration <= 0 {
		duration = DefaultTokenDuration
	}
	tokens := token.NewService(token.Opts{
		SecretReader: token.SecretFunc(func(string) (string, error) {
			return secret, nil
		}),
		TokenDuration:  duration,
		CookieDuration: duration,
		Issuer:         Issuer,
		DisableXSRF:    true,
	})
	return &TokenService{tokens: tokens, duration: duration}
}

// Duration is the lifetime of issued tokens, used for the cookie max-age.
func (s *TokenService) Duration() time.Duration {
	return s.duration
}

func (s *TokenService) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := token.Claims{
		User: &token.User{
			ID:    strconv.FormatUint(uint64(user.ID), 10),
			Name:  user.Username,
			Email: user.Email,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Audience:  jwt.ClaimStrings{Issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
		},
	}

	signed, err := s.tokens.Token(claims)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the id of the user it was issued to.
func (s *TokenService) Parse(signed string) (uint, error) {
	claims, err := s.tokens.Parse(signed)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.User == nil {
		return 0, fmt.Errorf("%w: no user claim", ErrInvalidToken)
	}
	id, err := strconv.ParseUint(claims.User.ID, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad user id %q", ErrInvalidToken, claims.User.ID)
	}
	return uint(id), nil
}
