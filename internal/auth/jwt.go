// Package auth issues and validates signed bearer tokens and gates routes
// on authentication and role.
package auth

import (
	"errors"
	"strconv"
	"time"

	"Tasker/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token fails any check other than
	// expiry.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
	// ErrInvalidUser is returned when Issue is called with an unusable user.
	// This is a programming-error guard, not a control-flow path.
	ErrInvalidUser = errors.New("user must have a username")
)

// Config holds token parameters. The secret must be at least 32 bytes; the
// same key signs and verifies.
type Config struct {
	Secret    string
	Issuer    string
	Audience  string
	Expiry    time.Duration
	ClockSkew time.Duration
}

// Claims carried by issued tokens.
type Claims struct {
	Username string `json:"name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens.
type TokenManager struct {
	cfg Config
	now func() time.Time
}

func NewTokenManager(cfg Config) *TokenManager {
	return &TokenManager{cfg: cfg, now: time.Now}
}

// SetClock overrides the time source, for tests.
func (m *TokenManager) SetClock(now func() time.Time) { m.now = now }

// Issue produces a signed token for the user with subject, name, role,
// issued-at and expiry claims. Returns the expiry alongside the token.
func (m *TokenManager) Issue(u domain.User) (string, time.Time, error) {
	if u.Username == "" {
		return "", time.Time{}, ErrInvalidUser
	}
	now := m.now()
	exp := now.Add(m.cfg.Expiry)
	claims := Claims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			Issuer:    m.cfg.Issuer,
			Audience:  jwt.ClaimStrings{m.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Validate checks signature, signing method, issuer, audience and expiry
// (with the configured clock skew) and returns the claims.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
		jwt.WithLeeway(m.cfg.ClockSkew),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
