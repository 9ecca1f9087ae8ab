package auth

import (
	"testing"
	"time"

	"Tasker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Secret:   "0123456789abcdef0123456789abcdef",
		Issuer:   "tasker-test",
		Audience: "tasker-clients",
		Expiry:   60 * time.Minute,
	}
}

func testUser() domain.User {
	return domain.User{ID: 7, Username: "alice", Role: domain.RoleUser, IsActive: true}
}

func TestIssueAndValidate(t *testing.T) {
	tm := NewTokenManager(testConfig())

	token, exp, err := tm.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, "tasker-test", claims.Issuer)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestIssueRejectsEmptyUsername(t *testing.T) {
	tm := NewTokenManager(testConfig())
	_, _, err := tm.Issue(domain.User{ID: 1})
	assert.ErrorIs(t, err, ErrInvalidUser)
}

func TestTokensForDifferentUsersDiffer(t *testing.T) {
	tm := NewTokenManager(testConfig())

	a, _, err := tm.Issue(domain.User{ID: 1, Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)
	b, _, err := tm.Issue(domain.User{ID: 2, Username: "bob", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestExpiryWithinTolerance(t *testing.T) {
	cfg := testConfig()
	tm := NewTokenManager(cfg)

	before := time.Now()
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)
	after := time.Now()

	claims, err := tm.Validate(token)
	require.NoError(t, err)

	exp := claims.ExpiresAt.Time
	assert.False(t, exp.Before(before.Add(cfg.Expiry-time.Minute)), "expiry too early: %v", exp)
	assert.False(t, exp.After(after.Add(cfg.Expiry+time.Minute)), "expiry too late: %v", exp)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager(testConfig())
	tm.SetClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	// Validation uses the real clock; the token expired an hour ago.
	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	tm := NewTokenManager(testConfig())
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	other := testConfig()
	other.Secret = "ffffffffffffffffffffffffffffffff"
	_, err = NewTokenManager(other).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongIssuerOrAudience(t *testing.T) {
	tm := NewTokenManager(testConfig())
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	wrongIssuer := testConfig()
	wrongIssuer.Issuer = "someone-else"
	_, err = NewTokenManager(wrongIssuer).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAudience := testConfig()
	wrongAudience.Audience = "other-clients"
	_, err = NewTokenManager(wrongAudience).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClockSkewTolerance(t *testing.T) {
	cfg := testConfig()
	cfg.ClockSkew = 5 * time.Minute
	tm := NewTokenManager(cfg)
	tm.SetClock(func() time.Time { return time.Now().Add(-cfg.Expiry - 2*time.Minute) })

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	// Expired two minutes ago, inside the five-minute leeway.
	_, err = tm.Validate(token)
	assert.NoError(t, err)
}
