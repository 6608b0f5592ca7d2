package token

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convodash/convodash/internal/auth/domain"
)

const testSecret = "test-secret-not-for-production"

func newTestSigner(t *testing.T, ttl time.Duration) *Signer {
	t.Helper()
	signer, err := NewSigner(testSecret, ttl)
	require.NoError(t, err)
	return signer
}

func TestNewSignerRequiresSecret(t *testing.T) {
	_, err := NewSigner("", time.Hour)
	assert.Error(t, err)
	_, err = NewSigner("   ", time.Hour)
	assert.Error(t, err)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	signer := newTestSigner(t, time.Hour)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	tenantID := snowflake.ID(12345)
	sessionID := snowflake.ID(67890)

	raw, expiresAt, err := signer.Issue(tenantID, "alice@example.com", sessionID, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	claims, err := signer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)

	gotTenant, err := claims.TenantIDValue()
	require.NoError(t, err)
	assert.Equal(t, tenantID, gotTenant)

	gotSession, ok := claims.SessionIDValue()
	require.True(t, ok)
	assert.Equal(t, sessionID, gotSession)
}

func TestVerifyExpiredToken(t *testing.T) {
	signer := newTestSigner(t, time.Minute)

	raw, _, err := signer.Issue(snowflake.ID(1), "a@example.com", snowflake.ID(2), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = signer.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestVerifyRejectsWrongAlgorithm(t *testing.T) {
	signer := newTestSigner(t, time.Hour)

	// Same secret, different HMAC variant. The verifier pins HS256.
	claims := Claims{
		Email:    "a@example.com",
		TenantID: "1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = signer.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	signer := newTestSigner(t, time.Hour)

	raw, _, err := signer.Issue(snowflake.ID(1), "a@example.com", snowflake.ID(2), time.Now())
	require.NoError(t, err)

	_, err = signer.Verify(raw + "x")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	signer := newTestSigner(t, time.Hour)
	other, err := NewSigner("some-other-secret-value", time.Hour)
	require.NoError(t, err)

	raw, _, err := other.Issue(snowflake.ID(1), "a@example.com", snowflake.ID(2), time.Now())
	require.NoError(t, err)

	_, err = signer.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
