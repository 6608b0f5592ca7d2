// Package token issues and verifies the HS256 bearer tokens used by the API.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"

	"github.com/convodash/convodash/internal/auth/domain"
)

const issuer = "convodash"

// Claims carries the tenant identity inside the signed token.
type Claims struct {
	Email     string `json:"email"`
	TenantID  string `json:"tenant_id"`
	SessionID string `json:"session_id,omitempty"`
	jwt.RegisteredClaims
}

// Signer issues and verifies bearer tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner builds a Signer; the secret must be non-empty.
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the tenant, valid from now for the configured TTL.
func (s *Signer) Issue(tenantID snowflake.ID, email string, sessionID snowflake.ID, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Email:     email,
		TenantID:  tenantID.String(),
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   tenantID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses a token and returns its claims. The signing method is
// pinned to HMAC so asymmetric-alg substitution is rejected.
func (s *Signer) Verify(raw string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// TenantIDValue parses the tenant id claim.
func (c *Claims) TenantIDValue() (snowflake.ID, error) {
	id, err := snowflake.ParseString(c.TenantID)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	return id, nil
}

// SessionIDValue parses the session id claim, if present.
func (c *Claims) SessionIDValue() (snowflake.ID, bool) {
	if strings.TrimSpace(c.SessionID) == "" {
		return 0, false
	}
	id, err := snowflake.ParseString(c.SessionID)
	if err != nil {
		return 0, false
	}
	return id, true
}
