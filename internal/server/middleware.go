package server

import (
	"errors"
	"strings"

	authdomain "github.com/convodash/convodash/internal/auth/domain"
	"github.com/convodash/convodash/internal/ratelimit"
	"github.com/convodash/convodash/internal/tenantctx"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const contextTenantKey = "tenant"

// BearerAuthRequired authenticates the request from the Authorization header,
// falling back to the session cookie, and attaches the tenant to the request
// context.
func (s *Server) BearerAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken := bearerToken(c)
		if rawToken == "" {
			if cookieToken, ok := s.sessions.ReadToken(c); ok {
				rawToken = cookieToken
			}
		}
		if rawToken == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		tenant, err := s.authsvc.Authenticate(c.Request.Context(), rawToken)
		if err != nil {
			if errors.Is(err, authdomain.ErrTenantNotFound) {
				err = ErrUnauthorized
			}
			AbortWithError(c, err)
			return
		}

		c.Set(contextTenantKey, tenant)
		ctx := tenantctx.WithTenantID(c.Request.Context(), tenant.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// LoginRateLimit gates the login endpoint per client IP.
func (s *Server) LoginRateLimit() gin.HandlerFunc {
	return s.rateLimit(s.loginLimiter, "login")
}

// APIRateLimit gates authenticated API traffic per client IP.
func (s *Server) APIRateLimit() gin.HandlerFunc {
	return s.rateLimit(s.apiLimiter, "api")
}

func (s *Server) rateLimit(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// Limiter backend failures never block traffic.
			s.log.Warn("rate limiter unavailable",
				zap.String("scope", scope),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !allowed {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func tenantFromContext(c *gin.Context) (*authdomain.Tenant, bool) {
	value, ok := c.Get(contextTenantKey)
	if !ok {
		return nil, false
	}
	tenant, ok := value.(*authdomain.Tenant)
	if !ok || tenant == nil {
		return nil, false
	}
	return tenant, true
}
