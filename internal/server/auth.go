package server

import (
	"net/http"
	"net/mail"
	"strings"

	authdomain "github.com/convodash/convodash/internal/auth/domain"
	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	AgentID     string `json:"agent_id"`
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   result.RawToken,
		"user":    result.Tenant,
	})
}

func (s *Server) Logout(c *gin.Context) {
	rawToken := bearerToken(c)
	if rawToken == "" {
		rawToken, _ = s.sessions.ReadToken(c)
	}

	if err := s.authsvc.Logout(c.Request.Context(), rawToken); err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Clear(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "logged out",
	})
}

func (s *Server) Verify(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tenant.Summary(),
	})
}

func (s *Server) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := validateCreateUser(req); err != nil {
		AbortWithError(c, err)
		return
	}

	tenant, err := s.authsvc.Provision(c.Request.Context(), authdomain.ProvisionRequest{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		AgentID:     req.AgentID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    tenant.Summary(),
	})
}

func validateCreateUser(req CreateUserRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return newValidationError("email", "required", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return newValidationError("email", "invalid_email", "invalid email address")
	}
	if len(strings.TrimSpace(req.Password)) < 6 {
		return newValidationError("password", "too_short", "password must be at least 6 characters")
	}
	if strings.TrimSpace(req.Name) == "" {
		return newValidationError("name", "required", "name is required")
	}
	if strings.TrimSpace(req.AgentID) == "" {
		return newValidationError("agent_id", "required", "agent_id is required")
	}
	return nil
}
