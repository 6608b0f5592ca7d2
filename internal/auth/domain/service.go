package domain

import (
	"context"
	"time"
)

type Service interface {
	Provision(ctx context.Context, req ProvisionRequest) (*Tenant, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Tenant, error)
	AuthenticateSession(ctx context.Context, rawToken string) (*Session, *Tenant, error)
}

type ProvisionRequest struct {
	Email       string
	Password    string
	Name        string
	CompanyName string
	AgentID     string
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	Tenant    TenantSummary
	RawToken  string
	ExpiresAt time.Time
}
