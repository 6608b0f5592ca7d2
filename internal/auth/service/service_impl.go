package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	auditdomain "github.com/convodash/convodash/internal/audit/domain"
	"github.com/convodash/convodash/internal/auth/domain"
	"github.com/convodash/convodash/internal/auth/password"
	"github.com/convodash/convodash/internal/auth/token"
	"github.com/convodash/convodash/internal/clock"
	"github.com/convodash/convodash/pkg/db"
)

const minPasswordLength = 6

type Params struct {
	fx.In

	Log         *zap.Logger
	Repo        domain.Repository
	SessionRepo domain.SessionRepository
	Signer      *token.Signer
	Audit       auditdomain.Service
	Clock       clock.Clock
	GenID       *snowflake.Node
}

type Service struct {
	log         *zap.Logger
	repo        domain.Repository
	sessionRepo domain.SessionRepository
	signer      *token.Signer
	audit       auditdomain.Service
	clock       clock.Clock
	genID       *snowflake.Node
}

func NewService(p Params) domain.Service {
	return &Service{
		log:         p.Log.Named("auth.service"),
		repo:        p.Repo,
		sessionRepo: p.SessionRepo,
		signer:      p.Signer,
		audit:       p.Audit,
		clock:       p.Clock,
		genID:       p.GenID,
	}
}

func defaultSettings() datatypes.JSONMap {
	return datatypes.JSONMap{
		"theme":         "light",
		"notifications": true,
	}
}

func (s *Service) Provision(ctx context.Context, req domain.ProvisionRequest) (*domain.Tenant, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrInvalidCredentials
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultDisplayName(email)
	}
	tenant := &domain.Tenant{
		ID:           s.genID.Generate(),
		Email:        email,
		PasswordHash: hashed,
		Name:         name,
		CompanyName:  strings.TrimSpace(req.CompanyName),
		AgentID:      strings.TrimSpace(req.AgentID),
		Settings:     defaultSettings(),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, tenant); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrTenantExists
		}
		return nil, err
	}

	s.audit.Record(ctx, &tenant.ID, "tenant_provisioned", "tenant account created", map[string]any{
		"email": tenant.Email,
	})
	s.log.Info("tenant provisioned", zap.String("tenant_id", tenant.ID.String()))

	return tenant, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	tenant, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			s.recordLoginFailed(ctx, email, req)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !tenant.IsActive || !password.Verify(req.Password, tenant.PasswordHash) {
		s.recordLoginFailed(ctx, email, req)
		return nil, domain.ErrInvalidCredentials
	}

	now := s.clock.Now()
	sessionID := s.genID.Generate()
	rawToken, expiresAt, err := s.signer.Issue(tenant.ID, tenant.Email, sessionID, now)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        sessionID,
		TenantID:  tenant.ID,
		TokenHash: HashToken(rawToken),
		IPAddress: strings.TrimSpace(req.IPAddress),
		UserAgent: strings.TrimSpace(req.UserAgent),
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, tenant.ID, map[string]any{
		"last_login_at": now,
		"updated_at":    now,
	}); err != nil {
		s.log.Warn("update last login failed", zap.Error(err))
	}

	s.audit.Record(ctx, &tenant.ID, "login", "tenant logged in", nil)

	return &domain.LoginResult{
		Tenant:    tenant.Summary(),
		RawToken:  rawToken,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	raw := strings.TrimSpace(rawToken)
	if raw == "" {
		return domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, HashToken(raw))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrInvalidSession
		}
		return err
	}

	now := s.clock.Now()
	if err := s.sessionRepo.RevokeSession(ctx, session.ID, now); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrInvalidSession
		}
		return err
	}

	s.audit.Record(ctx, &session.TenantID, "logout", "tenant logged out", nil)
	return nil
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Tenant, error) {
	raw := strings.TrimSpace(rawToken)
	if raw == "" {
		return nil, domain.ErrInvalidToken
	}

	claims, err := s.signer.Verify(raw)
	if err != nil {
		return nil, err
	}

	tenantID, err := claims.TenantIDValue()
	if err != nil {
		return nil, err
	}

	tenant, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if !tenant.IsActive {
		return nil, domain.ErrTenantInactive
	}

	return tenant, nil
}

func (s *Service) AuthenticateSession(ctx context.Context, rawToken string) (*domain.Session, *domain.Tenant, error) {
	raw := strings.TrimSpace(rawToken)
	if raw == "" {
		return nil, nil, domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, HashToken(raw))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil, domain.ErrInvalidSession
		}
		return nil, nil, err
	}

	now := s.clock.Now()
	if session.RevokedAt != nil {
		return nil, nil, domain.ErrSessionRevoked
	}
	if !now.Before(session.ExpiresAt) {
		return nil, nil, domain.ErrSessionExpired
	}

	tenant, err := s.repo.FindByID(ctx, session.TenantID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return nil, nil, domain.ErrInvalidSession
		}
		return nil, nil, err
	}
	if !tenant.IsActive {
		return nil, nil, domain.ErrTenantInactive
	}

	if err := s.sessionRepo.UpdateLastSeen(ctx, session.ID, now); err != nil {
		s.log.Warn("update last seen failed", zap.Error(err))
	}

	return session, tenant, nil
}

func (s *Service) recordLoginFailed(ctx context.Context, email string, req domain.LoginRequest) {
	s.audit.Record(ctx, nil, "login_failed", "login attempt rejected", map[string]any{
		"email": email,
		"ip":    strings.TrimSpace(req.IPAddress),
	})
}

// HashToken derives the storage key for a bearer token. Only the digest is
// persisted, never the token itself.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func defaultDisplayName(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}
