package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/convodash/convodash/internal/audit/domain"
	"github.com/convodash/convodash/internal/auth/domain"
	"github.com/convodash/convodash/internal/auth/repository"
	"github.com/convodash/convodash/internal/auth/token"
	"github.com/convodash/convodash/internal/clock"
)

type auditRecorder struct {
	events []string
}

func (a *auditRecorder) Record(ctx context.Context, tenantID *snowflake.ID, eventType, description string, metadata map[string]any) {
	_ = ctx
	_ = tenantID
	_ = description
	_ = metadata
	a.events = append(a.events, eventType)
}

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock, *auditRecorder) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbConn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := dbConn.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := dbConn.AutoMigrate(&domain.Tenant{}, &domain.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo, sessionRepo := repository.New(dbConn)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	signer, err := token.NewSigner("unit-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}

	fakeClock := clock.NewFakeClock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	audit := &auditRecorder{}

	svc := NewService(Params{
		Log:         zap.NewNop(),
		Repo:        repo,
		SessionRepo: sessionRepo,
		Signer:      signer,
		Audit:       audit,
		Clock:       fakeClock,
		GenID:       node,
	})
	return svc, fakeClock, audit
}

var _ auditdomain.Service = (*auditRecorder)(nil)

func provisionTenant(t *testing.T, svc domain.Service, email string) *domain.Tenant {
	t.Helper()
	tenant, err := svc.Provision(context.Background(), domain.ProvisionRequest{
		Email:    email,
		Password: "secret123",
		Name:     "Test Tenant",
		AgentID:  "agent-001",
	})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	return tenant
}

func TestProvisionDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	provisionTenant(t, svc, "alice@example.com")
	_, err := svc.Provision(context.Background(), domain.ProvisionRequest{
		Email:    "Alice@Example.com",
		Password: "secret123",
		Name:     "Second",
		AgentID:  "agent-002",
	})
	if err != domain.ErrTenantExists {
		t.Fatalf("expected ErrTenantExists, got %v", err)
	}
}

func TestProvisionShortPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Provision(context.Background(), domain.ProvisionRequest{
		Email:    "bob@example.com",
		Password: "abc",
	})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, _, audit := newTestService(t)
	provisionTenant(t, svc, "alice@example.com")

	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:     "alice@example.com",
		Password:  "secret123",
		IPAddress: "203.0.113.7",
		UserAgent: "test-agent",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.RawToken == "" {
		t.Fatal("expected raw token")
	}

	tenant, err := svc.Authenticate(context.Background(), result.RawToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if tenant.Email != "alice@example.com" {
		t.Fatalf("unexpected email %q", tenant.Email)
	}

	found := false
	for _, event := range audit.events {
		if event == "login" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected login audit event")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, audit := newTestService(t)
	provisionTenant(t, svc, "alice@example.com")

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	found := false
	for _, event := range audit.events {
		if event == "login_failed" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected login_failed audit event")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	provisionTenant(t, svc, "alice@example.com")

	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), result.RawToken); err != nil {
		t.Fatalf("logout: %v", err)
	}

	_, _, err = svc.AuthenticateSession(context.Background(), result.RawToken)
	if err != domain.ErrSessionRevoked {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}

	// Logging out twice is not valid; the session is already revoked
	// and RevokeSession no longer matches it.
	if err := svc.Logout(context.Background(), result.RawToken); err != domain.ErrInvalidSession {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestAuthenticateSessionExpiry(t *testing.T) {
	svc, fakeClock, _ := newTestService(t)
	provisionTenant(t, svc, "alice@example.com")

	result, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, _, err := svc.AuthenticateSession(context.Background(), result.RawToken); err != nil {
		t.Fatalf("authenticate session: %v", err)
	}

	fakeClock.Advance(2 * time.Hour)

	_, _, err = svc.AuthenticateSession(context.Background(), result.RawToken)
	if err != domain.ErrSessionExpired {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestAuthenticateUnknownToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Authenticate(context.Background(), "not-a-jwt"); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, _, err := svc.AuthenticateSession(context.Background(), "unknown"); err != domain.ErrInvalidSession {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
