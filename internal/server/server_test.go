package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	analyticsdomain "github.com/convodash/convodash/internal/analytics/domain"
	authdomain "github.com/convodash/convodash/internal/auth/domain"
	"github.com/convodash/convodash/internal/auth/session"
	"github.com/convodash/convodash/internal/clock"
	"github.com/convodash/convodash/internal/config"
	"github.com/convodash/convodash/internal/ratelimit"
)

const testBearer = "valid-token"

type fakeAuthService struct {
	provisionErr error
	loginErr     error
	tenant       *authdomain.Tenant
}

func (f *fakeAuthService) Provision(ctx context.Context, req authdomain.ProvisionRequest) (*authdomain.Tenant, error) {
	_ = ctx
	if f.provisionErr != nil {
		return nil, f.provisionErr
	}
	return &authdomain.Tenant{ID: snowflake.ID(200), Email: req.Email, Name: req.Name, AgentID: req.AgentID}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	_ = ctx
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &authdomain.LoginResult{
		Tenant:    authdomain.TenantSummary{ID: snowflake.ID(100), Email: req.Email},
		RawToken:  "issued-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, rawToken string) error {
	_ = ctx
	if rawToken == "" {
		return authdomain.ErrInvalidSession
	}
	return nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, rawToken string) (*authdomain.Tenant, error) {
	_ = ctx
	if rawToken != testBearer {
		return nil, authdomain.ErrInvalidToken
	}
	if f.tenant != nil {
		return f.tenant, nil
	}
	return &authdomain.Tenant{ID: snowflake.ID(100), Email: "alice@example.com", IsActive: true}, nil
}

func (f *fakeAuthService) AuthenticateSession(ctx context.Context, rawToken string) (*authdomain.Session, *authdomain.Tenant, error) {
	_ = ctx
	_ = rawToken
	return nil, nil, authdomain.ErrInvalidSession
}

type noopAudit struct{}

func (noopAudit) Record(ctx context.Context, tenantID *snowflake.ID, eventType, description string, metadata map[string]any) {
	_ = ctx
	_ = tenantID
	_ = eventType
	_ = description
	_ = metadata
}

type fakeAnalyticsService struct {
	lastLimit int
	sales     []analyticsdomain.SaleRecord
	products  []analyticsdomain.ProductSales
}

func (f *fakeAnalyticsService) DashboardMetrics(ctx context.Context, tenantID snowflake.ID, window *analyticsdomain.DateWindow) (*analyticsdomain.DashboardMetrics, error) {
	_ = ctx
	_ = tenantID
	_ = window
	return &analyticsdomain.DashboardMetrics{TotalConversations: 5}, nil
}

func (f *fakeAnalyticsService) TopProducts(ctx context.Context, tenantID snowflake.ID, limit int) ([]analyticsdomain.ProductSales, error) {
	_ = ctx
	_ = tenantID
	f.lastLimit = limit
	return f.products, nil
}

func (f *fakeAnalyticsService) TopObjections(ctx context.Context, tenantID snowflake.ID, limit int) ([]analyticsdomain.ObjectionSummary, error) {
	_ = ctx
	_ = tenantID
	f.lastLimit = limit
	return nil, nil
}

func (f *fakeAnalyticsService) TopContactReasons(ctx context.Context, tenantID snowflake.ID, limit int) ([]analyticsdomain.ContactReasonSummary, error) {
	_ = ctx
	_ = tenantID
	f.lastLimit = limit
	return nil, nil
}

func (f *fakeAnalyticsService) SalesOverTime(ctx context.Context, tenantID snowflake.ID, period analyticsdomain.Period) ([]analyticsdomain.SalesPoint, error) {
	_ = ctx
	_ = tenantID
	_ = period
	return nil, nil
}

func (f *fakeAnalyticsService) ConversationsOverTime(ctx context.Context, tenantID snowflake.ID, period analyticsdomain.Period) ([]analyticsdomain.ConversationPoint, error) {
	_ = ctx
	_ = tenantID
	_ = period
	return nil, nil
}

func (f *fakeAnalyticsService) SalesReport(ctx context.Context, tenantID snowflake.ID, window *analyticsdomain.DateWindow) ([]analyticsdomain.SaleRecord, error) {
	_ = ctx
	_ = tenantID
	_ = window
	return f.sales, nil
}

func (f *fakeAnalyticsService) ConversationsReport(ctx context.Context, tenantID snowflake.ID, window *analyticsdomain.DateWindow) ([]analyticsdomain.ConversationRecord, error) {
	_ = ctx
	_ = tenantID
	_ = window
	return nil, nil
}

func newTestServer(t *testing.T, authsvc authdomain.Service, analyticsSvc analyticsdomain.Service) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	fakeClock := clock.NewFakeClock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	cfg := config.Config{HTTPAddr: ":0"}

	srv := &Server{
		engine:       engine,
		cfg:          cfg,
		log:          zap.NewNop(),
		authsvc:      authsvc,
		analyticsSvc: analyticsSvc,
		auditSvc:     noopAudit{},
		sessions:     session.NewManager(cfg),
		clock:        fakeClock,
		loginLimiter: ratelimit.NewFixedWindow(100, time.Minute, fakeClock),
		apiLimiter:   ratelimit.NewFixedWindow(100, time.Minute, fakeClock),
	}
	srv.registerAuthRoutes()
	srv.registerDashboardRoutes()
	srv.registerExportRoutes()
	return srv
}

func doRequest(srv *Server, method, path, bearer string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)
	return rec
}

func TestDashboardRequiresBearer(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakeAnalyticsService{})

	rec := doRequest(srv, http.MethodGet, "/api/dashboard/metrics", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestDashboardRejectsBadToken(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakeAnalyticsService{})

	rec := doRequest(srv, http.MethodGet, "/api/dashboard/metrics", "garbage", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestDashboardMetricsEnvelope(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakeAnalyticsService{})

	rec := doRequest(srv, http.MethodGet, "/api/dashboard/metrics", testBearer, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			TotalConversations int64 `json:"total_conversations"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Success {
		t.Fatal("expected success envelope")
	}
	if payload.Data.TotalConversations != 5 {
		t.Fatalf("unexpected data: %+v", payload.Data)
	}
}

func TestSalesOverTimeBadPeriod(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakeAnalyticsService{})

	rec := doRequest(srv, http.MethodGet, "/api/dashboard/sales-over-time?period=yesterday", testBearer, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDashboardMetricsBadDate(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakeAnalyticsService{})

	rec := doRequest(srv, http.MethodGet, "/api/dashboard/metrics?startDate=15-06-2024", testBearer, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTopProductsLimitHandling(t *testing.T) {
	analytics := &fakeAnalyticsService{}
	srv := newTestServer(t, &fakeAuthService{}, analytics)

	// Malformed limit falls back to the default.
	doRequest(srv, http.MethodGet, "/api/dashboard/top-products?limit=abc", testBearer, nil)
	if analytics.lastLimit != analyticsdomain.DefaultLimit {
		t.Fatalf("expected default limit, got %d", analytics.lastLimit)
	}

	// Oversized limit is clamped.
	doRequest(srv, http.MethodGet, "/api/dashboard/top-products?limit=5000", testBearer, nil)
	if analytics.lastLimit != analyticsdomain.MaxLimit {
		t.Fatalf("expected clamped limit, got %d", analytics.lastLimit)
	}
}

func TestLoginSuccessShape(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakeAnalyticsService{})

	body := []byte(`{"email":"alice@example.com","password":"secret123"}`)
	rec := doRequest(srv, http.MethodPost, "/api/login", "", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Success bool            `json:"success"`
		Token   string          `json:"token"`
		User    json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Success || payload.Token != "issued-token" || len(payload.User) == 0 {
		t.Fatalf("unexpected login payload: %s", rec.Body.String())
	}
}

func TestLoginInvalidPayload(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakeAnalyticsService{})

	rec := doRequest(srv, http.MethodPost, "/api/login", "", []byte(`{not json`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{loginErr: authdomain.ErrInvalidCredentials}, &fakeAnalyticsService{})

	body := []byte(`{"email":"alice@example.com","password":"nope"}`)
	rec := doRequest(srv, http.MethodPost, "/api/login", "", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{loginErr: authdomain.ErrInvalidCredentials}, &fakeAnalyticsService{})
	srv.loginLimiter = ratelimit.NewFixedWindow(1, time.Minute, clock.NewFakeClock(time.Now()))

	body := []byte(`{"email":"alice@example.com","password":"nope"}`)
	first := doRequest(srv, http.MethodPost, "/api/login", "", body)
	if first.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", first.Code)
	}
	second := doRequest(srv, http.MethodPost, "/api/login", "", body)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
}

func TestCreateUserValidation(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakeAnalyticsService{})

	body := []byte(`{"email":"not-an-email","password":"secret123","name":"A","agent_id":"x"}`)
	rec := doRequest(srv, http.MethodPost, "/api/admin/create-user", "", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	body = []byte(`{"email":"a@example.com","password":"abc","name":"A","agent_id":"x"}`)
	rec = doRequest(srv, http.MethodPost, "/api/admin/create-user", "", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{provisionErr: authdomain.ErrTenantExists}, &fakeAnalyticsService{})

	body := []byte(`{"email":"a@example.com","password":"secret123","name":"A","agent_id":"x"}`)
	rec := doRequest(srv, http.MethodPost, "/api/admin/create-user", "", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestVerifyReturnsTenantSummary(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakeAnalyticsService{})

	rec := doRequest(srv, http.MethodGet, "/api/verify", testBearer, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Data.Email != "alice@example.com" {
		t.Fatalf("unexpected summary: %s", rec.Body.String())
	}
}

func TestExportEmptyResult(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakeAnalyticsService{})

	rec := doRequest(srv, http.MethodGet, "/api/export/sales", testBearer, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestExportUnknownType(t *testing.T) {
	srv := newTestServer(t, &fakeAuthService{}, &fakeAnalyticsService{})

	rec := doRequest(srv, http.MethodGet, "/api/export/invoices", testBearer, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExportSalesCSV(t *testing.T) {
	analytics := &fakeAnalyticsService{
		sales: []analyticsdomain.SaleRecord{
			{Date: "2024-06-01", ProductName: "Course", Quantity: 1, UnitPrice: 497, TotalAmount: 497, Status: "confirmed", PaymentMethod: "pix"},
		},
	}
	srv := newTestServer(t, &fakeAuthService{}, analytics)

	rec := doRequest(srv, http.MethodGet, "/api/export/sales", testBearer, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="sales_export.csv"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"Course"`)) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
