package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/convodash/convodash/internal/analytics"
	analyticsdomain "github.com/convodash/convodash/internal/analytics/domain"
	"github.com/convodash/convodash/internal/audit"
	auditdomain "github.com/convodash/convodash/internal/audit/domain"
	"github.com/convodash/convodash/internal/auth"
	authdomain "github.com/convodash/convodash/internal/auth/domain"
	"github.com/convodash/convodash/internal/auth/session"
	"github.com/convodash/convodash/internal/clock"
	"github.com/convodash/convodash/internal/config"
	"github.com/convodash/convodash/internal/observability"
	obsmiddleware "github.com/convodash/convodash/internal/observability/logger"
	obsmetrics "github.com/convodash/convodash/internal/observability/metrics"
	obstracing "github.com/convodash/convodash/internal/observability/tracing"
	"github.com/convodash/convodash/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	audit.Module,
	auth.Module,
	analytics.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", obsmetrics.Handler())

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	log          *zap.Logger
	authsvc      authdomain.Service
	analyticsSvc analyticsdomain.Service
	auditSvc     auditdomain.Service
	sessions     *session.Manager
	genID        *snowflake.Node
	clock        clock.Clock
	loginLimiter ratelimit.LoginLimiter
	apiLimiter   ratelimit.APILimiter
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	Authsvc      authdomain.Service
	AnalyticsSvc analyticsdomain.Service
	AuditSvc     auditdomain.Service
	Sessions     *session.Manager
	GenID        *snowflake.Node
	Clock        clock.Clock
	LoginLimiter ratelimit.LoginLimiter
	APILimiter   ratelimit.APILimiter
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		log:          p.Log.Named("http.server"),
		authsvc:      p.Authsvc,
		analyticsSvc: p.AnalyticsSvc,
		auditSvc:     p.AuditSvc,
		sessions:     p.Sessions,
		genID:        p.GenID,
		clock:        p.Clock,
		loginLimiter: p.LoginLimiter,
		apiLimiter:   p.APILimiter,
	}

	svc.registerAuthRoutes()
	svc.registerDashboardRoutes()
	svc.registerExportRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	api := s.engine.Group("/api")

	api.POST("/login", s.LoginRateLimit(), s.Login)
	api.POST("/logout", s.BearerAuthRequired(), s.Logout)
	api.GET("/verify", s.BearerAuthRequired(), s.Verify)
	api.POST("/admin/create-user", s.APIRateLimit(), s.CreateUser)
}

func (s *Server) registerDashboardRoutes() {
	dashboard := s.engine.Group("/api/dashboard")
	dashboard.Use(s.APIRateLimit())
	dashboard.Use(s.BearerAuthRequired())

	dashboard.GET("/metrics", s.GetDashboardMetrics)
	dashboard.GET("/top-products", s.GetTopProducts)
	dashboard.GET("/top-objections", s.GetTopObjections)
	dashboard.GET("/contact-reasons", s.GetTopContactReasons)
	dashboard.GET("/sales-over-time", s.GetSalesOverTime)
	dashboard.GET("/conversations-over-time", s.GetConversationsOverTime)
}

func (s *Server) registerExportRoutes() {
	export := s.engine.Group("/api/export")
	export.Use(s.APIRateLimit())
	export.Use(s.BearerAuthRequired())

	export.GET("/:type", s.Export)
}
