package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auditdomain "github.com/revalya/revalya/internal/audit/domain"
	chargedomain "github.com/revalya/revalya/internal/charge/domain"
	"github.com/revalya/revalya/internal/config"
	customerdomain "github.com/revalya/revalya/internal/customer/domain"
	"github.com/revalya/revalya/internal/observability/metrics"
	"github.com/revalya/revalya/internal/ratelimit"
	reconciliationdomain "github.com/revalya/revalya/internal/reconciliation/domain"
	sessiondomain "github.com/revalya/revalya/internal/session/domain"
	tenantdomain "github.com/revalya/revalya/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewEngine(cfg config.Config, log *zap.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log.Named("http")))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

type Server struct {
	engine            *gin.Engine
	cfg               config.Config
	log               *zap.Logger
	db                *gorm.DB
	genID             *snowflake.Node
	tenantSvc         tenantdomain.Service
	customerSvc       customerdomain.Service
	chargeSvc         chargedomain.Service
	reconciliationSvc reconciliationdomain.Service
	sessionSvc        sessiondomain.Service
	auditSvc          auditdomain.Service
	webhookLimiter    *ratelimit.WebhookLimiter
	metrics           *metrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin               *gin.Engine
	Cfg               config.Config
	Log               *zap.Logger
	DB                *gorm.DB
	GenID             *snowflake.Node
	TenantSvc         tenantdomain.Service
	CustomerSvc       customerdomain.Service
	ChargeSvc         chargedomain.Service
	ReconciliationSvc reconciliationdomain.Service
	SessionSvc        sessiondomain.Service
	AuditSvc          auditdomain.Service
	WebhookLimiter    *ratelimit.WebhookLimiter `optional:"true"`
	Metrics           *metrics.Metrics
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:            p.Gin,
		cfg:               p.Cfg,
		log:               p.Log.Named("server"),
		db:                p.DB,
		genID:             p.GenID,
		tenantSvc:         p.TenantSvc,
		customerSvc:       p.CustomerSvc,
		chargeSvc:         p.ChargeSvc,
		reconciliationSvc: p.ReconciliationSvc,
		sessionSvc:        p.SessionSvc,
		auditSvc:          p.AuditSvc,
		webhookLimiter:    p.WebhookLimiter,
		metrics:           p.Metrics,
	}
}

// RegisterRoutes wires every HTTP surface. The webhook ingress is
// unauthenticated at the session layer; its trust comes from the HMAC
// signature check inside the handler.
func (s *Server) RegisterRoutes() {
	api := s.engine.Group("/api")

	api.POST("/webhooks/asaas/:tenant_id", s.handleAsaasWebhook)

	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)
	api.POST("/auth/logout", s.handleLogout)

	authed := api.Group("", s.AuthRequired())
	{
		authed.GET("/tenants/:tenant_id", TenantPathGuard(), s.handleGetTenant)
		authed.POST("/tenants/:tenant_id/integrations", TenantPathGuard(), RequireRole(tenantdomain.RoleAdmin), s.handleUpsertIntegration)
		authed.POST("/tenants/:tenant_id/members", TenantPathGuard(), RequireRole(tenantdomain.RoleAdmin), s.handleAddMember)

		authed.GET("/customers", s.handleListCustomers)
		authed.POST("/customers", s.handleCreateCustomer)
		authed.GET("/customers/:id", s.handleGetCustomer)

		authed.GET("/charges", s.handleListCharges)
		authed.POST("/charges", s.handleCreateCharge)
		authed.GET("/charges/:id", s.handleGetCharge)

		authed.GET("/reconciliation/staging", s.handleListStaging)
		authed.GET("/reconciliation/staging/:id", s.handleGetStaging)

		authed.GET("/audit-logs", RequireRole(tenantdomain.RoleAdmin), s.handleListAuditLogs)
	}

	admin := s.engine.Group("/admin", s.AuthRequired(), RequireRole(tenantdomain.RoleAdmin))
	{
		admin.POST("/reconciliation/sync-charges", s.handleSyncCharges)
		admin.POST("/tenants", s.handleCreateTenant)
		admin.GET("/tenants", s.handleListTenants)
		admin.DELETE("/tenants/:tenant_id", TenantPathGuard(), s.handleDeactivateTenant)
	}
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(run),
)
