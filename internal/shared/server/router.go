package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"skin-health-backend/internal/analyses"
	"skin-health-backend/internal/reports"
	"skin-health-backend/internal/services/health"
	"skin-health-backend/internal/session"
	"skin-health-backend/internal/shared/config"
	"skin-health-backend/internal/shared/metrics"
	"skin-health-backend/internal/shared/server/middleware"
	"skin-health-backend/internal/shared/server/respond"
	"skin-health-backend/internal/web"
)

const analyzeGroup = "ANALYZE"

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	ReportHandler   *reports.Handler
	Health          *health.Service
	Limiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	// ClientIP honours forwarding headers only from these peers.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	r.Use(
		middleware.RequestID(),
		session.Middleware(session.CookieOptions{
			Name:   cfg.SessionCookie,
			TTL:    cfg.SessionTTL,
			Secure: cfg.IsProduction(),
		}),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: "DEFAULT",
			GroupFor:     rateLimitGroup,
			// Keyed by client IP: session cookies are issued on demand and
			// chosen by the client, so they cannot bound a caller.
			KeyFor: func(c *gin.Context) string {
				return c.ClientIP()
			},
			Limiter: deps.Limiter,
			Rules: map[string]middleware.RateLimitRule{
				analyzeGroup: {Rate: cfg.AnalyzePerMinute / 60, Burst: cfg.AnalyzeBurst},
			},
		}),
	)

	if err := web.Register(r); err != nil {
		return nil, err
	}
	deps.AnalysisHandler.RegisterRoutes(r)
	deps.ReportHandler.RegisterRoutes(r)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		st := deps.Health.Status()
		code := http.StatusOK
		if !st.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, st)
	})
	deps.AnalysisHandler.RegisterAPIRoutes(api)

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "page not found", nil)
	})

	return r, nil
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.FullPath() {
	case "/analyze", "/api/v1/analyses":
		return analyzeGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
