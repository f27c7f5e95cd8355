package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"findmyjob-backend/internal/resumes"
	"findmyjob-backend/internal/scans"
	"findmyjob-backend/internal/shared/config"
	"findmyjob-backend/internal/shared/metrics"
	"findmyjob-backend/internal/shared/server/middleware"
	"findmyjob-backend/internal/shared/server/respond"
	"findmyjob-backend/internal/shared/telemetry"
	"findmyjob-backend/internal/web"
)

// RouterDeps bundles the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config         config.Config
	ResumesHandler *resumes.Handler
	ScansHandler   *scans.Handler
	WebHandler     *web.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	// Forwarding headers are honored only from configured proxies; the upload
	// limiter keys on ClientIP.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		telemetry.Warn("server.trusted_proxies_invalid", map[string]any{"error": err})
		_ = r.SetTrustedProxies(nil)
	}
	if cfg.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Identity(),
	)

	limiter := middleware.NewRateLimiter(time.Now)
	upload := middleware.RateLimit(limiter, "upload", middleware.RateLimitRule{
		Rate:  cfg.UploadRatePerSec,
		Burst: cfg.UploadRateBurst,
	})

	health := func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	}
	r.GET("/healthz", health)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", health)

	if deps.ScansHandler != nil {
		deps.ScansHandler.RegisterUploadRoute(r, upload)
		deps.ScansHandler.RegisterRoutes(api, upload)
	}
	if deps.ResumesHandler != nil {
		deps.ResumesHandler.RegisterRoutes(api, upload)
	}
	if deps.WebHandler != nil {
		deps.WebHandler.RegisterRoutes(r, upload)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
