package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/siriuscareer/career-admin/internal/config"
	"github.com/siriuscareer/career-admin/internal/handler"
	"github.com/siriuscareer/career-admin/internal/middleware"
	"github.com/siriuscareer/career-admin/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Test   *handler.TestHandler
	System *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// A nil limiter leaves the admin routes unlimited.
func SetupRouter(
	handlers *Handlers,
	limiter middleware.Limiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID", cfg.IdentityHeader}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))

	// ─── 0. Service Info & Health (No Identity) ────────────────────────
	router.GET("/", handlers.System.Root)
	router.GET("/health", handlers.System.Health)
	router.GET("/health/ready", handlers.System.Ready)
	router.GET("/health/live", handlers.System.Live)

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// ─── 1. Admin Group (Identity + Rate Limit) ────────────────────────
	adminAPI := router.Group("/admin")
	adminAPI.Use(middleware.RequireIdentity(cfg.IdentityHeader))
	if limiter != nil {
		adminAPI.Use(middleware.RateLimit(limiter, log))
	}
	{
		tests := adminAPI.Group("/tests")

		// The collection answers with and without the trailing slash.
		for _, p := range []string{"", "/"} {
			tests.GET(p, handlers.Test.List)
			tests.POST(p, handlers.Test.Create)
		}

		// Filtered lists only live under the trailing slash so that
		// /tests/active and /tests/inactive still resolve as slugs.
		tests.GET("/active/", handlers.Test.ListActive)
		tests.GET("/inactive/", handlers.Test.ListInactive)

		tests.GET("/:slug", handlers.Test.Get)
		tests.PUT("/:slug", handlers.Test.Update)
		tests.DELETE("/:slug", handlers.Test.Delete)
	}

	return router
}
