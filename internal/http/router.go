// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, compression,
// CORS, security headers, bearer authentication, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/versaforge/go-agent-backend/internal/auth"
	"github.com/versaforge/go-agent-backend/internal/config"
	"github.com/versaforge/go-agent-backend/internal/http/handlers"
	"github.com/versaforge/go-agent-backend/internal/http/middleware"
	"github.com/versaforge/go-agent-backend/internal/llm"
	"github.com/versaforge/go-agent-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts
// the versioned public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Structured request logging
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. CORS, gzip, and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, store services.BlobStore, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (16 MiB; uploads need headroom)
	r.Use(limitBody(16 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Compress responses; uploads are already-compressed binary formats.
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db/store
	codec := auth.NewCodec(cfg.JWT.Secret, cfg.JWT.TTL)
	guard := auth.NewGuard(db, codec)

	userSvc := services.NewUserService(db)
	catSvc := services.NewCategoryService(db)
	agentSvc := services.NewAgentService(db)
	fileSvc := services.NewFileService(db, store)
	chatSvc := &services.ChatService{
		DB:              db,
		Agents:          agentSvc,
		LLM:             llm.NewManager(),
		DefaultProvider: cfg.LLMDefault,
	}

	h := handlers.New(userSvc, catSvc, agentSvc, fileSvc, chatSvc, codec)
	authn := middleware.BearerAuth(guard)

	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)

	// Public endpoints: account bootstrap and category browsing.
	api.POST("/users/register", h.Register)
	api.POST("/users/login", h.Login)
	api.GET("/categories", h.ListCategories)
	api.GET("/categories/:id", h.GetCategory)

	// Everything else requires a bearer token.
	priv := api.Group("", authn)
	{
		// Account
		priv.GET("/users/me", h.Me)
		priv.PUT("/users/me", h.UpdateMe)
		priv.PUT("/users/me/password", h.ChangePassword)
		priv.GET("/users/me/groups", h.MyGroups)
		priv.POST("/users/me/groups/:group_id", h.JoinGroup)

		// Category administration
		priv.POST("/categories", h.CreateCategory)
		priv.PUT("/categories/:id", h.UpdateCategory)
		priv.DELETE("/categories/:id", h.DeleteCategory)

		// Agents
		priv.POST("/agents", h.CreateAgent)
		priv.GET("/agents", h.ListMyAgents)
		priv.GET("/agents/public", h.ListPublicAgents)
		priv.GET("/agents/public/users/:user_id", h.ListUserPublicAgents)
		priv.GET("/agents/public/categories/:category_id", h.ListCategoryAgents)
		priv.GET("/agents/:id", h.GetAgent)
		priv.PUT("/agents/:id", h.UpdateAgent)
		priv.DELETE("/agents/:id", h.DeleteAgent)
		priv.POST("/agents/:id/groups/:group_id", h.ShareAgentWithGroup)

		// Agent files
		priv.POST("/agents/:id/files", h.UploadAgentFile)
		priv.GET("/agents/:id/files", h.ListAgentFiles)

		// Chat
		priv.POST("/chat", h.Chat)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
