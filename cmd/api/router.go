package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/fixitdz/contact-relay/config"
	"github.com/fixitdz/contact-relay/internal/handlers"
	"github.com/fixitdz/contact-relay/internal/middleware"
	"github.com/fixitdz/contact-relay/pkg/locale"
	"github.com/fixitdz/contact-relay/pkg/metrics"
)

type routerDeps struct {
	catalog  *locale.Catalog
	contact  *handlers.ContactHandler
	health   *handlers.HealthHandler
	fallback *handlers.FallbackHandler
}

// newRouter assembles the engine with its global middleware and routes
func newRouter(cfg *config.Config, deps routerDeps) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(deps.fallback.MethodNotAllowed)
	router.NoRoute(deps.fallback.NotFound)

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS: only the site's own origins may post the form from a browser
	allowedOrigins := append([]string(nil), cfg.Server.AllowedOrigins...)
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}
	if len(allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  allowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Accept-Language", "X-Requested-With", "X-Request-ID", "traceparent", "tracestate"},
			ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}))
	}

	contactRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.Contact.RateLimitRPS), cfg.Contact.RateLimitBurst, deps.catalog)
	generalRateLimiter := middleware.NewRateLimiter(20, 40, deps.catalog)

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), deps.health.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	registerContactRoutes(router, cfg, contactRateLimiter, deps.contact)

	return router
}

// registerContactRoutes registers the contact endpoint and its legacy alias
func registerContactRoutes(router *gin.Engine, cfg *config.Config, rateLimiter *middleware.RateLimiter, contactHandler *handlers.ContactHandler) {
	chain := []gin.HandlerFunc{
		rateLimiter.Middleware(),
		middleware.BodySizeLimitMiddleware(cfg.Contact.MaxBodyBytes),
		contactHandler.SubmitContact,
	}

	router.POST("/api/v1/contact", chain...)
	// Path the existing site's form script posts to
	router.POST("/send_email.php", chain...)
}
