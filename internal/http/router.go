// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, structured logging, panic recovery, metrics,
// CORS, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/iabhiroop/go-procure-backend/internal/config"
	"github.com/iabhiroop/go-procure-backend/internal/docgen"
	"github.com/iabhiroop/go-procure-backend/internal/extract"
	"github.com/iabhiroop/go-procure-backend/internal/http/handlers"
	"github.com/iabhiroop/go-procure-backend/internal/http/middleware"
	"github.com/iabhiroop/go-procure-backend/internal/mail"
	"github.com/iabhiroop/go-procure-backend/internal/queue"
	"github.com/iabhiroop/go-procure-backend/internal/services"
)

// RegisterRoutes attaches all middleware and endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per client IP)
//  8. CORS
func RegisterRoutes(r *gin.Engine, db *gorm.DB, q *queue.Queue, pipeline *extract.Pipeline, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	// 8) CORS posture (allow all when no allowlist configured)
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
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← queue/db/pipeline
	queueSvc := services.NewQueueService(q)
	orderSvc := services.NewOrderService(db, services.DefaultOrderRepo())
	extractSvc := services.NewExtractService(pipeline, orderSvc)
	gen := docgen.New(cfg.DocumentDir)

	var sender *mail.Sender
	var fetcher *mail.Fetcher
	if cfg.Mail.Enabled {
		// Config validation guarantees the token is present here.
		sender, _ = mail.NewSender(cfg.Mail.AccessToken, cfg.Mail.SenderName)
		fetcher, _ = mail.NewFetcher(cfg.Mail.AccessToken, cfg.Mail.AttachmentDir)
	}

	h := handlers.New(queueSvc, orderSvc, extractSvc, db, gen, sender, fetcher)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Purchase request queue
		api.POST("/requests", h.EnqueuePurchaseRequest)
		api.GET("/requests", h.ListPendingRequests)
		api.POST("/requests/:id/complete", h.CompleteRequest)
		api.GET("/requests/status", h.QueueStatus)

		// Extraction pipeline
		api.POST("/extractions", h.RunExtraction)

		// Order records
		api.POST("/orders", h.UpsertOrders)
		api.GET("/orders", h.ListOrders)
		api.GET("/orders/:id", h.GetOrder)

		// Inventory
		api.GET("/inventory/restock", h.RestockReport)
		api.GET("/inventory/status", h.InventoryStatus)

		// Documents and mail
		api.POST("/documents/po", h.GeneratePO)
		api.POST("/documents/inbound", h.FetchInboundDocuments)

		// Budget
		api.GET("/budget/approval", h.BudgetApproval)
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader. Requests exceeding the cap cause downstream body
// reads to error.
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
