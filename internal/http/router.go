// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, compression, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/anirudhsingh20/bite-count-apis/internal/config"
	"github.com/anirudhsingh20/bite-count-apis/internal/domain"
	"github.com/anirudhsingh20/bite-count-apis/internal/http/handlers"
	"github.com/anirudhsingh20/bite-count-apis/internal/http/middleware"
	"github.com/anirudhsingh20/bite-count-apis/internal/repo"
	"github.com/anirudhsingh20/bite-count-apis/internal/services"
)

// foodLogRepoShim adapts the repository free functions to the
// services.FoodLogRepo interface expected by FoodLogService. This keeps
// services decoupled from the concrete repo package while reusing the
// existing functions.
type foodLogRepoShim struct{}

// Create proxies repo.CreateFoodLog.
func (foodLogRepoShim) Create(ctx context.Context, db *gorm.DB, e *domain.FoodLogEntry) error {
	return repo.CreateFoodLog(ctx, db, e)
}

// CreateBatch proxies repo.CreateFoodLogs.
func (foodLogRepoShim) CreateBatch(ctx context.Context, db *gorm.DB, entries []*domain.FoodLogEntry) error {
	return repo.CreateFoodLogs(ctx, db, entries)
}

// Upsert proxies repo.UpsertFoodLog.
func (foodLogRepoShim) Upsert(ctx context.Context, db *gorm.DB, e *domain.FoodLogEntry) error {
	return repo.UpsertFoodLog(ctx, db, e)
}

// Get proxies repo.GetFoodLog.
func (foodLogRepoShim) Get(ctx context.Context, db *gorm.DB, id string) (*domain.FoodLogEntry, error) {
	return repo.GetFoodLog(ctx, db, id)
}

// FindByTuple proxies repo.FindLogByTuple.
func (foodLogRepoShim) FindByTuple(ctx context.Context, db *gorm.DB, userID, mealID string, logDate time.Time, mealType domain.MealType) (*domain.FoodLogEntry, error) {
	return repo.FindLogByTuple(ctx, db, userID, mealID, logDate, mealType)
}

// FindByMeals proxies repo.FindLogsByMeals.
func (foodLogRepoShim) FindByMeals(ctx context.Context, db *gorm.DB, userID string, mealType domain.MealType, logDate time.Time, mealIDs []string) ([]domain.FoodLogEntry, error) {
	return repo.FindLogsByMeals(ctx, db, userID, mealType, logDate, mealIDs)
}

// Update proxies repo.UpdateFoodLog.
func (foodLogRepoShim) Update(ctx context.Context, db *gorm.DB, id string, updates map[string]any) error {
	return repo.UpdateFoodLog(ctx, db, id, updates)
}

// Delete proxies repo.DeleteFoodLog.
func (foodLogRepoShim) Delete(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteFoodLog(ctx, db, id)
}

// Count proxies repo.CountFoodLogs.
func (foodLogRepoShim) Count(ctx context.Context, db *gorm.DB, userID string, from, to *time.Time) (int64, error) {
	return repo.CountFoodLogs(ctx, db, userID, from, to)
}

// ListPage proxies repo.ListFoodLogsPage.
func (foodLogRepoShim) ListPage(ctx context.Context, db *gorm.DB, userID string, from, to *time.Time, offset, limit int) ([]domain.FoodLogEntry, error) {
	return repo.ListFoodLogsPage(ctx, db, userID, from, to, offset, limit)
}

// mealCatalogShim adapts the meal repository functions to the
// services.MealCatalog collaborator interface.
type mealCatalogShim struct{}

// GetMeal proxies repo.GetMeal.
func (mealCatalogShim) GetMeal(ctx context.Context, db *gorm.DB, id string) (*domain.Meal, error) {
	return repo.GetMeal(ctx, db, id)
}

// GetMeals proxies repo.GetMeals.
func (mealCatalogShim) GetMeals(ctx context.Context, db *gorm.DB, ids []string) (map[string]*domain.Meal, error) {
	return repo.GetMeals(ctx, db, ids)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, compression, health and metrics endpoints, and
// then mounts the versioned public API under the configured base path.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Rate limiter (per user/IP)
//  9. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

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

	// API docs (off by default)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	logSvc := services.NewFoodLogService(db, foodLogRepoShim{}, mealCatalogShim{})
	nutritionSvc := &services.NutritionService{DB: db}
	catalogSvc := &services.CatalogService{DB: db}
	h := handlers.New(logSvc, nutritionSvc, catalogSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Logging
		api.POST("/food-logs", h.CreateFoodLog)
		api.POST("/food-logs/bulk", h.CreateBulkFoodLogs)

		// Entry CRUD
		api.GET("/food-logs/:id", h.GetFoodLog)
		api.PUT("/food-logs/:id", h.UpdateFoodLog)
		api.DELETE("/food-logs/:id", h.DeleteFoodLog)

		// Listing and aggregation
		api.GET("/food-logs/user/:userId", h.ListUserFoodLogs)
		api.GET("/food-logs/daily-nutrition/:userId", h.GetDailyNutrition)
		api.GET("/food-logs/nutrition-range/:userId", h.GetNutritionRange)
		api.GET("/food-logs/weekly-trend/:userId", h.GetWeeklyTrend)
		api.GET("/food-logs/monthly-trend/:userId", h.GetMonthlyTrend)
		api.GET("/food-logs/stats/:userId", h.GetFoodLogStats)

		// Catalog (read-only)
		api.GET("/meals/:id", h.GetMeal)
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
