package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anirudhsingh20/bite-count-apis/internal/config"
	"github.com/anirudhsingh20/bite-count-apis/internal/domain"
	"github.com/anirudhsingh20/bite-count-apis/internal/repo"
)

func testConfig() config.Config {
	return config.Config{
		GinMode:     "test",
		APIBasePath: "/api/v1",
		RateRPS:     1000,
		RateBurst:   1000,
		Security:    config.SecurityConfig{},
		OTEL:        config.OTELConfig{ServiceName: "bite-count-test"},
	}
}

func newTestEngine(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("router_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	r := gin.New()
	RegisterRoutes(r, db, testConfig())
	return r, db
}

func TestRegisterRoutes_HealthAndMetrics(t *testing.T) {
	r, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/health: status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics: status = %d", w.Code)
	}
}

func TestRegisterRoutes_NoRouteAndNoMethodEnvelopes(t *testing.T) {
	r, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("no route: status = %d", w.Code)
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Code != "not_found" {
		t.Fatalf("no route envelope: %s (%v)", w.Body.String(), err)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/v1/food-logs", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("no method: status = %d", w.Code)
	}
}

func TestRegisterRoutes_RequestIDHeaderPropagates(t *testing.T) {
	r, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "test-corr-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "test-corr-id" {
		t.Fatalf("X-Request-ID not echoed: %q", got)
	}
}

func TestRegisterRoutes_EndToEndLogAndSummarize(t *testing.T) {
	r, db := newTestEngine(t)
	ctx := context.Background()

	cal := 250.0
	meal := &domain.Meal{Name: "bowl", Calories: &cal}
	if err := repo.CreateMeal(ctx, db, meal); err != nil {
		t.Fatalf("seed meal: %v", err)
	}

	logDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	post := func(quantity float64) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]any{
			"user":     "u1",
			"meal":     meal.ID,
			"mealType": "lunch",
			"quantity": quantity,
			"logDate":  logDate.UnixMilli(),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/food-logs", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// First log creates.
	w := post(2)
	if w.Code != http.StatusCreated {
		t.Fatalf("first log: status = %d, body = %s", w.Code, w.Body.String())
	}
	var created struct {
		Merged bool `json:"merged"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.Merged {
		t.Fatalf("first log should not be merged: %s", w.Body.String())
	}

	// Second log of the same tuple merges, replacing the quantity.
	w = post(3)
	if w.Code != http.StatusCreated {
		t.Fatalf("second log: status = %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || !created.Merged {
		t.Fatalf("second log should be merged: %s", w.Body.String())
	}

	// The daily summary reflects the replaced quantity: 3 × 250.
	path := fmt.Sprintf("/api/v1/food-logs/daily-nutrition/u1?date=%d", logDate.UnixMilli())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("daily summary: status = %d, body = %s", w.Code, w.Body.String())
	}
	var summary domain.DailyNutritionSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalCalories != 750 || summary.TotalItems != 1 {
		t.Fatalf("summary wrong: %+v", summary)
	}

	// The list endpoint sees exactly one entry.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/food-logs/user/u1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	var list struct {
		Logs []domain.FoodLogEntry `json:"logs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list.Logs) != 1 {
		t.Fatalf("list wrong: %s (%v)", w.Body.String(), err)
	}
	if list.Logs[0].Quantity != 3 {
		t.Fatalf("stored quantity should be 3, got %v", list.Logs[0].Quantity)
	}
}
