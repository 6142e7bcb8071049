// Food-log HTTP handlers.
//
// This file exposes REST endpoints for food-log entries:
//   - POST   /food-logs            (single-item log with merge-on-duplicate)
//   - POST   /food-logs/bulk       (bulk log, 1–20 items, one user/meal-type/day)
//   - GET    /food-logs/{id}       (fetch one entry)
//   - PUT    /food-logs/{id}       (explicit update)
//   - DELETE /food-logs/{id}       (remove an entry)
//   - GET    /food-logs/user/{userId}  (paginated list with optional date window)
//
// Handlers are transport-thin: they validate input shapes, convert the
// epoch-millisecond wire dates, call application services, and translate
// results (including service sentinels) into HTTP responses.
//
// The single-item endpoint always answers 201; the body's `merged` flag tells
// creations and quantity-replacing merges apart, which the original API did
// not distinguish.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anirudhsingh20/bite-count-apis/internal/domain"
	"github.com/anirudhsingh20/bite-count-apis/internal/repo"
	"github.com/anirudhsingh20/bite-count-apis/internal/services"
	"github.com/anirudhsingh20/bite-count-apis/internal/utils"
)

//
// Service contracts (context-aware)
//

// FoodLogService defines the food-log lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type FoodLogService interface {
	// Log resolves a single-item logging call; merged reports whether an
	// existing entry was updated instead of a new one created.
	Log(ctx context.Context, req services.LogRequest) (entry *domain.FoodLogEntry, merged bool, err error)
	// LogBulk processes a batch of 1–20 items sharing user/meal-type/day.
	LogBulk(ctx context.Context, req services.BulkRequest) (*services.BulkResult, error)
	// Get fetches one entry by ID.
	Get(ctx context.Context, id string) (*domain.FoodLogEntry, error)
	// Update applies an explicit update to one entry.
	Update(ctx context.Context, id string, req services.UpdateRequest) (*domain.FoodLogEntry, error)
	// Delete removes one entry.
	Delete(ctx context.Context, id string) error
	// ListPage returns a page of a user's entries plus the total count.
	ListPage(ctx context.Context, userID string, from, to *time.Time, page, pageSize int) ([]domain.FoodLogEntry, int64, error)
}

// NutritionService defines the aggregation operations consumed by HTTP
// handlers: daily/range summaries, trend windows, and per-user statistics.
type NutritionService interface {
	DailySummary(ctx context.Context, userID string, date time.Time) (*domain.DailyNutritionSummary, error)
	RangeSummary(ctx context.Context, userID string, start, end time.Time) ([]*domain.DailyNutritionSummary, error)
	WeeklyTrend(ctx context.Context, userID string, weeks int) (*services.TrendResult, error)
	MonthlyTrend(ctx context.Context, userID string, months int) (*services.TrendResult, error)
	Stats(ctx context.Context, userID string) (*repo.FoodLogStats, error)
}

// CatalogService defines the read-only meal catalog lookup.
type CatalogService interface {
	Get(ctx context.Context, id string) (*domain.Meal, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for food logs, nutrition summaries, and
// catalog lookups. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	logSvc       FoodLogService
	nutritionSvc NutritionService
	catalogSvc   CatalogService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(logSvc FoodLogService, nutritionSvc NutritionService, catalogSvc CatalogService) *Handlers {
	return &Handlers{logSvc: logSvc, nutritionSvc: nutritionSvc, catalogSvc: catalogSvc}
}

//
// DTOs
//

// CreateFoodLogRequest is the JSON payload for a single-item logging call.
// Dates travel as epoch milliseconds.
type CreateFoodLogRequest struct {
	User     string  `json:"user"     binding:"required" example:"user123"`
	Meal     string  `json:"meal"     binding:"required" example:"8f14e45f-ceea-4e07-a06d-1f2a44f3f2e1"`
	MealType string  `json:"mealType" binding:"required" example:"lunch"`
	Quantity float64 `json:"quantity" binding:"required" example:"1.5"`
	LogDate  *int64  `json:"logDate,omitempty"`
	LoggedAt *int64  `json:"loggedAt,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// CreateFoodLogResponse wraps the persisted entry and reports whether the
// call merged into an existing row.
type CreateFoodLogResponse struct {
	Log    *domain.FoodLogEntry `json:"log"`
	Merged bool                 `json:"merged"`
}

// BulkFoodLogItem is one meal inside a bulk submission.
type BulkFoodLogItem struct {
	Meal     string  `json:"meal"     binding:"required"`
	Quantity float64 `json:"quantity" binding:"required"`
	Notes    string  `json:"notes,omitempty"`
}

// BulkFoodLogRequest is the JSON payload for a bulk logging call.
type BulkFoodLogRequest struct {
	User     string            `json:"user"     binding:"required"`
	MealType string            `json:"mealType" binding:"required"`
	Items    []BulkFoodLogItem `json:"items"    binding:"required"`
	LogDate  *int64            `json:"logDate,omitempty"`
	LoggedAt *int64            `json:"loggedAt,omitempty"`
	Notes    string            `json:"notes,omitempty"`
}

// UpdateFoodLogRequest is the JSON payload for an explicit entry update.
// Absent fields are left unchanged.
type UpdateFoodLogRequest struct {
	Quantity *float64 `json:"quantity,omitempty"`
	MealType *string  `json:"mealType,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
	LoggedAt *int64   `json:"loggedAt,omitempty"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListFoodLogsResponse wraps a page of entries and pagination information.
type ListFoodLogsResponse struct {
	Logs       []domain.FoodLogEntry `json:"logs"`
	Pagination Pagination            `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and limit query params to sane
// defaults and limits, returning (page, limit).
func clampPagination(c *gin.Context) (page, limit int) {
	const (
		defaultPage  = 1
		defaultLimit = 20
		maxLimit     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	limit = utils.AtoiDefault(c.Query("limit"), defaultLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return
}

// bodyMillis converts an optional epoch-millisecond body field, failing the
// request on negative values. The bool result reports whether the response
// has already been written.
func bodyMillis(c *gin.Context, v *int64, field string) (*time.Time, bool) {
	if v == nil {
		return nil, false
	}
	t, err := utils.EpochMillisToTime(*v)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, field+" "+err.Error())
		return nil, true
	}
	return &t, false
}

// failFromService maps service-layer sentinels onto HTTP statuses, falling
// back to 500 with the given domain code.
func failFromService(c *gin.Context, err error, code string) {
	switch {
	case errors.Is(err, services.ErrInvalidMealType),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrNotesTooLong),
		errors.Is(err, services.ErrEmptyBatch),
		errors.Is(err, services.ErrBatchTooLarge),
		errors.Is(err, services.ErrDuplicateBatchMeal),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrInvalidWindow):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrLogNotFound),
		errors.Is(err, services.ErrMealNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	default:
		fail(c, http.StatusInternalServerError, code, err.Error())
	}
}

//
// Handlers
//

// CreateFoodLog godoc
// @ID          createFoodLog
// @Summary     Log a meal
// @Description Records one meal for a user. Logging the same user/meal/day/meal-type again replaces the stored quantity (merged=true) instead of creating a duplicate.
// @Tags        FoodLogs
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateFoodLogRequest  true  "Single-item log payload"
//
// @Success     201  {object}  handlers.CreateFoodLogResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Meal not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /food-logs [post]
func (h *Handlers) CreateFoodLog(c *gin.Context) {
	var req CreateFoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	logDate, done := bodyMillis(c, req.LogDate, "logDate")
	if done {
		return
	}
	loggedAt, done := bodyMillis(c, req.LoggedAt, "loggedAt")
	if done {
		return
	}

	entry, merged, err := h.logSvc.Log(c.Request.Context(), services.LogRequest{
		UserID:   req.User,
		MealID:   req.Meal,
		MealType: domain.MealType(req.MealType),
		Quantity: req.Quantity,
		LogDate:  logDate,
		LoggedAt: loggedAt,
		Notes:    req.Notes,
	})
	if err != nil {
		failFromService(c, err, ErrCodeLogFailed)
		return
	}
	ok(c, http.StatusCreated, CreateFoodLogResponse{Log: entry, Merged: merged})
}

// CreateBulkFoodLogs godoc
// @ID          createBulkFoodLogs
// @Summary     Log several meals at once
// @Description Records 1–20 meals sharing a user, meal type, and log day. Existing entries are merged (quantity replaced); the rest are created in one batch insert. The batch is all-or-nothing.
// @Tags        FoodLogs
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.BulkFoodLogRequest  true  "Bulk log payload"
//
// @Success     201  {object}  services.BulkResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Meal not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /food-logs/bulk [post]
func (h *Handlers) CreateBulkFoodLogs(c *gin.Context) {
	var req BulkFoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	logDate, done := bodyMillis(c, req.LogDate, "logDate")
	if done {
		return
	}
	loggedAt, done := bodyMillis(c, req.LoggedAt, "loggedAt")
	if done {
		return
	}

	items := make([]services.BulkItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = services.BulkItem{MealID: it.Meal, Quantity: it.Quantity, Notes: it.Notes}
	}

	res, err := h.logSvc.LogBulk(c.Request.Context(), services.BulkRequest{
		UserID:   req.User,
		MealType: domain.MealType(req.MealType),
		Items:    items,
		LogDate:  logDate,
		LoggedAt: loggedAt,
		Notes:    req.Notes,
	})
	if err != nil {
		failFromService(c, err, ErrCodeBulkFailed)
		return
	}
	ok(c, http.StatusCreated, res)
}

// GetFoodLog godoc
// @ID          getFoodLog
// @Summary     Fetch one food-log entry
// @Tags        FoodLogs
// @Produce     json
//
// @Param       id  path  string  true  "Entry ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.FoodLogEntry
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Entry not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /food-logs/{id} [get]
func (h *Handlers) GetFoodLog(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "entry id must be a UUID")
		return
	}
	entry, err := h.logSvc.Get(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, entry)
}

// UpdateFoodLog godoc
// @ID          updateFoodLog
// @Summary     Update a food-log entry
// @Description Explicitly updates quantity, meal type, notes, or logged-at time of one entry. Supplied fields are revalidated.
// @Tags        FoodLogs
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Entry ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateFoodLogRequest  true  "Fields to update"
//
// @Success     200  {object}  domain.FoodLogEntry
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Entry not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /food-logs/{id} [put]
func (h *Handlers) UpdateFoodLog(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "entry id must be a UUID")
		return
	}

	var req UpdateFoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	loggedAt, done := bodyMillis(c, req.LoggedAt, "loggedAt")
	if done {
		return
	}

	upd := services.UpdateRequest{Quantity: req.Quantity, Notes: req.Notes, LoggedAt: loggedAt}
	if req.MealType != nil {
		mt := domain.MealType(*req.MealType)
		upd.MealType = &mt
	}

	entry, err := h.logSvc.Update(c.Request.Context(), id, upd)
	if err != nil {
		failFromService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, entry)
}

// DeleteFoodLog godoc
// @ID          deleteFoodLog
// @Summary     Delete a food-log entry
// @Tags        FoodLogs
//
// @Param       id  path  string  true  "Entry ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Entry not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /food-logs/{id} [delete]
func (h *Handlers) DeleteFoodLog(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "entry id must be a UUID")
		return
	}
	if err := h.logSvc.Delete(c.Request.Context(), id); err != nil {
		failFromService(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}

// ListUserFoodLogs godoc
// @ID          listUserFoodLogs
// @Summary     List a user's food logs (paginated)
// @Description Returns a page of the user's entries, newest log day first, optionally restricted to a [startDate, endDate] window (epoch milliseconds).
// @Tags        FoodLogs
// @Produce     json
//
// @Param       userId     path   string  true  "User ID"
// @Param       page       query  int     false "Page number"      minimum(1) default(1)
// @Param       limit      query  int     false "Items per page"   minimum(1) maximum(100) default(20)
// @Param       startDate  query  int     false "Window start (epoch ms)"
// @Param       endDate    query  int     false "Window end (epoch ms)"
//
// @Success     200  {object}  handlers.ListFoodLogsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /food-logs/user/{userId} [get]
func (h *Handlers) ListUserFoodLogs(c *gin.Context) {
	userID := c.Param("userId")
	page, limit := clampPagination(c)

	from, err := utils.ParseEpochMillis(c.Query("startDate"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "startDate "+err.Error())
		return
	}
	to, err := utils.ParseEpochMillis(c.Query("endDate"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "endDate "+err.Error())
		return
	}

	items, total, err := h.logSvc.ListPage(c.Request.Context(), userID, from, to, page, limit)
	if err != nil {
		failFromService(c, err, ErrCodeListFailed)
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	ok(c, http.StatusOK, ListFoodLogsResponse{
		Logs: items,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetMeal godoc
// @ID          getMeal
// @Summary     Fetch one catalog meal
// @Tags        Meals
// @Produce     json
//
// @Param       id  path  string  true  "Meal ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Meal
// @Failure     404  {object}  handlers.ErrorResponse  "Meal not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /meals/{id} [get]
func (h *Handlers) GetMeal(c *gin.Context) {
	m, err := h.catalogSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, m)
}
